package eprbridge

import (
	"fmt"
	"time"

	"github.com/yourusername/eprbridge/store"
)

// Option is a functional option for configuring a Bridge.
type Option func(*Bridge) error

// WithConfig sets the configuration for the bridge.
func WithConfig(config *Config) Option {
	return func(b *Bridge) error {
		if config == nil {
			return fmt.Errorf("%w: config cannot be nil", ErrInvalidConfig)
		}
		if err := config.Validate(); err != nil {
			return err
		}
		b.config = config
		return nil
	}
}

// WithConfigFile loads configuration from a YAML file.
func WithConfigFile(path string) Option {
	return func(b *Bridge) error {
		config, err := LoadConfigFromFile(path)
		if err != nil {
			return err
		}
		b.config = config
		return nil
	}
}

// WithDefaults sets the pool parameters on top of the default configuration.
// This is a convenience option for tests and simple programs.
func WithDefaults(increment, capacity int64, period, scale time.Duration) Option {
	return func(b *Bridge) error {
		config := NewConfig()
		config.FrameIncrement = increment
		config.BufferCapacity = capacity
		config.ReplenishPeriod = period
		config.DelayScale = scale
		if err := config.Validate(); err != nil {
			return err
		}
		b.config = config
		return nil
	}
}

// WithLogger sets the logger. The default is apex/log's log.Log.
func WithLogger(logger Logger) Option {
	return func(b *Bridge) error {
		if logger == nil {
			return fmt.Errorf("%w: logger cannot be nil", ErrInvalidConfig)
		}
		b.logger = logger
		return nil
	}
}

// WithRecorder sets where packet and tick outcomes are reported.
func WithRecorder(recorder Recorder) Option {
	return func(b *Bridge) error {
		if recorder == nil {
			return fmt.Errorf("%w: recorder cannot be nil", ErrInvalidConfig)
		}
		b.recorder = recorder
		return nil
	}
}

// WithStore publishes pool snapshots to store under the configured name.
func WithStore(s store.Store) Option {
	return func(b *Bridge) error {
		if s == nil {
			return fmt.Errorf("%w: store cannot be nil", ErrInvalidConfig)
		}
		b.store = s
		return nil
	}
}

// WithSleeper replaces the blocking delay. Tests use it to observe or
// control delays without waiting.
func WithSleeper(sleep Sleeper) Option {
	return func(b *Bridge) error {
		if sleep == nil {
			return fmt.Errorf("%w: sleeper cannot be nil", ErrInvalidConfig)
		}
		b.sleep = sleep
		return nil
	}
}

package eprbridge

import (
	"fmt"
	"os"
	"time"

	"github.com/yourusername/eprbridge/core"
	"gopkg.in/yaml.v3"
)

// Defaults applied by NewConfig and kept for keys absent from a config file.
const (
	DefaultFrameIncrement  = 10000
	DefaultBufferCapacity  = 250000
	DefaultReplenishPeriod = 500 * time.Millisecond
	DefaultDelayScale      = time.Microsecond
	DefaultQueueNum        = 0
	DefaultQueueDepth      = 1024
	DefaultCostModel       = "tiered"
	DefaultMissedTicks     = "drop"
	DefaultName            = "bridge0"
)

// MaxPacketSize is the largest IP packet the queue can deliver
const MaxPacketSize = 0xffff

// Config holds the bridge configuration.
type Config struct {
	// Name identifies this bridge in published snapshots
	Name string `yaml:"name"`

	// FrameIncrement is the number of units added to the pool per tick
	FrameIncrement int64 `yaml:"frame_increment"`

	// BufferCapacity is the upper bound on pool units
	BufferCapacity int64 `yaml:"buffer_capacity"`

	// ReplenishPeriod is the time between ticks
	// Format: "500ms", "2s"
	ReplenishPeriod time.Duration `yaml:"replenish_period"`

	// DelayScale converts one delay unit into time
	// Example: "1us" turns 20000 delay units into 20ms
	DelayScale time.Duration `yaml:"delay_scale"`

	// QueueNum is the netfilter queue to bind (iptables --queue-num)
	QueueNum uint16 `yaml:"queue_num"`

	// QueueDepth bounds the kernel queue and the userspace packet buffer
	QueueDepth uint32 `yaml:"queue_depth"`

	// UnitOverhead is added to every packet's unit count
	UnitOverhead int64 `yaml:"unit_overhead"`

	// CostModel selects the pricing function: "tiered" or "legacy"
	CostModel string `yaml:"cost_model"`

	// MissedTicks selects what happens to a tick that arrives while a
	// packet is being delayed: "drop" or "queue"
	MissedTicks string `yaml:"missed_ticks"`
}

// NewConfig creates a new Config with the documented defaults.
func NewConfig() *Config {
	return &Config{
		Name:            DefaultName,
		FrameIncrement:  DefaultFrameIncrement,
		BufferCapacity:  DefaultBufferCapacity,
		ReplenishPeriod: DefaultReplenishPeriod,
		DelayScale:      DefaultDelayScale,
		QueueNum:        DefaultQueueNum,
		QueueDepth:      DefaultQueueDepth,
		CostModel:       DefaultCostModel,
		MissedTicks:     DefaultMissedTicks,
	}
}

// LoadConfigFromFile loads configuration from a YAML file. Keys missing from
// the file keep their defaults; present keys are validated as written.
func LoadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config file: %v", ErrInvalidConfig, err)
	}

	config := NewConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse YAML: %v", ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var err error
	switch {
	case c.BufferCapacity <= 0:
		err = ErrNonPositiveCapacity
	case c.BufferCapacity > core.MaxUnits:
		err = ErrCapacityTooLarge
	case c.FrameIncrement < 0:
		err = ErrNegativeIncrement
	case c.ReplenishPeriod <= 0:
		err = ErrNonPositivePeriod
	case c.DelayScale < 0:
		err = ErrNegativeScale
	case c.QueueDepth == 0:
		err = ErrNonPositiveQueueDepth
	case c.UnitOverhead < 0:
		err = ErrNegativeOverhead
	case c.UnitOverhead > core.MaxUnits-MaxPacketSize:
		err = ErrOverheadTooLarge
	case c.DelayScale > c.MaxDelayScale():
		err = ErrScaleTooLarge
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if _, ok := core.CostModels[c.CostModel]; !ok {
		return fmt.Errorf("%w: %w %q", ErrInvalidConfig, ErrUnknownCostModel, c.CostModel)
	}
	if _, err := ParseTickPolicy(c.MissedTicks); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// MaxDelayScale returns the largest DelayScale for which the delay of a
// maximum size packet on an empty pool still fits in a time.Duration.
func (c *Config) MaxDelayScale() time.Duration {
	units := MaxPacketSize + max(c.UnitOverhead, 0)
	if units > core.MaxUnits {
		return 0
	}
	return core.MaxDuration / time.Duration(units*core.ExpensiveRate)
}

// CostFunc returns the configured cost function, falling back to the tiered
// model for an unknown name. Call Validate first to reject unknown names.
func (c *Config) CostFunc() core.CostFunc {
	if fn, ok := core.CostModels[c.CostModel]; ok {
		return fn
	}
	return core.Tiered
}

// TickPolicy returns the configured missed tick policy, DropMissedTicks for
// an unknown name.
func (c *Config) TickPolicy() TickPolicy {
	policy, _ := ParseTickPolicy(c.MissedTicks)
	return policy
}

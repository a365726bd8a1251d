package eprbridge

import (
	"github.com/yourusername/eprbridge/pkg/eprbridge"
)

// Re-export main types for convenience
type (
	Bridge = eprbridge.Bridge
	Config = eprbridge.Config
	Option = eprbridge.Option
)

var (
	// NewBridge creates a new bridge
	NewBridge = eprbridge.NewBridge

	// NewConfig returns the default configuration
	NewConfig = eprbridge.NewConfig

	WithConfig     = eprbridge.WithConfig
	WithConfigFile = eprbridge.WithConfigFile
	WithDefaults   = eprbridge.WithDefaults
	WithLogger     = eprbridge.WithLogger
	WithRecorder   = eprbridge.WithRecorder
	WithStore      = eprbridge.WithStore
)

package eprbridge

import "errors"

var (
	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNonPositiveCapacity is returned when the buffer capacity is zero or negative
	ErrNonPositiveCapacity = errors.New("buffer capacity must be positive")

	// ErrCapacityTooLarge is returned when the buffer capacity cannot be priced without overflow
	ErrCapacityTooLarge = errors.New("buffer capacity too large")

	// ErrNegativeIncrement is returned when the frame increment is negative
	ErrNegativeIncrement = errors.New("frame increment cannot be negative")

	// ErrNonPositivePeriod is returned when the replenish period is zero or negative
	ErrNonPositivePeriod = errors.New("replenish period must be positive")

	// ErrNegativeScale is returned when the delay scale is negative
	ErrNegativeScale = errors.New("delay scale cannot be negative")

	// ErrNonPositiveQueueDepth is returned when the interceptor queue depth is zero
	ErrNonPositiveQueueDepth = errors.New("queue depth must be positive")

	// ErrNegativeOverhead is returned when the per-packet unit overhead is negative
	ErrNegativeOverhead = errors.New("unit overhead cannot be negative")

	// ErrOverheadTooLarge is returned when the per-packet unit overhead overflows the cost arithmetic
	ErrOverheadTooLarge = errors.New("unit overhead too large")

	// ErrScaleTooLarge is returned when the delay of a maximum size packet overflows a time.Duration
	ErrScaleTooLarge = errors.New("delay scale too large")

	// ErrUnknownCostModel is returned for a cost model name that does not exist
	ErrUnknownCostModel = errors.New("unknown cost model")

	// ErrUnknownTickPolicy is returned for a missed tick policy that does not exist
	ErrUnknownTickPolicy = errors.New("unknown missed tick policy")
)

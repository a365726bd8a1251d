package core

import "time"

// Tier identifies which branch of a cost function priced a request
type Tier int

const (
	// TierCheap means the pool covered the whole request
	TierCheap Tier = iota
	// TierEmpty means the pool was empty and every unit paid the expensive rate
	TierEmpty
	// TierSplit means the pool covered part of the request and was drained
	TierSplit
)

// String returns the tier name used in logs and metric labels
func (t Tier) String() string {
	switch t {
	case TierCheap:
		return "cheap"
	case TierEmpty:
		return "empty"
	case TierSplit:
		return "split"
	default:
		return "unknown"
	}
}

// DelayResult is the outcome of pricing one packet against the pool
type DelayResult struct {
	DelayUnits int64         // Abstract cost before scaling
	Duration   time.Duration // DelayUnits * scale
	Consumed   int64         // Units debited from the pool
	NewLevel   int64         // Pool level after the debit
	Tier       Tier          // Branch that priced the request
}

// PoolSnapshot is a point-in-time view of a resource pool
type PoolSnapshot struct {
	Level     int64     `json:"level"`
	Capacity  int64     `json:"capacity"`
	State     string    `json:"state"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TickOutcome reports what happened to one replenishment tick
type TickOutcome int

const (
	// TickApplied means the increment was added to the pool
	TickApplied TickOutcome = iota
	// TickDropped means a consumption was in flight and the increment was lost
	TickDropped
	// TickDeferred means a consumption was in flight and the increment was
	// queued until the pool becomes idle again
	TickDeferred
)

// String returns the outcome name used in logs and metric labels
func (o TickOutcome) String() string {
	switch o {
	case TickApplied:
		return "applied"
	case TickDropped:
		return "dropped"
	case TickDeferred:
		return "deferred"
	default:
		return "unknown"
	}
}

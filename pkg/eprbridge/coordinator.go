package eprbridge

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/yourusername/eprbridge/core"
)

// State is the coordinator state
type State int32

const (
	// StateIdle means no packet is being priced or delayed
	StateIdle State = iota
	// StateConsuming means a packet holds the pool; replenishment is suppressed
	StateConsuming
)

// String returns "idle" or "consuming"
func (s State) String() string {
	if s == StateConsuming {
		return "consuming"
	}
	return "idle"
}

// TickPolicy decides the fate of a tick that finds the pool busy
type TickPolicy int

const (
	// DropMissedTicks discards the increment for that period
	DropMissedTicks TickPolicy = iota
	// QueueMissedTicks applies the increment once the pool is idle again
	QueueMissedTicks
)

// String returns the policy name as used in configuration
func (p TickPolicy) String() string {
	if p == QueueMissedTicks {
		return "queue"
	}
	return "drop"
}

// ParseTickPolicy converts a configuration name into a TickPolicy
func ParseTickPolicy(name string) (TickPolicy, error) {
	switch name {
	case "drop", "":
		return DropMissedTicks, nil
	case "queue":
		return QueueMissedTicks, nil
	default:
		return DropMissedTicks, fmt.Errorf("%w %q", ErrUnknownTickPolicy, name)
	}
}

// Coordinator serializes access to a Pool between the packet gate and the
// replenisher.
//
// The gate holds mu for the whole consumption window, which covers the
// blocking delay as well as the debit. The replenisher only ever tries the
// lock: a tick that finds the pool busy is dropped or deferred, never waited on.
type Coordinator struct {
	pool    *Pool
	policy  TickPolicy
	mu      sync.Mutex   // Held while CONSUMING
	state   atomic.Int32 // Mirrors mu for observers
	pending atomic.Int64 // Deferred increments (QueueMissedTicks only)
}

// NewCoordinator creates an idle coordinator guarding pool
func NewCoordinator(pool *Pool, policy TickPolicy) *Coordinator {
	return &Coordinator{pool: pool, policy: policy}
}

// Consume runs fn in the CONSUMING state. The state returns to IDLE when fn
// returns or panics, and increments deferred meanwhile are applied first.
func (c *Coordinator) Consume(fn func()) {
	c.mu.Lock()
	c.state.Store(int32(StateConsuming))
	defer c.release()
	fn()
}

// release leaves CONSUMING.
// MUST be called with c.mu locked.
func (c *Coordinator) release() {
	c.state.Store(int32(StateIdle))
	if n := c.pending.Swap(0); n > 0 {
		c.pool.Replenish(n)
	}
	c.mu.Unlock()
}

// TryReplenish adds amount to the pool unless a consumption is in flight.
// Increments deferred earlier are applied together with amount.
func (c *Coordinator) TryReplenish(amount int64) core.TickOutcome {
	if !c.mu.TryLock() {
		if c.policy == QueueMissedTicks {
			c.pending.Add(amount)
			return core.TickDeferred
		}
		return core.TickDropped
	}
	defer c.mu.Unlock()

	c.pool.Replenish(amount + c.pending.Swap(0))
	return core.TickApplied
}

// State returns the current state
func (c *Coordinator) State() State {
	return State(c.state.Load())
}

// Pending returns the deferred units not yet applied
func (c *Coordinator) Pending() int64 {
	return c.pending.Load()
}

// Policy returns the missed tick policy
func (c *Coordinator) Policy() TickPolicy {
	return c.policy
}

package eprbridge

import (
	"sync"
	"time"

	"github.com/yourusername/eprbridge/core"
	"github.com/yourusername/eprbridge/internal/runtimex"
)

// Pool is the bounded resource accumulator (the EPR buffer).
// It starts empty and its level always stays within [0, capacity].
type Pool struct {
	capacity int64      // Maximum number of units
	level    int64      // Units currently stored
	mu       sync.Mutex // Protects level
}

// NewPool creates an empty pool with the given capacity.
func NewPool(capacity int64) (*Pool, error) {
	if capacity <= 0 {
		return nil, ErrNonPositiveCapacity
	}
	return &Pool{capacity: capacity}, nil
}

// Replenish adds amount units, capped at capacity, and returns the new level.
// Non-positive amounts leave the pool unchanged.
func (p *Pool) Replenish(amount int64) int64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	if amount > 0 {
		// compare against the headroom so that huge amounts cannot overflow
		if amount >= p.capacity-p.level {
			p.level = p.capacity
		} else {
			p.level += amount
		}
	}
	p.checkLocked()
	return p.level
}

// Debit removes amount units, never going below zero, and returns the new level.
func (p *Pool) Debit(amount int64) int64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	if amount > 0 {
		if amount >= p.level {
			p.level = 0
		} else {
			p.level -= amount
		}
	}
	p.checkLocked()
	return p.level
}

// Consume prices units against the current level with fn and applies the
// resulting debit in the same critical section.
func (p *Pool) Consume(fn core.CostFunc, units int64, scale time.Duration) core.DelayResult {
	p.mu.Lock()
	defer p.mu.Unlock()

	result := core.Evaluate(fn, units, p.level, scale)
	runtimex.Assert(result.Consumed >= 0 && result.Consumed <= p.level,
		"cost function debited %d from level %d", result.Consumed, p.level)
	p.level -= result.Consumed
	p.checkLocked()
	return result
}

// Estimate prices units against the current level without changing it.
func (p *Pool) Estimate(fn core.CostFunc, units int64, scale time.Duration) core.DelayResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	return core.Evaluate(fn, units, p.level, scale)
}

// Level returns the number of units currently stored.
func (p *Pool) Level() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

// Capacity returns the maximum number of units.
func (p *Pool) Capacity() int64 {
	return p.capacity
}

// checkLocked panics if the level left [0, capacity].
// MUST be called with p.mu locked.
func (p *Pool) checkLocked() {
	runtimex.Assert(p.level >= 0 && p.level <= p.capacity,
		"pool level %d outside [0, %d]", p.level, p.capacity)
}

package eprbridge

import (
	"context"
	"time"

	"github.com/yourusername/eprbridge/core"
)

// Replenisher periodically adds a fixed increment to the pool through the
// coordinator.
type Replenisher struct {
	coord     *Coordinator
	pool      *Pool
	increment int64
	period    time.Duration
	logger    Logger
	recorder  Recorder
	onChange  func()
}

// Tick performs one replenishment attempt
func (r *Replenisher) Tick() core.TickOutcome {
	outcome := r.coord.TryReplenish(r.increment)
	level := r.pool.Level()

	switch outcome {
	case core.TickApplied:
		r.logger.Debugf("replenish: level=%d/%d", level, r.pool.Capacity())
	default:
		r.logger.Debugf("replenish: %s while consuming, level=%d pending=%d",
			outcome, level, r.coord.Pending())
	}
	r.recorder.RecordTick(outcome, level)
	r.onChange()
	return outcome
}

// Run ticks every period until ctx is done
func (r *Replenisher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.period)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.Tick()
		case <-ctx.Done():
			return
		}
	}
}

// Start runs the replenisher in a background goroutine.
// Call the returned function to stop it; it waits for the goroutine to exit.
func (r *Replenisher) Start() func() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)
		r.Run(ctx)
	}()

	return func() {
		cancel()
		<-done
	}
}

package eprbridge

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/yourusername/eprbridge/core"
	"github.com/yourusername/eprbridge/interceptor"
	"github.com/yourusername/eprbridge/store"
)

// Bridge owns a pool and the two actors that share it: the packet gate and
// the replenisher.
type Bridge struct {
	config   *Config
	logger   Logger
	recorder Recorder
	store    store.Store
	sleep    Sleeper

	pool        *Pool
	coord       *Coordinator
	gate        *Gate
	replenisher *Replenisher

	changed chan struct{} // Coalesced snapshot publication requests
}

// NewBridge creates a new Bridge with the given options.
// If no options are provided, it uses the documented defaults.
//
// Example:
//
//	bridge, err := NewBridge(
//	    WithConfigFile("bridge.yaml"),
//	    WithStore(store.NewMemoryStore()),
//	)
func NewBridge(opts ...Option) (*Bridge, error) {
	b := &Bridge{
		config:   NewConfig(),
		logger:   log.Log,
		recorder: nopRecorder{},
		sleep:    SleepFull,
		changed:  make(chan struct{}, 1),
	}

	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	if err := b.config.Validate(); err != nil {
		return nil, err
	}

	pool, err := NewPool(b.config.BufferCapacity)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	b.pool = pool
	b.coord = NewCoordinator(pool, b.config.TickPolicy())

	b.gate = &Gate{
		coord:    b.coord,
		pool:     pool,
		cost:     b.config.CostFunc(),
		scale:    b.config.DelayScale,
		overhead: b.config.UnitOverhead,
		sleep:    b.sleep,
		logger:   b.logger,
		recorder: b.recorder,
		onChange: b.notify,
	}
	b.replenisher = &Replenisher{
		coord:     b.coord,
		pool:      pool,
		increment: b.config.FrameIncrement,
		period:    b.config.ReplenishPeriod,
		logger:    b.logger,
		recorder:  b.recorder,
		onChange:  b.notify,
	}
	return b, nil
}

// Run starts the replenisher and serves packets from in until ctx is done or
// in is closed. The caller owns in and must close it.
func (b *Bridge) Run(ctx context.Context, in interceptor.Interceptor) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		b.replenisher.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		b.publishLoop(ctx)
	}()

	b.logger.Infof("bridge %s: capacity=%d increment=%d period=%s scale=%s cost=%s missed_ticks=%s",
		b.config.Name, b.config.BufferCapacity, b.config.FrameIncrement, b.config.ReplenishPeriod,
		b.config.DelayScale, b.config.CostModel, b.coord.Policy())

	err := b.gate.Serve(ctx, in)
	cancel()
	wg.Wait()
	b.publish()
	return err
}

// Snapshot returns the current pool state
func (b *Bridge) Snapshot() core.PoolSnapshot {
	return core.PoolSnapshot{
		Level:     b.pool.Level(),
		Capacity:  b.pool.Capacity(),
		State:     b.coord.State().String(),
		UpdatedAt: time.Now(),
	}
}

// Estimate prices units against the current level without consuming anything
func (b *Bridge) Estimate(units int64) core.DelayResult {
	return b.pool.Estimate(b.gate.cost, units, b.gate.scale)
}

// Config returns the validated configuration
func (b *Bridge) Config() *Config { return b.config }

// Pool returns the shared pool
func (b *Bridge) Pool() *Pool { return b.pool }

// Coordinator returns the coordinator guarding the pool
func (b *Bridge) Coordinator() *Coordinator { return b.coord }

// Gate returns the packet gate
func (b *Bridge) Gate() *Gate { return b.gate }

// Replenisher returns the replenisher
func (b *Bridge) Replenisher() *Replenisher { return b.replenisher }

// notify requests a snapshot publication without blocking the caller
func (b *Bridge) notify() {
	select {
	case b.changed <- struct{}{}:
	default:
	}
}

// publishLoop writes a snapshot to the store after every change
func (b *Bridge) publishLoop(ctx context.Context) {
	for {
		select {
		case <-b.changed:
			b.publish()
		case <-ctx.Done():
			return
		}
	}
}

func (b *Bridge) publish() {
	if b.store == nil {
		return
	}
	snapshot := b.Snapshot()
	b.store.Set(b.config.Name, &snapshot)
}

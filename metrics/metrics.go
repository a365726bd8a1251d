package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/yourusername/eprbridge/core"
)

// Metrics tracks packet and replenishment statistics
type Metrics struct {
	packets       atomic.Int64
	unitsTotal    atomic.Int64
	consumedTotal atomic.Int64
	delayTotal    atomic.Int64 // nanoseconds

	ticksApplied  atomic.Int64
	ticksDropped  atomic.Int64
	ticksDeferred atomic.Int64

	mu        sync.RWMutex
	tiers     map[core.Tier]int64
	maxDelay  time.Duration
	lastLevel int64
	levelFn   func() int64 // optional live level source
	startTime time.Time

	prom *Prometheus // optional
}

// NewMetrics creates a new metrics tracker
func NewMetrics() *Metrics {
	return &Metrics{
		tiers:     make(map[core.Tier]int64),
		startTime: time.Now(),
	}
}

// NewMetricsWithPrometheus creates a metrics tracker whose collectors are
// registered with reg
func NewMetricsWithPrometheus(reg prometheus.Registerer) *Metrics {
	m := NewMetrics()
	m.prom = NewPrometheus(reg, m.Level)
	return m
}

// ObserveLevel makes Level read the pool directly instead of reporting the
// level seen by the last recorded event, which can be stale once the pool
// is released.
func (m *Metrics) ObserveLevel(fn func() int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.levelFn = fn
}

// Level returns the current pool level
func (m *Metrics) Level() int64 {
	m.mu.RLock()
	fn, last := m.levelFn, m.lastLevel
	m.mu.RUnlock()
	if fn != nil {
		return fn()
	}
	return last
}

// RecordPacket records one priced and delayed packet
func (m *Metrics) RecordPacket(units int64, result core.DelayResult) {
	m.packets.Add(1)
	m.unitsTotal.Add(units)
	m.consumedTotal.Add(result.Consumed)
	m.delayTotal.Add(int64(result.Duration))

	m.mu.Lock()
	m.tiers[result.Tier]++
	if result.Duration > m.maxDelay {
		m.maxDelay = result.Duration
	}
	m.lastLevel = result.NewLevel
	m.mu.Unlock()

	if m.prom != nil {
		m.prom.RecordPacket(units, result)
	}
}

// RecordTick records one replenishment tick
func (m *Metrics) RecordTick(outcome core.TickOutcome, level int64) {
	switch outcome {
	case core.TickApplied:
		m.ticksApplied.Add(1)
	case core.TickDropped:
		m.ticksDropped.Add(1)
	case core.TickDeferred:
		m.ticksDeferred.Add(1)
	}

	m.mu.Lock()
	m.lastLevel = level
	m.mu.Unlock()

	if m.prom != nil {
		m.prom.RecordTick(outcome, level)
	}
}

// GetSnapshot returns a snapshot of current metrics
func (m *Metrics) GetSnapshot() *Snapshot {
	level := m.Level()

	m.mu.RLock()
	defer m.mu.RUnlock()

	tiers := make(map[string]int64, len(m.tiers))
	for tier, count := range m.tiers {
		tiers[tier.String()] = count
	}

	packets := m.packets.Load()
	var avgDelay time.Duration
	if packets > 0 {
		avgDelay = time.Duration(m.delayTotal.Load() / packets)
	}

	return &Snapshot{
		Packets:       packets,
		PacketsByTier: tiers,
		UnitsTotal:    m.unitsTotal.Load(),
		ConsumedTotal: m.consumedTotal.Load(),
		AvgDelayMs:    float64(avgDelay) / float64(time.Millisecond),
		MaxDelayMs:    float64(m.maxDelay) / float64(time.Millisecond),
		TicksApplied:  m.ticksApplied.Load(),
		TicksDropped:  m.ticksDropped.Load(),
		TicksDeferred: m.ticksDeferred.Load(),
		Level:         level,
		UptimeSeconds: int64(time.Since(m.startTime).Seconds()),
		StartTime:     m.startTime,
	}
}

// Snapshot represents a point-in-time view of metrics
type Snapshot struct {
	Packets       int64            `json:"packets"`
	PacketsByTier map[string]int64 `json:"packets_by_tier"`
	UnitsTotal    int64            `json:"units_total"`
	ConsumedTotal int64            `json:"consumed_total"`
	AvgDelayMs    float64          `json:"avg_delay_ms"`
	MaxDelayMs    float64          `json:"max_delay_ms"`
	TicksApplied  int64            `json:"ticks_applied"`
	TicksDropped  int64            `json:"ticks_dropped"`
	TicksDeferred int64            `json:"ticks_deferred"`
	Level         int64            `json:"level"`
	UptimeSeconds int64            `json:"uptime_seconds"`
	StartTime     time.Time        `json:"start_time"`
}

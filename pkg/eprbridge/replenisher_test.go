package eprbridge

import (
	"sync"
	"testing"
	"time"

	"github.com/yourusername/eprbridge/core"
)

// tickRecorder counts tick outcomes
type tickRecorder struct {
	mu    sync.Mutex
	ticks map[core.TickOutcome]int
	units int64
}

func newTickRecorder() *tickRecorder {
	return &tickRecorder{ticks: make(map[core.TickOutcome]int)}
}

func (r *tickRecorder) RecordPacket(units int64, result core.DelayResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.units += units
}

func (r *tickRecorder) RecordTick(outcome core.TickOutcome, level int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks[outcome]++
}

func (r *tickRecorder) Count(outcome core.TickOutcome) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ticks[outcome]
}

func TestReplenisher_TickCapsAtCapacity(t *testing.T) {
	config := NewConfig()
	config.FrameIncrement = 40
	config.BufferCapacity = 100

	rec := newTickRecorder()
	b := newTestBridge(t, SleepFull, WithConfig(config), WithRecorder(rec))

	want := []int64{40, 80, 100, 100}
	for i, level := range want {
		if got := b.Replenisher().Tick(); got != core.TickApplied {
			t.Fatalf("tick %d = %s, want applied", i, got)
		}
		if b.Pool().Level() != level {
			t.Errorf("tick %d: Level() = %d, want %d", i, b.Pool().Level(), level)
		}
	}
	if rec.Count(core.TickApplied) != len(want) {
		t.Errorf("recorded %d applied ticks, want %d", rec.Count(core.TickApplied), len(want))
	}
}

func TestReplenisher_ZeroIncrement(t *testing.T) {
	config := NewConfig()
	config.FrameIncrement = 0
	b := newTestBridge(t, SleepFull, WithConfig(config))

	b.Replenisher().Tick()
	if b.Pool().Level() != 0 {
		t.Errorf("Level() = %d, want 0", b.Pool().Level())
	}
}

func TestReplenisher_StartStop(t *testing.T) {
	config := NewConfig()
	config.ReplenishPeriod = 5 * time.Millisecond
	config.FrameIncrement = 1

	rec := newTickRecorder()
	b := newTestBridge(t, SleepFull, WithConfig(config), WithRecorder(rec))

	stop := b.Replenisher().Start()
	deadline := time.Now().Add(5 * time.Second)
	for rec.Count(core.TickApplied) < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	stop()

	ticks := rec.Count(core.TickApplied)
	if ticks < 3 {
		t.Fatalf("applied %d ticks, want at least 3", ticks)
	}

	// no tick after stop returns
	time.Sleep(20 * time.Millisecond)
	if got := rec.Count(core.TickApplied); got != ticks {
		t.Errorf("ticks after stop = %d, want %d", got, ticks)
	}
	if b.Pool().Level() != int64(ticks) {
		t.Errorf("Level() = %d, want %d", b.Pool().Level(), ticks)
	}
}

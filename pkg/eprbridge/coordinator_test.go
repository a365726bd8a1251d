package eprbridge

import (
	"errors"
	"sync"
	"testing"

	"github.com/yourusername/eprbridge/core"
)

func TestParseTickPolicy(t *testing.T) {
	tests := []struct {
		name    string
		want    TickPolicy
		wantErr bool
	}{
		{"drop", DropMissedTicks, false},
		{"", DropMissedTicks, false},
		{"queue", QueueMissedTicks, false},
		{"later", DropMissedTicks, true},
	}

	for _, tt := range tests {
		got, err := ParseTickPolicy(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTickPolicy(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrUnknownTickPolicy) {
			t.Errorf("ParseTickPolicy(%q) error = %v, want ErrUnknownTickPolicy", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("ParseTickPolicy(%q) = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestCoordinator_TryReplenishWhenIdle(t *testing.T) {
	pool, _ := NewPool(100)
	coord := NewCoordinator(pool, DropMissedTicks)

	if got := coord.TryReplenish(30); got != core.TickApplied {
		t.Errorf("TryReplenish() = %s, want applied", got)
	}
	if pool.Level() != 30 {
		t.Errorf("Level() = %d, want 30", pool.Level())
	}
	if coord.State() != StateIdle {
		t.Errorf("State() = %s, want idle", coord.State())
	}
}

// runWhileConsuming calls fn from inside a consumption window
func runWhileConsuming(coord *Coordinator, fn func()) {
	coord.Consume(func() {
		done := make(chan struct{})
		go func() {
			defer close(done)
			fn()
		}()
		<-done
	})
}

func TestCoordinator_DropsTickWhileConsuming(t *testing.T) {
	pool, _ := NewPool(100)
	coord := NewCoordinator(pool, DropMissedTicks)

	var outcome core.TickOutcome
	var state State
	runWhileConsuming(coord, func() {
		state = coord.State()
		outcome = coord.TryReplenish(30)
	})

	if state != StateConsuming {
		t.Errorf("State() during Consume = %s, want consuming", state)
	}
	if outcome != core.TickDropped {
		t.Errorf("TryReplenish() = %s, want dropped", outcome)
	}
	if pool.Level() != 0 {
		t.Errorf("Level() = %d, want 0 (tick lost)", pool.Level())
	}
	if coord.State() != StateIdle {
		t.Errorf("State() after Consume = %s, want idle", coord.State())
	}
}

func TestCoordinator_QueuesTickWhileConsuming(t *testing.T) {
	pool, _ := NewPool(100)
	coord := NewCoordinator(pool, QueueMissedTicks)

	var outcome core.TickOutcome
	var levelDuring int64
	runWhileConsuming(coord, func() {
		outcome = coord.TryReplenish(30)
		coord.TryReplenish(30)
		levelDuring = pool.Level()
	})

	if outcome != core.TickDeferred {
		t.Errorf("TryReplenish() = %s, want deferred", outcome)
	}
	if levelDuring != 0 {
		t.Errorf("level during Consume = %d, want 0", levelDuring)
	}
	if pool.Level() != 60 {
		t.Errorf("Level() after release = %d, want 60", pool.Level())
	}
	if coord.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", coord.Pending())
	}
}

func TestCoordinator_ReleasesOnPanic(t *testing.T) {
	pool, _ := NewPool(100)
	coord := NewCoordinator(pool, DropMissedTicks)

	func() {
		defer func() { recover() }()
		coord.Consume(func() { panic("boom") })
	}()

	if coord.State() != StateIdle {
		t.Errorf("State() = %s, want idle", coord.State())
	}
	if got := coord.TryReplenish(10); got != core.TickApplied {
		t.Errorf("TryReplenish() after panic = %s, want applied", got)
	}
}

func TestCoordinator_ConsumptionsAreExclusive(t *testing.T) {
	pool, _ := NewPool(100)
	coord := NewCoordinator(pool, QueueMissedTicks)

	var (
		mu       sync.Mutex
		inside   int
		overlaps int
		wg       sync.WaitGroup
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				coord.Consume(func() {
					mu.Lock()
					inside++
					if inside > 1 {
						overlaps++
					}
					mu.Unlock()

					coord.TryReplenish(1)

					mu.Lock()
					inside--
					mu.Unlock()
				})
			}
		}()
	}
	wg.Wait()

	if overlaps != 0 {
		t.Errorf("observed %d overlapping consumptions", overlaps)
	}
	// every deferred unit ends up in the pool
	if pool.Level()+coord.Pending() != 100 {
		t.Errorf("level %d + pending %d, want 100", pool.Level(), coord.Pending())
	}
}

func TestState_String(t *testing.T) {
	if StateIdle.String() != "idle" || StateConsuming.String() != "consuming" {
		t.Error("unexpected state names")
	}
	if DropMissedTicks.String() != "drop" || QueueMissedTicks.String() != "queue" {
		t.Error("unexpected policy names")
	}
}

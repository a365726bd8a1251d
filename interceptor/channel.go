package interceptor

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Decision is a verdict recorded by a Channel interceptor
type Decision struct {
	ID      uint32
	Verdict Verdict
	At      time.Time
}

// Channel is an in-memory Interceptor. Packets are injected by the caller and
// verdicts are recorded in order. It is used by tests and by the simulation
// example, where no kernel queue is available.
type Channel struct {
	packets chan Packet
	done    chan struct{}
	once    sync.Once
	nextID  atomic.Uint32

	mu        sync.Mutex
	decisions []Decision
	changed   chan struct{} // closed and replaced on every new decision
}

// Ensure Channel implements Interceptor
var _ Interceptor = (*Channel)(nil)

// NewChannel creates a Channel holding at most depth undelivered packets
func NewChannel(depth int) *Channel {
	if depth < 1 {
		depth = 1
	}
	return &Channel{
		packets: make(chan Packet, depth),
		done:    make(chan struct{}),
		changed: make(chan struct{}),
	}
}

// Inject enqueues a packet and returns its ID. It blocks while the queue is
// full and fails with ErrClosed once the interceptor is closed.
func (c *Channel) Inject(ctx context.Context, headerSize, payloadSize int) (uint32, error) {
	pkt := Packet{
		ID:          c.nextID.Add(1),
		HeaderSize:  headerSize,
		PayloadSize: payloadSize,
	}
	select {
	case c.packets <- pkt:
		return pkt.ID, nil
	case <-c.done:
		return 0, ErrClosed
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// ReceivePacket implements Interceptor
func (c *Channel) ReceivePacket(ctx context.Context) (Packet, error) {
	select {
	case pkt := <-c.packets:
		return pkt, nil
	case <-c.done:
		return Packet{}, ErrClosed
	case <-ctx.Done():
		return Packet{}, ctx.Err()
	}
}

// SetVerdict implements Interceptor
func (c *Channel) SetVerdict(id uint32, verdict Verdict) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.decisions = append(c.decisions, Decision{ID: id, Verdict: verdict, At: time.Now()})
	close(c.changed)
	c.changed = make(chan struct{})
	return nil
}

// Decisions returns a copy of the verdicts recorded so far
func (c *Channel) Decisions() []Decision {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Decision, len(c.decisions))
	copy(out, c.decisions)
	return out
}

// WaitDecisions blocks until at least n verdicts have been recorded
func (c *Channel) WaitDecisions(ctx context.Context, n int) ([]Decision, error) {
	for {
		c.mu.Lock()
		if len(c.decisions) >= n {
			out := make([]Decision, len(c.decisions))
			copy(out, c.decisions)
			c.mu.Unlock()
			return out, nil
		}
		changed := c.changed
		c.mu.Unlock()

		select {
		case <-changed:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Close implements Interceptor
func (c *Channel) Close() error {
	c.once.Do(func() { close(c.done) })
	return nil
}

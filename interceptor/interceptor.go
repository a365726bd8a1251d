// Package interceptor connects the delay engine to a source of packets
// awaiting a verdict.
package interceptor

import (
	"context"
	"errors"
)

var (
	// ErrClosed is returned by an interceptor after Close
	ErrClosed = errors.New("interceptor closed")

	// ErrOpen is returned when the kernel queue cannot be opened or bound
	ErrOpen = errors.New("cannot open netfilter queue")

	// ErrUnsupported is returned on platforms without netfilter
	ErrUnsupported = errors.New("netfilter queue is only supported on linux")
)

// Verdict is the decision returned for an intercepted packet.
// The numeric values match NF_DROP and NF_ACCEPT.
type Verdict int

const (
	Drop Verdict = iota
	Accept
)

// String returns "accept" or "drop"
func (v Verdict) String() string {
	if v == Accept {
		return "accept"
	}
	return "drop"
}

// Packet describes an intercepted packet
type Packet struct {
	ID          uint32 // Queue-assigned identifier used for the verdict
	HeaderSize  int    // Network header length in bytes
	PayloadSize int    // Bytes after the network header
}

// Size returns the total packet length
func (p Packet) Size() int {
	return p.HeaderSize + p.PayloadSize
}

// Interceptor produces packets one at a time and accepts verdicts for them.
type Interceptor interface {
	// ReceivePacket blocks until a packet is available, the context is done,
	// or the interceptor is closed (ErrClosed).
	ReceivePacket(ctx context.Context) (Packet, error)

	// SetVerdict returns the decision for the packet with the given ID.
	SetVerdict(id uint32, verdict Verdict) error

	// Close releases the interceptor. Pending ReceivePacket calls return ErrClosed.
	Close() error
}

//go:build !linux

package interceptor

import "context"

// NFQueue is unavailable outside linux
type NFQueue struct{}

// OpenNFQueue always fails with ErrUnsupported
func OpenNFQueue(config NFQueueConfig) (*NFQueue, error) {
	return nil, ErrUnsupported
}

// ReceivePacket implements Interceptor
func (q *NFQueue) ReceivePacket(ctx context.Context) (Packet, error) {
	return Packet{}, ErrUnsupported
}

// SetVerdict implements Interceptor
func (q *NFQueue) SetVerdict(id uint32, verdict Verdict) error {
	return ErrUnsupported
}

// Close implements Interceptor
func (q *NFQueue) Close() error {
	return nil
}

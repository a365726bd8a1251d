//go:build linux

package interceptor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/florianl/go-nfqueue"
)

// NFQueue is an Interceptor bound to a netfilter queue. Packets are copied to
// userspace, sized with ParsePacket and held by the kernel until SetVerdict.
type NFQueue struct {
	nf      *nfqueue.Nfqueue
	packets chan Packet
	done    chan struct{}
	cancel  context.CancelFunc
	once    sync.Once
}

// Ensure NFQueue implements Interceptor
var _ Interceptor = (*NFQueue)(nil)

// OpenNFQueue binds to the configured queue. Requires CAP_NET_ADMIN.
func OpenNFQueue(config NFQueueConfig) (*NFQueue, error) {
	maxPacketLen := config.MaxPacketLen
	if maxPacketLen == 0 {
		maxPacketLen = 0xffff
	}
	depth := config.QueueDepth
	if depth == 0 {
		depth = 1
	}

	nf, err := nfqueue.Open(&nfqueue.Config{
		NfQueue:      config.QueueNum,
		MaxPacketLen: maxPacketLen,
		MaxQueueLen:  depth,
		Copymode:     nfqueue.NfQnlCopyPacket,
		WriteTimeout: 15 * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("%w %d: %v", ErrOpen, config.QueueNum, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	q := &NFQueue{
		nf:      nf,
		packets: make(chan Packet, depth),
		done:    make(chan struct{}),
		cancel:  cancel,
	}

	hook := func(a nfqueue.Attribute) int {
		if a.PacketID == nil {
			return 0
		}
		var payload []byte
		if a.Payload != nil {
			payload = *a.Payload
		}
		select {
		case q.packets <- ParsePacket(*a.PacketID, payload):
		case <-ctx.Done():
		}
		return 0
	}
	onError := func(e error) int {
		log.Warnf("nfqueue %d: %s", config.QueueNum, e.Error())
		return 0
	}

	if err := nf.RegisterWithErrorFunc(ctx, hook, onError); err != nil {
		cancel()
		nf.Close()
		return nil, fmt.Errorf("%w %d: register: %v", ErrOpen, config.QueueNum, err)
	}
	return q, nil
}

// ReceivePacket implements Interceptor
func (q *NFQueue) ReceivePacket(ctx context.Context) (Packet, error) {
	select {
	case pkt := <-q.packets:
		return pkt, nil
	case <-q.done:
		return Packet{}, ErrClosed
	case <-ctx.Done():
		return Packet{}, ctx.Err()
	}
}

// SetVerdict implements Interceptor
func (q *NFQueue) SetVerdict(id uint32, verdict Verdict) error {
	select {
	case <-q.done:
		return ErrClosed
	default:
	}
	nfVerdict := nfqueue.NfDrop
	if verdict == Accept {
		nfVerdict = nfqueue.NfAccept
	}
	return q.nf.SetVerdict(id, nfVerdict)
}

// Close implements Interceptor
func (q *NFQueue) Close() error {
	var err error
	q.once.Do(func() {
		close(q.done)
		q.cancel()
		err = q.nf.Close()
	})
	return err
}

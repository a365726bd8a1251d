package eprbridge

import (
	"context"
	"errors"
	"time"

	"github.com/yourusername/eprbridge/core"
	"github.com/yourusername/eprbridge/interceptor"
)

// Gate is the packet-consuming actor. It prices each packet against the pool,
// delays it, and always accepts it.
type Gate struct {
	coord    *Coordinator
	pool     *Pool
	cost     core.CostFunc
	scale    time.Duration
	overhead int64
	sleep    Sleeper
	logger   Logger
	recorder Recorder
	onChange func()
}

// Units returns the resource units requested by pkt
func (g *Gate) Units(pkt interceptor.Packet) int64 {
	return int64(pkt.HeaderSize) + int64(pkt.PayloadSize) + g.overhead
}

// Handle prices and delays one packet and returns the verdict to give it.
// Replenishment is suppressed from before the debit until the delay has
// fully elapsed.
func (g *Gate) Handle(pkt interceptor.Packet) (core.DelayResult, interceptor.Verdict) {
	units := g.Units(pkt)

	var result core.DelayResult
	g.coord.Consume(func() {
		result = g.pool.Consume(g.cost, units, g.scale)
		g.sleep(result.Duration)
		// no tick can land between the debit and the record
		g.recorder.RecordPacket(units, result)
	})

	g.logger.Debugf("packet %d: units=%d tier=%s delay=%s consumed=%d level=%d",
		pkt.ID, units, result.Tier, result.Duration, result.Consumed, result.NewLevel)
	g.onChange()

	return result, interceptor.Accept
}

// Serve handles packets from in until ctx is done or in is closed. Failing to
// deliver a verdict is logged and does not stop the loop.
func (g *Gate) Serve(ctx context.Context, in interceptor.Interceptor) error {
	for {
		pkt, err := in.ReceivePacket(ctx)
		if err != nil {
			if errors.Is(err, interceptor.ErrClosed) || ctx.Err() != nil {
				return nil
			}
			return err
		}

		_, verdict := g.Handle(pkt)
		if err := in.SetVerdict(pkt.ID, verdict); err != nil {
			g.logger.Warnf("packet %d: cannot set verdict %s: %s", pkt.ID, verdict, err.Error())
		}
	}
}

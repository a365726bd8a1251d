// Package eprbridge delays intercepted packets by the cost of drawing on a
// slowly replenished resource pool, the EPR buffer of a quantum-classical
// network bridge.
//
// A Bridge owns three pieces:
//   - a Pool, a bounded integer accumulator that starts empty
//   - a Gate, which prices each packet against the pool and blocks for the
//     resulting delay before accepting it
//   - a Replenisher, which adds a fixed increment to the pool every period
//
// # Quick Start
//
//	bridge, err := eprbridge.NewBridge(
//	    eprbridge.WithDefaults(10000, 250000, 500*time.Millisecond, time.Microsecond),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	queue, err := interceptor.OpenNFQueue(interceptor.NFQueueConfig{QueueNum: 0})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer queue.Close()
//
//	err = bridge.Run(ctx, queue)
//
// # Pricing
//
// A packet asks for header + payload + overhead units. With the default
// tiered model and the pool at level L:
//   - units < 2L: delay is units*4 and the pool loses units/2
//   - L == 0: delay is units*8
//   - otherwise: delay is L*4 + (units-2L)*8 and the pool empties
//
// The delay in units is multiplied by DelayScale. The "legacy" model prices
// units < L at the cheap rate and debits the full request.
//
// # Concurrency
//
// The gate holds the Coordinator for the whole delay, not just the debit. A
// replenishment tick that arrives meanwhile never waits: it is dropped
// (missed_ticks: drop) or added to the pool when the delay ends
// (missed_ticks: queue).
//
// # Configuration
//
// Example YAML configuration:
//
//	name: bridge0
//	frame_increment: 10000
//	buffer_capacity: 250000
//	replenish_period: 500ms
//	delay_scale: 1us
//	queue_num: 0
//	queue_depth: 1024
//	unit_overhead: 0
//	cost_model: tiered
//	missed_ticks: drop
package eprbridge

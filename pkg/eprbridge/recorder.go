package eprbridge

import "github.com/yourusername/eprbridge/core"

// Recorder receives the outcome of every packet and tick
type Recorder interface {
	RecordPacket(units int64, result core.DelayResult)
	RecordTick(outcome core.TickOutcome, level int64)
}

type nopRecorder struct{}

func (nopRecorder) RecordPacket(units int64, result core.DelayResult) {}

func (nopRecorder) RecordTick(outcome core.TickOutcome, level int64) {}

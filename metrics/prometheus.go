package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/yourusername/eprbridge/core"
)

// summaryObjectives returns the quantiles tracked by delay summaries
func summaryObjectives() map[float64]float64 {
	return map[float64]float64{
		0.5:  0.010,
		0.9:  0.010,
		0.99: 0.001,
	}
}

// Prometheus exports bridge metrics to a Prometheus registry
type Prometheus struct {
	packets      *prometheus.CounterVec
	units        prometheus.Counter
	delaySeconds prometheus.Summary
	ticks        *prometheus.CounterVec
}

// NewPrometheus registers the bridge collectors with reg. The pool level
// gauge calls level at scrape time.
func NewPrometheus(reg prometheus.Registerer, level func() int64) *Prometheus {
	factory := promauto.With(reg)
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "eprbridge_pool_level",
		Help: "Units currently stored in the pool",
	}, func() float64 { return float64(level()) })

	return &Prometheus{
		packets: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eprbridge_packets_count",
			Help: "Total number of delayed packets by pricing tier",
		}, []string{"tier"}),

		units: factory.NewCounter(prometheus.CounterOpts{
			Name: "eprbridge_units_count",
			Help: "Total resource units requested by packets",
		}),

		delaySeconds: factory.NewSummary(prometheus.SummaryOpts{
			Name:       "eprbridge_delay_seconds",
			Help:       "Summarizes the delay imposed on each packet (in seconds)",
			Objectives: summaryObjectives(),
		}),

		ticks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eprbridge_ticks_count",
			Help: "Total number of replenishment ticks by outcome",
		}, []string{"outcome"}),
	}
}

// RecordPacket records one priced and delayed packet
func (p *Prometheus) RecordPacket(units int64, result core.DelayResult) {
	p.packets.WithLabelValues(result.Tier.String()).Inc()
	p.units.Add(float64(units))
	p.delaySeconds.Observe(result.Duration.Seconds())
}

// RecordTick records one replenishment tick
func (p *Prometheus) RecordTick(outcome core.TickOutcome, level int64) {
	p.ticks.WithLabelValues(outcome.String()).Inc()
}

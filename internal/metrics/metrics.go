// Package metrics holds the Prometheus collectors for ingestion and analytics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "power_monitoring"

// Tick results.
const (
	ResultWritten = "written"
	ResultSkipped = "skipped"
	ResultFailed  = "failed"
)

type Metrics struct {
	Ticks           *prometheus.CounterVec
	TickDuration    prometheus.Histogram
	LastSampleWatts prometheus.Gauge
	QueryFailures   *prometheus.CounterVec
}

// New creates the collectors and registers them on reg. A nil reg leaves them
// unregistered, which tests rely on.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Ticks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ingest_ticks_total",
				Help:      "Ingestion ticks by result.",
			},
			[]string{"result"},
		),
		TickDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "ingest_tick_duration_seconds",
				Help:      "Duration of one fetch-and-persist ingestion tick.",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
		),
		LastSampleWatts: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_sample_power_watts",
				Help:      "Power value of the most recently persisted sample.",
			},
		),
		QueryFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "analytics_query_failures_total",
				Help:      "Analytics queries that failed, by query.",
			},
			[]string{"query"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Ticks, m.TickDuration, m.LastSampleWatts, m.QueryFailures)
	}
	return m
}

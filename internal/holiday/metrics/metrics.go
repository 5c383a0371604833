// Package metrics provides Prometheus metrics for the holiday cache, the
// upstream source and the announcement runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache lookup results.
const (
	CacheHit     = "hit"
	CacheMiss    = "miss"
	CacheInvalid = "invalid"
)

// Metrics contains all holiday pipeline metrics.
type Metrics struct {
	// Cache validity checks by backend and result (hit, miss, invalid)
	CacheLookupsTotal *prometheus.CounterVec

	// Cache writes by backend and result (ok, error)
	CacheWritesTotal *prometheus.CounterVec

	// Source fetches by outcome (ok, empty, or the provider error category)
	SourceFetchesTotal *prometheus.CounterVec

	// Source fetch latency
	SourceFetchDurationSeconds prometheus.Histogram

	// Announcer runs by outcome
	RunsTotal *prometheus.CounterVec

	// Days left until the selected holiday in the last run
	DaysUntilHoliday prometheus.Gauge
}

// New creates a Metrics instance registered on the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates a Metrics instance registered on reg. Tests pass a
// fresh prometheus.NewRegistry() to avoid duplicate registration panics.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CacheLookupsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "feriadobot_cache_lookups_total",
			Help: "Total number of holiday cache validity checks by backend and result",
		}, []string{"backend", "result"}),

		CacheWritesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "feriadobot_cache_writes_total",
			Help: "Total number of holiday cache writes by backend and result",
		}, []string{"backend", "result"}),

		SourceFetchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "feriadobot_source_fetches_total",
			Help: "Total number of holiday source fetches by outcome",
		}, []string{"outcome"}),

		SourceFetchDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "feriadobot_source_fetch_duration_seconds",
			Help:    "Duration of holiday source fetches",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),

		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "feriadobot_runs_total",
			Help: "Total number of announcement runs by outcome",
		}, []string{"outcome"}),

		DaysUntilHoliday: factory.NewGauge(prometheus.GaugeOpts{
			Name: "feriadobot_days_until_holiday",
			Help: "Whole days left until the next holiday at the time of the last run",
		}),
	}
}

// RecordCacheLookup records the result of a cache validity check.
func (m *Metrics) RecordCacheLookup(backend, result string) {
	m.CacheLookupsTotal.WithLabelValues(backend, result).Inc()
}

// RecordCacheWrite records a cache write.
func (m *Metrics) RecordCacheWrite(backend string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.CacheWritesTotal.WithLabelValues(backend, result).Inc()
}

// RecordFetch records a source fetch outcome and its duration.
func (m *Metrics) RecordFetch(outcome string, durationSeconds float64) {
	m.SourceFetchesTotal.WithLabelValues(outcome).Inc()
	m.SourceFetchDurationSeconds.Observe(durationSeconds)
}

// RecordRun records the outcome of an announcement run.
func (m *Metrics) RecordRun(outcome string) {
	m.RunsTotal.WithLabelValues(outcome).Inc()
}

// SetDaysUntilHoliday updates the countdown gauge.
func (m *Metrics) SetDaysUntilHoliday(days int) {
	m.DaysUntilHoliday.Set(float64(days))
}

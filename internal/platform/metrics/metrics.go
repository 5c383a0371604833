// Package metrics pushes the metrics of a finished run to a Prometheus
// Pushgateway. The bot is a batch job, so nothing is ever scraped.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// DefaultJob is the Pushgateway job label.
const DefaultJob = "feriadobot"

// Batch holds the per-run gauges a Pushgateway consumer alerts on.
type Batch struct {
	LastRunTimestamp     prometheus.Gauge
	LastSuccessTimestamp prometheus.Gauge
	RunDurationSeconds   prometheus.Gauge
	BuildInfo            *prometheus.GaugeVec
}

// NewBatch registers the batch gauges on reg.
func NewBatch(reg prometheus.Registerer) *Batch {
	factory := promauto.With(reg)
	return &Batch{
		LastRunTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "feriadobot_last_run_timestamp_seconds",
			Help: "Unix time the last run finished",
		}),
		LastSuccessTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "feriadobot_last_success_timestamp_seconds",
			Help: "Unix time the last run finished without a publish failure",
		}),
		RunDurationSeconds: factory.NewGauge(prometheus.GaugeOpts{
			Name: "feriadobot_run_duration_seconds",
			Help: "Wall time of the last run",
		}),
		BuildInfo: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "feriadobot_build_info",
			Help: "Build version of the binary that pushed",
		}, []string{"version"}),
	}
}

// Finish records the end of a run that started at start.
func (b *Batch) Finish(start, end time.Time, ok bool) {
	b.LastRunTimestamp.Set(float64(end.Unix()))
	b.RunDurationSeconds.Set(end.Sub(start).Seconds())
	if ok {
		b.LastSuccessTimestamp.Set(float64(end.Unix()))
	}
}

// Push sends everything gathered by g to the Pushgateway at url, replacing the
// previous push of the same job and instance.
func Push(ctx context.Context, url, job, instance string, g prometheus.Gatherer) error {
	if job == "" {
		job = DefaultJob
	}
	pusher := push.New(url, job).Gatherer(g)
	if instance != "" {
		pusher = pusher.Grouping("instance", instance)
	}
	if err := pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}

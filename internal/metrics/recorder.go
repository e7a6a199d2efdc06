// Package metrics exposes Prometheus instrumentation for measure requests.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ignite/measure-agent/internal/domain"
)

const namespace = "dmaic_measure"

// Request outcomes.
const (
	OutcomeOK            = "ok"
	OutcomeInvalid       = "invalid"
	OutcomeNotFound      = "not_found"
	OutcomeMisconfigured = "misconfigured"
	OutcomeError         = "error"
)

// Recorder records measure request metrics. A nil *Recorder is a no-op.
type Recorder struct {
	requests     *prometheus.CounterVec
	evaluations  *prometheus.CounterVec
	score        prometheus.Histogram
	stepDuration *prometheus.HistogramVec
}

// NewRecorder registers the collectors on reg. A nil reg falls back to the
// default registerer.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Recorder{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Measure requests by outcome.",
		}, []string{"outcome"}),
		evaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "metric_evaluations_total",
			Help:      "Metric evaluations by metric and status.",
		}, []string{"metric", "status"}),
		score: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "performance_score",
			Help:      "Distribution of performance scores.",
			Buckets:   []float64{0, 20, 40, 60, 80, 90, 95, 100},
		}),
		stepDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "step_duration_seconds",
			Help:      "Latency of each collaborator call.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"step"}),
	}
}

// Request counts one finished request.
func (r *Recorder) Request(outcome string) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(outcome).Inc()
}

// Evaluation counts one evaluated metric.
func (r *Recorder) Evaluation(metric string, status domain.MetricStatus) {
	if r == nil {
		return
	}
	r.evaluations.WithLabelValues(metricLabel(metric), string(status)).Inc()
}

// metricLabel bounds the label set; request metric names are free text.
func metricLabel(metric string) string {
	switch metric {
	case domain.MetricCost, domain.MetricRevenue, domain.MetricROAS:
		return metric
	}
	return "other"
}

// Score observes a performance score.
func (r *Recorder) Score(score int) {
	if r == nil {
		return
	}
	r.score.Observe(float64(score))
}

// Step observes how long a named step took since start.
func (r *Recorder) Step(step string, start time.Time) {
	if r == nil {
		return
	}
	r.stepDuration.WithLabelValues(step).Observe(time.Since(start).Seconds())
}

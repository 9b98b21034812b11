package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/goliatone/go-formstage/pkg/model"
	"github.com/goliatone/go-formstage/pkg/orchestrator"
)

const namespace = "formstage"

// Metrics holds the Prometheus collectors of the form engine. It satisfies
// orchestrator.Metrics.
type Metrics struct {
	Validations *prometheus.CounterVec
	Stages      *prometheus.CounterVec
	Actions     *prometheus.CounterVec
	Duration    *prometheus.HistogramVec
}

var _ orchestrator.Metrics = (*Metrics)(nil)

// NewMetrics creates the collectors and registers them on reg. A nil reg
// uses the default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		Validations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validations_total",
			Help:      "Field group validations by kind and outcome.",
		}, []string{"kind", "outcome"}),
		Stages: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_events_total",
			Help:      "Stage controller events (show, advance, back, blocked, repeat).",
		}, []string{"event", "stage"}),
		Actions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Processed form requests by action and outcome.",
		}, []string{"action", "outcome"}),
		Duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Time spent rebuilding a form document.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"action"}),
	}
}

// ObserveValidation counts one group validation.
func (m *Metrics) ObserveValidation(kind model.Kind, ok bool) {
	outcome := "fail"
	if ok {
		outcome = "pass"
	}
	m.Validations.WithLabelValues(string(kind), outcome).Inc()
}

// ObserveStage counts one stage event.
func (m *Metrics) ObserveStage(event string, stage int) {
	m.Stages.WithLabelValues(event, strconv.Itoa(stage)).Inc()
}

// ObserveAction counts a processed request and records its latency.
func (m *Metrics) ObserveAction(action, outcome string, elapsed time.Duration) {
	m.Actions.WithLabelValues(action, outcome).Inc()
	m.Duration.WithLabelValues(action).Observe(elapsed.Seconds())
}

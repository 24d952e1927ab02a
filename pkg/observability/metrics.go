package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/daisyflow/daisy/pkg/domain"
	"github.com/daisyflow/daisy/pkg/ports"
)

// Metrics is an event sink recording Prometheus metrics for node
// executions and edge activity.
type Metrics struct {
	executions *prometheus.CounterVec
	failures   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	active     prometheus.Gauge
}

// NewMetrics creates the sink and registers its collectors on reg. Pass
// prometheus.DefaultRegisterer for the process-global registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		executions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "daisy_node_executions_total",
				Help: "Total number of node executions",
			},
			[]string{"kind"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "daisy_node_failures_total",
				Help: "Total number of failed node executions",
			},
			[]string{"kind", "category"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "daisy_node_duration_seconds",
				Help: "Duration of node executions",
			},
			[]string{"kind"},
		),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "daisy_active_edges",
			Help: "Number of edges currently rendered as carrying data",
		}),
	}
	reg.MustRegister(m.executions, m.failures, m.duration, m.active)
	return m
}

// Publish implements ports.EventSink.
func (m *Metrics) Publish(_ context.Context, ev domain.Event) {
	switch ev.Type {
	case domain.EventExecutionFinished:
		kind := string(ev.NodeKind)
		m.executions.WithLabelValues(kind).Inc()
		m.duration.WithLabelValues(kind).Observe(ev.Duration.Seconds())
		if ev.Err != nil {
			m.failures.WithLabelValues(kind, string(ev.ErrKind)).Inc()
		}
	case domain.EventEdgesActivated:
		m.active.Add(float64(len(ev.EdgeIDs)))
	case domain.EventEdgesDeactivated:
		m.active.Sub(float64(len(ev.EdgeIDs)))
	}
}

var _ ports.EventSink = (*Metrics)(nil)

package observability

import (
	"context"

	"github.com/ian-griptape-ai/node-development/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for reconciliation passes.
type Metrics struct {
	passes       *prometheus.CounterVec
	slotsCreated *prometheus.CounterVec
	slotsDeleted *prometheus.CounterVec
	passDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers the collectors with reg.
// Pass prometheus.DefaultRegisterer for the global registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		passes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nodedev_reconcile_passes_total",
				Help: "Total number of reconciliation passes",
			},
			[]string{"node", "result"},
		),
		slotsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nodedev_slots_created_total",
				Help: "Total number of managed slots created",
			},
			[]string{"node"},
		),
		slotsDeleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nodedev_slots_deleted_total",
				Help: "Total number of managed slots deleted",
			},
			[]string{"node"},
		),
		passDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "nodedev_reconcile_duration_seconds",
				Help: "Duration of reconciliation passes",
			},
			[]string{"node"},
		),
	}
}

// Hooks returns lifecycle hooks that record pass metrics.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPassEnd: func(_ context.Context, ev *domain.PassResultEvent) {
			result := "success"
			if ev.Err != nil {
				result = "error"
			}
			m.passes.WithLabelValues(ev.Node, result).Inc()
			m.slotsCreated.WithLabelValues(ev.Node).Add(float64(ev.Created))
			m.slotsDeleted.WithLabelValues(ev.Node).Add(float64(ev.Deleted))
			m.passDuration.WithLabelValues(ev.Node).Observe(ev.Duration.Seconds())
		},
	}
}

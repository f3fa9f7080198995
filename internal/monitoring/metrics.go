// Package monitoring exposes the console's operational metrics. They are
// served by the promhttp handler on the metrics port.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"

	"orderboard/internal/store"
)

// Metrics collects the console's Prometheus instruments.
type Metrics struct {
	RealtimeEvents    *prometheus.CounterVec
	Reconnects        prometheus.Counter
	Refetches         *prometheus.CounterVec
	MutationFailures  *prometheus.CounterVec
	UnseenOrdersBadge prometheus.Gauge
}

// NewMetrics builds and registers the instruments on the given registerer;
// pass prometheus.DefaultRegisterer for the standard setup.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RealtimeEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orderboard_realtime_events_total",
			Help: "Hub events received, by event kind.",
		}, []string{"kind"}),
		Reconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orderboard_realtime_reconnects_total",
			Help: "Successful hub connections, including the first.",
		}),
		Refetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orderboard_refetches_total",
			Help: "Full collection refetches, by collection.",
		}, []string{"collection"}),
		MutationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orderboard_mutation_failures_total",
			Help: "Failed platform mutations, by operation.",
		}, []string{"op"}),
		UnseenOrdersBadge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orderboard_unseen_orders",
			Help: "Current value of the unseen-orders badge.",
		}),
	}
	reg.MustRegister(m.RealtimeEvents, m.Reconnects, m.Refetches, m.MutationFailures, m.UnseenOrdersBadge)
	return m
}

// ObserveChange records a store change event. Wired to Store.OnChange so the
// store itself stays metrics-free.
func (m *Metrics) ObserveChange(kind string, _ interface{}) {
	switch kind {
	case store.ChangeNewOrder, store.ChangeOrderStatusUpdated, store.ChangeCashPayment:
		m.RealtimeEvents.WithLabelValues(kind).Inc()
	case store.ChangeOrdersRefreshed:
		m.Refetches.WithLabelValues("orders").Inc()
	case store.ChangeSessionsRefreshed:
		m.Refetches.WithLabelValues("sessions").Inc()
	}
}

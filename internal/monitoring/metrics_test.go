package monitoring

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"orderboard/internal/store"
)

func TestObserveChangeCountsStoreKinds(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	// Every kind the store publishes must land in a counter.
	m.ObserveChange(store.ChangeNewOrder, nil)
	m.ObserveChange(store.ChangeNewOrder, nil)
	m.ObserveChange(store.ChangeOrderStatusUpdated, nil)
	m.ObserveChange(store.ChangeCashPayment, nil)
	m.ObserveChange(store.ChangeOrdersRefreshed, nil)
	m.ObserveChange(store.ChangeSessionsRefreshed, nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RealtimeEvents.WithLabelValues(store.ChangeNewOrder)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RealtimeEvents.WithLabelValues(store.ChangeOrderStatusUpdated)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RealtimeEvents.WithLabelValues(store.ChangeCashPayment)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Refetches.WithLabelValues("orders")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Refetches.WithLabelValues("sessions")))
}

func TestObserveChangeIgnoresUnknownKinds(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.ObserveChange(store.ChangeAcceptance, nil)
	m.ObserveChange("SomethingElse", nil)

	assert.Equal(t, 0.0, testutil.ToFloat64(m.Refetches.WithLabelValues("orders")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.RealtimeEvents.WithLabelValues(store.ChangeAcceptance)))
}

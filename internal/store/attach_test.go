package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderboard/internal/models"
	"orderboard/internal/realtime"
)

// fakeSource records hub subscriptions and lets tests inject raw events.
type fakeSource struct {
	handlers map[string][]realtime.Handler
}

func newFakeSource() *fakeSource {
	return &fakeSource{handlers: make(map[string][]realtime.Handler)}
}

func (f *fakeSource) On(target string, fn realtime.Handler) func() {
	f.handlers[target] = append(f.handlers[target], fn)
	return func() {}
}

func (f *fakeSource) emit(t *testing.T, target, payload string) {
	t.Helper()
	require.NotEmpty(t, f.handlers[target], "no handler for %s", target)
	args := []json.RawMessage{json.RawMessage(payload)}
	for _, fn := range f.handlers[target] {
		fn(args)
	}
}

func TestAttachRegistersAllHubEvents(t *testing.T) {
	s := New(&fakePlatform{}, &fakeNotifier{}, fixedScope(""))
	defer s.Close()

	source := newFakeSource()
	s.Attach(source)

	for _, event := range []string{realtime.EventNewOrder, realtime.EventOrderStatusUpdated, realtime.EventCashPaymentRequested} {
		assert.Len(t, source.handlers[event], 1, "event %s", event)
	}
}

func TestAttachDecodesNewOrder(t *testing.T) {
	notifier := &fakeNotifier{}
	s := New(&fakePlatform{}, notifier, fixedScope("r1"))
	defer s.Close()

	source := newFakeSource()
	s.Attach(source)

	source.emit(t, realtime.EventNewOrder, `{"id":"o1","restaurantId":"r1","tableNumber":3,"status":0}`)

	orders := s.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, "o1", orders[0].ID)
	assert.Equal(t, 3, orders[0].TableNumber)
	assert.Equal(t, 1, notifier.count())
}

func TestAttachDecodesStatusUpdate(t *testing.T) {
	fake := &fakePlatform{orders: []models.Order{pendingOrder("o1")}}
	s := New(fake, &fakeNotifier{}, fixedScope("r1"))
	defer s.Close()
	require.NoError(t, s.LoadOrders(context.Background()))

	source := newFakeSource()
	s.Attach(source)

	source.emit(t, realtime.EventOrderStatusUpdated, `{"id":"o1","restaurantId":"r1","status":1}`)

	orders := s.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, models.OrderStatusConfirmed, orders[0].Status)
}

func TestAttachDecodesCashPaymentRequest(t *testing.T) {
	fake := &fakePlatform{}
	notifier := &fakeNotifier{}
	s := New(fake, notifier, fixedScope("r1"))
	defer s.Close()

	source := newFakeSource()
	s.Attach(source)

	source.emit(t, realtime.EventCashPaymentRequested, `{"orderId":"o1","tableNumber":4,"amount":275}`)

	assert.Equal(t, 1, notifier.count())
	fake.mu.Lock()
	calls := fake.listOrdersCalls
	fake.mu.Unlock()
	assert.Equal(t, 1, calls)
}

func TestAttachDropsMalformedPayloads(t *testing.T) {
	notifier := &fakeNotifier{}
	s := New(&fakePlatform{}, notifier, fixedScope("r1"))
	defer s.Close()

	source := newFakeSource()
	s.Attach(source)

	source.emit(t, realtime.EventNewOrder, `{broken`)
	for _, fn := range source.handlers[realtime.EventNewOrder] {
		fn(nil) // no arguments at all
	}

	assert.Empty(t, s.Orders())
	assert.Zero(t, notifier.count())
}

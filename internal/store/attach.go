package store

import (
	"encoding/json"
	"log"

	"orderboard/internal/models"
	"orderboard/internal/realtime"
)

// EventSource is the subscription surface of the realtime channel adapter.
type EventSource interface {
	On(target string, fn realtime.Handler) func()
}

// Attach registers the store's three hub handlers. It is called once per
// store lifetime; the adapter keeps the registrations across reconnects, so
// nothing is ever registered twice.
func (s *Store) Attach(source EventSource) {
	source.On(realtime.EventNewOrder, func(args []json.RawMessage) {
		var order models.Order
		if !decodeFirst(realtime.EventNewOrder, args, &order) {
			return
		}
		s.ApplyRealtimeNewOrder(order)
	})

	source.On(realtime.EventOrderStatusUpdated, func(args []json.RawMessage) {
		var order models.Order
		if !decodeFirst(realtime.EventOrderStatusUpdated, args, &order) {
			return
		}
		s.ApplyRealtimeStatusUpdate(order)
	})

	source.On(realtime.EventCashPaymentRequested, func(args []json.RawMessage) {
		var req models.CashPaymentRequest
		if !decodeFirst(realtime.EventCashPaymentRequested, args, &req) {
			return
		}
		s.ApplyCashPaymentRequest(req)
	})
}

// decodeFirst unmarshals the first invocation argument. Malformed payloads
// are logged and dropped; a bad event must not take the channel down.
func decodeFirst(event string, args []json.RawMessage, out interface{}) bool {
	if len(args) == 0 {
		log.Printf("store: %s event without payload dropped", event)
		return false
	}
	if err := json.Unmarshal(args[0], out); err != nil {
		log.Printf("store: malformed %s payload dropped: %v", event, err)
		return false
	}
	return true
}

package store

import (
	"context"
	"log"

	"orderboard/internal/models"
)

// Mutations never patch local state speculatively: the collaborator is
// called first, then the affected collection is refetched in full. A failed
// mutation therefore leaves visible state untouched.

// ChangeStatus moves an order to a new status and refetches the order list.
func (s *Store) ChangeStatus(ctx context.Context, orderID string, status models.OrderStatus) error {
	s.setBusy(orderID)
	defer s.clearBusy(orderID)

	if err := s.api.UpdateOrderStatus(ctx, orderID, status); err != nil {
		log.Printf("store: change status of %s: %v", orderID, err)
		return err
	}
	return s.LoadOrders(ctx)
}

// CancelItem cancels one order line with an optional reason, then refetches.
// A selected order is re-resolved from the fresh list; it deselects if the
// order left the result set.
func (s *Store) CancelItem(ctx context.Context, orderID, itemID, reason string) error {
	s.setBusy(itemID)
	defer s.clearBusy(itemID)

	if err := s.api.CancelOrderItem(ctx, orderID, itemID, reason); err != nil {
		log.Printf("store: cancel item %s of %s: %v", itemID, orderID, err)
		return err
	}
	return s.LoadOrders(ctx)
}

// ConfirmPendingItems confirms all guest-added pending items on an order,
// then refetches. The hasPendingItems flag only clears through the platform's
// authoritative response, never by local inference.
func (s *Store) ConfirmPendingItems(ctx context.Context, orderID string) error {
	s.setBusy(orderID)
	defer s.clearBusy(orderID)

	if err := s.api.ConfirmPendingItems(ctx, orderID); err != nil {
		log.Printf("store: confirm pending items of %s: %v", orderID, err)
		return err
	}
	return s.LoadOrders(ctx)
}

// MarkSessionPaid marks every unpaid order in a session paid, then refetches
// sessions. Payment mutations are safety-critical: failure raises a
// user-visible alert.
func (s *Store) MarkSessionPaid(ctx context.Context, sessionID, note string) error {
	s.setBusy(sessionID)
	defer s.clearBusy(sessionID)

	if err := s.api.MarkSessionPaid(ctx, sessionID, note); err != nil {
		log.Printf("store: mark session %s paid: %v", sessionID, err)
		s.alert("mark session paid", "Failed to mark the session as paid")
		return err
	}
	return s.LoadTableSessions(ctx)
}

// MarkOrderPaidInSession marks one guest order within a session paid, then
// refetches sessions. Alerts on failure like MarkSessionPaid.
func (s *Store) MarkOrderPaidInSession(ctx context.Context, sessionID, orderID string) error {
	s.setBusy(orderID)
	defer s.clearBusy(orderID)

	if err := s.api.MarkOrderPaidInSession(ctx, sessionID, orderID); err != nil {
		log.Printf("store: mark order %s paid in session %s: %v", orderID, sessionID, err)
		s.alert("mark order paid", "Failed to mark the order as paid")
		return err
	}
	return s.LoadTableSessions(ctx)
}

// CloseSession closes a table session. On success the session selection is
// cleared outright: closed sessions leave the active set, so there is
// nothing to re-resolve.
func (s *Store) CloseSession(ctx context.Context, sessionID, reason string) error {
	s.setBusy(sessionID)
	defer s.clearBusy(sessionID)

	if err := s.api.CloseTableSession(ctx, sessionID, reason); err != nil {
		log.Printf("store: close session %s: %v", sessionID, err)
		s.alert("close session", "Failed to close the table session")
		return err
	}

	s.mu.Lock()
	s.selectedSessionID = ""
	s.mu.Unlock()

	return s.LoadTableSessions(ctx)
}

// ToggleAcceptingOrders pauses or resumes order intake for a restaurant.
// This is the one mutation that updates local state directly on success (a
// single scalar, no server-computed aggregates involved). Failure raises a
// user-visible alert: silently failing to pause intake has operational
// consequences.
func (s *Store) ToggleAcceptingOrders(ctx context.Context, restaurantID string, accepting bool, pauseMessage string) error {
	const busyKey = "toggle-accepting"
	s.setBusy(busyKey)
	defer s.clearBusy(busyKey)

	if err := s.api.ToggleRestaurantOrders(ctx, restaurantID, accepting, pauseMessage); err != nil {
		log.Printf("store: toggle accepting orders for %s: %v", restaurantID, err)
		s.alert("toggle accepting orders", "Failed to change order intake status")
		return err
	}

	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return nil
	}
	status := models.RestaurantStatus{AcceptingOrders: accepting, PauseMessage: pauseMessage}
	if accepting {
		status.PauseMessage = ""
	}
	s.acceptance = status
	s.mu.Unlock()

	s.publish(ChangeAcceptance, status)
	return nil
}

func (s *Store) setBusy(id string) {
	s.mu.Lock()
	s.busy[id] = struct{}{}
	s.mu.Unlock()
}

func (s *Store) clearBusy(id string) {
	s.mu.Lock()
	delete(s.busy, id)
	s.mu.Unlock()
}

// Busy reports whether a mutation is in flight for the given entity id.
// Flags are tracked per entity so independent actions never contend.
func (s *Store) Busy(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.busy[id]
	return ok
}

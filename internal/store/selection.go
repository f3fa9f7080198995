package store

import (
	"orderboard/internal/models"
	"orderboard/internal/views"
)

// Selections are weak references: an id resolved against the authoritative
// collection on every access, never a copy that could drift. After a refetch
// a selection pointing at a vanished entity is cleared.

// SelectOrder marks an order as selected; an empty id clears the selection.
func (s *Store) SelectOrder(id string) {
	s.mu.Lock()
	s.selectedOrderID = id
	s.mu.Unlock()
}

// SelectedOrder resolves the selected order against the current collection.
func (s *Store) SelectedOrder() (models.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findOrderLocked(s.selectedOrderID)
}

// SelectSession marks a session as selected; an empty id clears it.
func (s *Store) SelectSession(id string) {
	s.mu.Lock()
	s.selectedSessionID = id
	s.mu.Unlock()
}

// SelectedSession resolves the selected session against the current
// collection.
func (s *Store) SelectedSession() (models.TableSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, session := range s.sessions {
		if session.ID == s.selectedSessionID {
			return session, true
		}
	}
	return models.TableSession{}, false
}

func (s *Store) findOrderLocked(id string) (models.Order, bool) {
	if id == "" {
		return models.Order{}, false
	}
	for _, order := range s.orders {
		if order.ID == id {
			return order, true
		}
	}
	return models.Order{}, false
}

func (s *Store) resolveOrderSelectionLocked() {
	if _, ok := s.findOrderLocked(s.selectedOrderID); !ok {
		s.selectedOrderID = ""
	}
}

func (s *Store) resolveSessionSelectionLocked() {
	if s.selectedSessionID == "" {
		return
	}
	for _, session := range s.sessions {
		if session.ID == s.selectedSessionID {
			return
		}
	}
	s.selectedSessionID = ""
}

// Orders returns a copy of the current order collection.
func (s *Store) Orders() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Order(nil), s.orders...)
}

// Sessions returns a copy of the current session collection.
func (s *Store) Sessions() []models.TableSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.TableSession(nil), s.sessions...)
}

// Acceptance returns the cached order-acceptance state of the active scope.
func (s *Store) Acceptance() models.RestaurantStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.acceptance
}

// Filter returns the active status filter.
func (s *Store) Filter() views.StatusFilter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// NewOrdersCount returns the unseen-orders badge value.
func (s *Store) NewOrdersCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.newOrdersCount
}

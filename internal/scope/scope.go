// Package scope resolves which restaurant's data is active. Every store
// fetch is parameterized by the resolved scope.
package scope

import (
	"errors"
	"sync"

	"orderboard/internal/models"
)

// ErrFixedScope is returned when a restaurant admin tries to switch scope.
var ErrFixedScope = errors.New("scope is fixed for a restaurant admin")

// Selector holds the active restaurant scope. For a restaurant admin the
// scope is fixed at login from the identity; a platform admin selects among
// all restaurants, defaulting to the first available.
type Selector struct {
	mu       sync.RWMutex
	fixed    bool
	current  string
	onChange []func(restaurantID string)
}

// NewSelector derives the initial scope from the operator identity.
func NewSelector(admin models.Admin) *Selector {
	s := &Selector{}
	if admin.Role == models.RoleRestaurantAdmin {
		s.fixed = true
		s.current = admin.RestaurantID
	}
	return s
}

// Current returns the active restaurant id; empty when a platform admin has
// not selected one yet.
func (s *Selector) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Fixed reports whether the scope is bound to the identity.
func (s *Selector) Fixed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fixed
}

// OnChange registers a hook fired after every scope switch. The store uses
// it to trigger a full reload; there is no incremental diff between scopes.
func (s *Selector) OnChange(fn func(restaurantID string)) {
	s.mu.Lock()
	s.onChange = append(s.onChange, fn)
	s.mu.Unlock()
}

// Select switches the active restaurant. Selecting the current scope again
// is a no-op and fires no hooks.
func (s *Selector) Select(restaurantID string) error {
	s.mu.Lock()
	if s.fixed {
		s.mu.Unlock()
		return ErrFixedScope
	}
	if restaurantID == s.current {
		s.mu.Unlock()
		return nil
	}
	s.current = restaurantID
	hooks := append([]func(string){}, s.onChange...)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn(restaurantID)
	}
	return nil
}

// Default seeds a platform admin's scope with the first restaurant when none
// is selected yet. Restored or already-selected scopes are kept.
func (s *Selector) Default(restaurants []models.Restaurant) {
	s.mu.Lock()
	if s.fixed || s.current != "" || len(restaurants) == 0 {
		s.mu.Unlock()
		return
	}
	s.current = restaurants[0].ID
	hooks := append([]func(string){}, s.onChange...)
	current := s.current
	s.mu.Unlock()

	for _, fn := range hooks {
		fn(current)
	}
}

// Bind re-derives the scope from a freshly authenticated identity. For a
// restaurant admin this fixes the scope to their restaurant and fires the
// change hooks if it moved.
func (s *Selector) Bind(admin models.Admin) {
	s.mu.Lock()
	previous := s.current
	if admin.Role == models.RoleRestaurantAdmin {
		s.fixed = true
		s.current = admin.RestaurantID
	} else {
		s.fixed = false
	}
	changed := s.current != previous
	hooks := append([]func(string){}, s.onChange...)
	current := s.current
	s.mu.Unlock()

	if changed {
		for _, fn := range hooks {
			fn(current)
		}
	}
}

// Restore seeds the scope from persisted state without firing hooks; used
// before the first load on startup.
func (s *Selector) Restore(restaurantID string) {
	s.mu.Lock()
	if !s.fixed && s.current == "" {
		s.current = restaurantID
	}
	s.mu.Unlock()
}

// Package store is the authoritative in-memory view of orders and table
// sessions for the active restaurant scope. It merges REST snapshots with
// realtime deltas and reconciles every multi-entity mutation by a full
// refetch: the platform owns all money arithmetic, so the store never patches
// totals locally.
package store

import (
	"context"
	"fmt"
	"log"
	"sync"

	"orderboard/internal/models"
	"orderboard/internal/views"
)

// PlatformAPI is the REST collaborator the store reconciles against.
type PlatformAPI interface {
	ListOrders(ctx context.Context, status *models.OrderStatus, restaurantID string) ([]models.Order, error)
	ListTableSessions(ctx context.Context, restaurantID string) ([]models.TableSession, error)
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) error
	CancelOrderItem(ctx context.Context, orderID, itemID, reason string) error
	ConfirmPendingItems(ctx context.Context, orderID string) error
	CloseTableSession(ctx context.Context, id, reason string) error
	MarkSessionPaid(ctx context.Context, id, note string) error
	MarkOrderPaidInSession(ctx context.Context, sessionID, orderID string) error
	GetRestaurantStatus(ctx context.Context, id string) (models.RestaurantStatus, error)
	ToggleRestaurantOrders(ctx context.Context, id string, accepting bool, pauseMessage string) error
}

// Notifier raises the operator alert for an incoming event.
type Notifier interface {
	Notify(title, body string)
}

// ScopeFunc resolves the active restaurant id. Empty means unscoped.
type ScopeFunc func() string

// Store holds the live order/session state. All public operations are safe
// for concurrent use; the store lock is never held across a REST call, and
// every continuation re-checks the disposed flag and the per-collection
// fetch generation before applying results.
type Store struct {
	api      PlatformAPI
	notifier Notifier
	scope    ScopeFunc

	ctx    context.Context
	cancel context.CancelFunc

	mu                sync.Mutex
	orders            []models.Order
	sessions          []models.TableSession
	acceptance        models.RestaurantStatus
	filter            views.StatusFilter
	newOrdersCount    int
	selectedOrderID   string
	selectedSessionID string
	busy              map[string]struct{}
	disposed          bool

	// Monotonic fetch generations implement last-fetch-wins per collection.
	ordersIssued    uint64
	ordersApplied   uint64
	sessionsIssued  uint64
	sessionsApplied uint64

	onAlert  []func(op, message string)
	onChange []func(kind string, payload interface{})
}

// Change kinds published to OnChange subscribers (dashboard fan-out).
const (
	ChangeNewOrder           = "NewOrder"
	ChangeOrderStatusUpdated = "OrderStatusUpdated"
	ChangeCashPayment        = "CashPaymentRequested"
	ChangeOrdersRefreshed    = "OrdersRefreshed"
	ChangeSessionsRefreshed  = "SessionsRefreshed"
	ChangeAcceptance         = "AcceptanceChanged"
)

// New constructs a store over its collaborators. The scope function is
// consulted on every fetch so a scope switch takes effect on the next reload.
func New(api PlatformAPI, notifier Notifier, scope ScopeFunc) *Store {
	ctx, cancel := context.WithCancel(context.Background())
	return &Store{
		api:      api,
		notifier: notifier,
		scope:    scope,
		ctx:      ctx,
		cancel:   cancel,
		filter:   views.FilterAll,
		busy:     make(map[string]struct{}),
	}
}

// Close disposes the store. Late-arriving REST responses and realtime events
// are ignored from here on.
func (s *Store) Close() {
	s.mu.Lock()
	s.disposed = true
	s.mu.Unlock()
	s.cancel()
}

// OnAlert registers a hook for user-visible failure alerts raised by
// safety-critical mutations.
func (s *Store) OnAlert(fn func(op, message string)) {
	s.mu.Lock()
	s.onAlert = append(s.onAlert, fn)
	s.mu.Unlock()
}

// OnChange registers a subscriber for store change events.
func (s *Store) OnChange(fn func(kind string, payload interface{})) {
	s.mu.Lock()
	s.onChange = append(s.onChange, fn)
	s.mu.Unlock()
}

func (s *Store) publish(kind string, payload interface{}) {
	s.mu.Lock()
	subscribers := append([]func(string, interface{}){}, s.onChange...)
	s.mu.Unlock()
	for _, fn := range subscribers {
		fn(kind, payload)
	}
}

func (s *Store) alert(op, message string) {
	s.mu.Lock()
	hooks := append([]func(string, string){}, s.onAlert...)
	s.mu.Unlock()
	for _, fn := range hooks {
		fn(op, message)
	}
}

// LoadOrders refetches the full order collection for the active scope and
// filter, replacing the local collection. A failed read keeps last-known-good
// data; a response older than one already applied is dropped.
func (s *Store) LoadOrders(ctx context.Context) error {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return nil
	}
	s.ordersIssued++
	gen := s.ordersIssued
	filter := s.filter
	s.mu.Unlock()

	var statusFilter *models.OrderStatus
	if filter != views.FilterAll {
		status := models.OrderStatus(filter)
		statusFilter = &status
	}

	orders, err := s.api.ListOrders(ctx, statusFilter, s.scope())
	if err != nil {
		log.Printf("store: load orders: %v", err)
		return err
	}

	s.mu.Lock()
	if s.disposed || gen <= s.ordersApplied {
		s.mu.Unlock()
		return nil
	}
	s.ordersApplied = gen
	s.orders = orders
	s.resolveOrderSelectionLocked()
	s.mu.Unlock()

	s.publish(ChangeOrdersRefreshed, len(orders))
	return nil
}

// LoadTableSessions refetches the session collection; same contract as
// LoadOrders.
func (s *Store) LoadTableSessions(ctx context.Context) error {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return nil
	}
	s.sessionsIssued++
	gen := s.sessionsIssued
	s.mu.Unlock()

	sessions, err := s.api.ListTableSessions(ctx, s.scope())
	if err != nil {
		log.Printf("store: load table sessions: %v", err)
		return err
	}

	s.mu.Lock()
	if s.disposed || gen <= s.sessionsApplied {
		s.mu.Unlock()
		return nil
	}
	s.sessionsApplied = gen
	s.sessions = sessions
	s.resolveSessionSelectionLocked()
	s.mu.Unlock()

	s.publish(ChangeSessionsRefreshed, len(sessions))
	return nil
}

// LoadAcceptance refetches the order-acceptance state of the active scope.
func (s *Store) LoadAcceptance(ctx context.Context) error {
	scope := s.scope()
	if scope == "" {
		return nil
	}
	status, err := s.api.GetRestaurantStatus(ctx, scope)
	if err != nil {
		log.Printf("store: load restaurant status: %v", err)
		return err
	}

	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return nil
	}
	s.acceptance = status
	s.mu.Unlock()

	s.publish(ChangeAcceptance, status)
	return nil
}

// ReloadAll refreshes orders, sessions, and acceptance state. Called on
// startup and after every scope switch; there is no incremental diff between
// scopes.
func (s *Store) ReloadAll(ctx context.Context) {
	if err := s.LoadOrders(ctx); err != nil {
		log.Printf("store: reload orders: %v", err)
	}
	if err := s.LoadTableSessions(ctx); err != nil {
		log.Printf("store: reload sessions: %v", err)
	}
	if err := s.LoadAcceptance(ctx); err != nil {
		log.Printf("store: reload acceptance: %v", err)
	}
}

// SetFilter switches the active status filter and refetches. Moving to a
// view that shows pending orders clears the unseen-orders badge.
func (s *Store) SetFilter(ctx context.Context, filter views.StatusFilter) error {
	s.mu.Lock()
	s.filter = filter
	if filter.ShowsPending() {
		s.newOrdersCount = 0
	}
	s.mu.Unlock()
	return s.LoadOrders(ctx)
}

// inScope reports whether an event's restaurant is relevant to the active
// scope. Events arrive for every restaurant; only the active one applies.
func (s *Store) inScope(restaurantID string) bool {
	scope := s.scope()
	return scope == "" || restaurantID == "" || restaurantID == scope
}

// ApplyRealtimeNewOrder merges a NewOrder hub event: the order is prepended,
// the badge increments, and the operator is alerted. Redelivered events are
// deduplicated by id, keeping the first-seen copy.
func (s *Store) ApplyRealtimeNewOrder(order models.Order) {
	if !s.inScope(order.RestaurantID) {
		return
	}

	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	for _, existing := range s.orders {
		if existing.ID == order.ID {
			s.mu.Unlock()
			log.Printf("store: duplicate NewOrder %s dropped", order.ID)
			return
		}
	}
	s.orders = append([]models.Order{order}, s.orders...)
	s.newOrdersCount++
	s.mu.Unlock()

	s.notifier.Notify("New order!", fmt.Sprintf("Table #%d placed an order", order.TableNumber))
	s.publish(ChangeNewOrder, order)
}

// ApplyRealtimeStatusUpdate replaces the matching order in place,
// last-write-wins. The selection is an id, so a selected order reflects the
// new value on the next lookup.
func (s *Store) ApplyRealtimeStatusUpdate(order models.Order) {
	if !s.inScope(order.RestaurantID) {
		return
	}

	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	replaced := false
	for i := range s.orders {
		if s.orders[i].ID == order.ID {
			s.orders[i] = order
			replaced = true
			break
		}
	}
	s.mu.Unlock()

	if replaced {
		s.publish(ChangeOrderStatusUpdated, order)
	}
}

// ApplyCashPaymentRequest alerts the operator and forces a full order
// refetch; the event carries no order body.
func (s *Store) ApplyCashPaymentRequest(req models.CashPaymentRequest) {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	table := req.TableName
	if table == "" {
		table = fmt.Sprintf("Table #%d", req.TableNumber)
	}
	s.notifier.Notify("Cash payment requested", fmt.Sprintf("%s: %.2f", table, req.Amount))
	s.publish(ChangeCashPayment, req)

	if err := s.LoadOrders(s.ctx); err != nil {
		log.Printf("store: refetch after cash payment request: %v", err)
	}
}

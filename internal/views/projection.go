// Package views derives display projections from the store's snapshot. All
// functions are pure; they never mutate their inputs.
package views

import (
	"sort"

	"orderboard/internal/models"
)

// StatusFilter selects orders by status; FilterAll keeps everything.
type StatusFilter int

// FilterAll is the identity filter.
const FilterAll StatusFilter = -1

// Matches reports whether an order passes the filter.
func (f StatusFilter) Matches(order models.Order) bool {
	return f == FilterAll || models.OrderStatus(f) == order.Status
}

// ShowsPending reports whether the filter exposes pending orders, which is
// what clears the unseen-orders badge.
func (f StatusFilter) ShowsPending() bool {
	return f == FilterAll || models.OrderStatus(f) == models.OrderStatusPending
}

// NextStatus returns the single allowed forward transition, or ok=false for
// terminal states.
func NextStatus(status models.OrderStatus) (models.OrderStatus, bool) {
	switch status {
	case models.OrderStatusPending:
		return models.OrderStatusConfirmed, true
	case models.OrderStatusConfirmed:
		return models.OrderStatusCompleted, true
	default:
		return 0, false
	}
}

// FilterByStatus returns the orders matching the filter, preserving order.
func FilterByStatus(orders []models.Order, filter StatusFilter) []models.Order {
	if filter == FilterAll {
		return orders
	}
	filtered := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		if filter.Matches(order) {
			filtered = append(filtered, order)
		}
	}
	return filtered
}

// TableGroup collects the sessions of one physical table.
type TableGroup struct {
	TableID     string                `json:"tableId"`
	TableNumber int                   `json:"tableNumber"`
	TableName   string                `json:"tableName,omitempty"`
	Sessions    []models.TableSession `json:"sessions"`
}

// GroupSessionsByTable groups sessions per table, tables sorted by number,
// sessions within a table kept in input order.
func GroupSessionsByTable(sessions []models.TableSession) []TableGroup {
	index := make(map[string]int)
	var groups []TableGroup
	for _, session := range sessions {
		i, ok := index[session.TableID]
		if !ok {
			i = len(groups)
			index[session.TableID] = i
			groups = append(groups, TableGroup{
				TableID:     session.TableID,
				TableNumber: session.TableNumber,
				TableName:   session.TableName,
			})
		}
		groups[i].Sessions = append(groups[i].Sessions, session)
	}
	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].TableNumber < groups[b].TableNumber
	})
	return groups
}

// PaymentAggregate is the paid/unpaid split of a session recomputed from its
// per-order fields. The platform's cached aggregates are not trusted here;
// display always derives from the authoritative order rows.
type PaymentAggregate struct {
	Paid   float64 `json:"paid"`
	Unpaid float64 `json:"unpaid"`
	Total  float64 `json:"total"`
}

// AggregatePaidUnpaid recomputes the payment split of a session from its
// orders.
func AggregatePaidUnpaid(session models.TableSession) PaymentAggregate {
	var agg PaymentAggregate
	for _, order := range session.Orders {
		agg.Total += order.Total
		if order.IsPaid {
			agg.Paid += order.Total
		} else {
			agg.Unpaid += order.Total
		}
	}
	return agg
}

// CountByStatus tallies orders per status for the filter-tab badges.
func CountByStatus(orders []models.Order) map[models.OrderStatus]int {
	counts := make(map[models.OrderStatus]int, len(models.OrderStatusNames))
	for _, order := range orders {
		counts[order.Status]++
	}
	return counts
}

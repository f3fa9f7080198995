package models

import "time"

// OrderStatus represents the lifecycle state of an order. The values are
// wire-compatible with the platform API, which encodes status as an integer.
type OrderStatus int

const (
	OrderStatusPending   OrderStatus = 0
	OrderStatusConfirmed OrderStatus = 1
	OrderStatusCompleted OrderStatus = 2
	OrderStatusCancelled OrderStatus = 3
)

// OrderStatusNames maps statuses to display labels.
var OrderStatusNames = map[OrderStatus]string{
	OrderStatusPending:   "Pending",
	OrderStatusConfirmed: "Confirmed",
	OrderStatusCompleted: "Completed",
	OrderStatusCancelled: "Cancelled",
}

// Terminal reports whether no further forward transition exists.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

func (s OrderStatus) String() string {
	if name, ok := OrderStatusNames[s]; ok {
		return name
	}
	return "Unknown"
}

// OrderItemStatus represents the state of a single order line.
type OrderItemStatus int

const (
	OrderItemStatusPending   OrderItemStatus = 0
	OrderItemStatusActive    OrderItemStatus = 1
	OrderItemStatusCancelled OrderItemStatus = 2
)

// OrderItemStatusNames maps item statuses to display labels.
var OrderItemStatusNames = map[OrderItemStatus]string{
	OrderItemStatusPending:   "New",
	OrderItemStatusActive:    "Active",
	OrderItemStatusCancelled: "Cancelled",
}

// OrderItem is one product line within an order. Pending items were added by
// a guest after the order was placed and await staff confirmation; cancelled
// items stay in the list for audit but are excluded from money totals.
type OrderItem struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"productId"`
	ProductName    string          `json:"productName"`
	SizeName       string          `json:"sizeName,omitempty"`
	UnitPrice      float64         `json:"unitPrice"`
	Quantity       int             `json:"quantity"`
	TotalPrice     float64         `json:"totalPrice"`
	SelectedAddons []string        `json:"selectedAddons,omitempty"`
	Status         OrderItemStatus `json:"status"`
	CancelReason   string          `json:"cancelReason,omitempty"`
	CreatedAt      *time.Time      `json:"createdAt,omitempty"`
}

// Order is a guest's placed order at a table. Money fields are computed by
// the platform; the console never recomputes them locally.
type Order struct {
	ID                  string      `json:"id"`
	UserID              string      `json:"userId"`
	TableID             string      `json:"tableId"`
	TableNumber         int         `json:"tableNumber"`
	TableName           string      `json:"tableName,omitempty"`
	TableTypeName       string      `json:"tableTypeName,omitempty"`
	RestaurantID        string      `json:"restaurantId,omitempty"`
	RestaurantName      string      `json:"restaurantName,omitempty"`
	CreatedAt           time.Time   `json:"createdAt"`
	Status              OrderStatus `json:"status"`
	Subtotal            float64     `json:"subtotal"`
	ServiceFee          float64     `json:"serviceFee"`
	Total               float64     `json:"total"`
	SpecialInstructions string      `json:"specialInstructions,omitempty"`
	Items               []OrderItem `json:"items"`
	HasPendingItems     bool        `json:"hasPendingItems"`
	IsPaid              bool        `json:"isPaid,omitempty"`
	TableSessionID      string      `json:"tableSessionId,omitempty"`
}

// CashPaymentRequest is the payload of the CashPaymentRequested hub event.
// It carries no order body; the underlying change is picked up by a refetch.
type CashPaymentRequest struct {
	OrderID     string    `json:"orderId"`
	TableNumber int       `json:"tableNumber"`
	TableName   string    `json:"tableName"`
	Amount      float64   `json:"amount"`
	RequestedAt time.Time `json:"requestedAt"`
}

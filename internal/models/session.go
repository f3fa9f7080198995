package models

import "time"

// TableSessionStatus represents the state of a table session.
type TableSessionStatus int

const (
	TableSessionStatusActive TableSessionStatus = 0
	TableSessionStatusClosed TableSessionStatus = 1
)

// TableSessionStatusNames maps session statuses to display labels.
var TableSessionStatusNames = map[TableSessionStatus]string{
	TableSessionStatusActive: "Active",
	TableSessionStatusClosed: "Closed",
}

// SessionOrder is one guest's order nested under a table session. The
// service-fee share is the guest's proportional slice of the table-wide fee,
// so Total = Subtotal + ServiceFeeShare.
type SessionOrder struct {
	ID              string      `json:"id"`
	UserID          string      `json:"userId"`
	GuestPhone      string      `json:"guestPhone,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	Status          OrderStatus `json:"status"`
	Subtotal        float64     `json:"subtotal"`
	ServiceFeeShare float64     `json:"serviceFeeShare"`
	Total           float64     `json:"total"`
	IsPaid          bool        `json:"isPaid"`
	PaidAt          *time.Time  `json:"paidAt,omitempty"`
	Items           []OrderItem `json:"items"`
}

// TableSession aggregates every order placed at one table between session
// start and close. Aggregate money fields are platform-computed and must
// satisfy PaidAmount + UnpaidAmount = SessionTotal.
type TableSession struct {
	ID                string             `json:"id"`
	TableID           string             `json:"tableId"`
	TableNumber       int                `json:"tableNumber"`
	TableName         string             `json:"tableName,omitempty"`
	RestaurantID      string             `json:"restaurantId"`
	RestaurantName    string             `json:"restaurantName,omitempty"`
	StartedAt         time.Time          `json:"startedAt"`
	ClosedAt          *time.Time         `json:"closedAt,omitempty"`
	Status            TableSessionStatus `json:"status"`
	SessionSubtotal   float64            `json:"sessionSubtotal"`
	SessionServiceFee float64            `json:"sessionServiceFee"`
	SessionTotal      float64            `json:"sessionTotal"`
	ServiceFeePercent float64            `json:"serviceFeePercent"`
	PaidAmount        float64            `json:"paidAmount"`
	UnpaidAmount      float64            `json:"unpaidAmount"`
	OrderCount        int                `json:"orderCount"`
	GuestCount        int                `json:"guestCount"`
	Orders            []SessionOrder     `json:"orders"`
}

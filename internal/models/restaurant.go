package models

import "time"

// Restaurant is a managed venue on the platform.
type Restaurant struct {
	ID                     string    `json:"id"`
	Name                   string    `json:"name"`
	Description            string    `json:"description,omitempty"`
	Address                string    `json:"address,omitempty"`
	Phone                  string    `json:"phone,omitempty"`
	LogoURL                string    `json:"logoUrl,omitempty"`
	IsActive               bool      `json:"isActive"`
	AcceptingOrders        bool      `json:"acceptingOrders"`
	PauseMessage           string    `json:"pauseMessage,omitempty"`
	CreatedAt              time.Time `json:"createdAt"`
	MenuCount              int       `json:"menuCount"`
	TableCount             int       `json:"tableCount"`
	OnlinePaymentAvailable bool      `json:"onlinePaymentAvailable"`
	PaymentLink            string    `json:"paymentLink,omitempty"`
	ServiceFeePercent      float64   `json:"serviceFeePercent"`
}

// RestaurantStatus is the per-restaurant order-acceptance flag plus the
// optional message shown to guests while intake is paused.
type RestaurantStatus struct {
	AcceptingOrders bool   `json:"acceptingOrders"`
	PauseMessage    string `json:"pauseMessage,omitempty"`
}

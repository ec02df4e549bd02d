package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Totals holds the figures derived from a cart's items
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// CheckoutSnapshot is the one-shot copy of a cart handed to the booking flow.
// It is written once at checkout and never kept in sync afterwards.
type CheckoutSnapshot struct {
	Items []LineItem `json:"items"`
	Totals
	CreatedAt time.Time `json:"createdAt"`
}

// CheckoutRequest is the optional contact detail sent with a checkout
type CheckoutRequest struct {
	Customer string `json:"customer,omitempty"`
	Email    string `json:"email,omitempty"`
}

// CheckoutResponse tells the client where the booking flow continues
type CheckoutResponse struct {
	Redirect string           `json:"redirect"`
	Snapshot CheckoutSnapshot `json:"snapshot"`
}

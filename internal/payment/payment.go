// Package payment is the boundary to the external payment gateway.
package payment

import (
	"context"
)

// OrderInput holds the parameters for creating a payment order.
type OrderInput struct {
	// Amount is in the currency's smallest unit (paise for INR).
	Amount   int64
	Currency string
	Receipt  string
}

// Order is the gateway-side order a checkout session attaches to.
type Order struct {
	ID        string `json:"id"`
	Amount    int64  `json:"amount"`
	AmountDue int64  `json:"amount_due"`
	Currency  string `json:"currency"`
	Receipt   string `json:"receipt"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"created_at"`
}

// Gateway defines the interface for payment gateway integrations.
type Gateway interface {
	// Name returns the gateway name (e.g., "mock", "razorpay").
	Name() string

	// CreateOrder registers a new payment order with the gateway.
	CreateOrder(ctx context.Context, input *OrderInput) (*Order, error)
}

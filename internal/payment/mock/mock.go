package mock

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/payment"
)

// Gateway is a mock payment gateway that always succeeds.
// It is intended for development and testing purposes.
type Gateway struct{}

// New creates a new mock payment gateway.
func New() *Gateway {
	return &Gateway{}
}

// Name returns the gateway name.
func (g *Gateway) Name() string {
	return "mock"
}

// CreateOrder simulates order creation that always succeeds.
func (g *Gateway) CreateOrder(_ context.Context, input *payment.OrderInput) (*payment.Order, error) {
	return &payment.Order{
		ID:        "order_mock_" + uuid.New().String(),
		Amount:    input.Amount,
		AmountDue: input.Amount,
		Currency:  input.Currency,
		Receipt:   input.Receipt,
		Status:    "created",
		CreatedAt: time.Now().Unix(),
	}, nil
}

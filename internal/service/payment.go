package service

import (
	"context"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/payment"
	apperrors "github.com/AshmeetSingh123/Qziners-EcommerceApp/pkg/errors"
)

// orderCurrency is the only currency the storefront charges in.
const orderCurrency = "INR"

// PaymentService creates payment orders with the gateway.
type PaymentService struct {
	gateway payment.Gateway
	logger  *slog.Logger
}

// NewPaymentService creates a new payment service.
func NewPaymentService(gateway payment.Gateway, logger *slog.Logger) *PaymentService {
	return &PaymentService{
		gateway: gateway,
		logger:  logger,
	}
}

// CreateOrder registers a gateway order for the given total price in
// rupees. The gateway is paid in paise, so the amount is the total times
// one hundred.
func (s *PaymentService) CreateOrder(ctx context.Context, totalPrice float64) (*payment.Order, error) {
	if totalPrice <= 0 {
		return nil, apperrors.InvalidInput("total price must be greater than zero")
	}

	input := &payment.OrderInput{
		Amount:   int64(math.Round(totalPrice * 100)),
		Currency: orderCurrency,
		Receipt:  "receipt_" + uuid.New().String(),
	}

	order, err := s.gateway.CreateOrder(ctx, input)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "payment order created",
		slog.String("order_id", order.ID),
		slog.Int64("amount", order.Amount),
		slog.String("currency", order.Currency),
	)

	return order, nil
}

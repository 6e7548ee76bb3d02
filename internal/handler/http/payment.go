package http

import (
	"log/slog"
	"net/http"

	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/payment"
	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/service"
	"github.com/AshmeetSingh123/Qziners-EcommerceApp/pkg/httputil"
	"github.com/AshmeetSingh123/Qziners-EcommerceApp/pkg/validator"
)

// PaymentHandler handles HTTP requests for checkout endpoints.
type PaymentHandler struct {
	service *service.PaymentService
	logger  *slog.Logger
}

// NewPaymentHandler creates a new payment HTTP handler.
func NewPaymentHandler(svc *service.PaymentService, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: svc,
		logger:  logger,
	}
}

// ProcessPaymentRequest is the JSON request body for creating a payment
// order. The total price is in rupees.
type ProcessPaymentRequest struct {
	TotalPrice float64 `json:"totalPrice" validate:"required,gt=0"`
}

// OrderResponse wraps the gateway order a checkout attaches to.
type OrderResponse struct {
	Success bool           `json:"success"`
	Order   *payment.Order `json:"order"`
}

// ProcessPayment handles POST /api/v1/payment/process
func (h *PaymentHandler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	var req ProcessPaymentRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	order, err := h.service.CreateOrder(r.Context(), req.TotalPrice)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, OrderResponse{Success: true, Order: order})
}

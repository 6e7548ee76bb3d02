package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/AshmeetSingh123/Qziners-EcommerceApp/pkg/errors"
	"github.com/AshmeetSingh123/Qziners-EcommerceApp/pkg/httpclient"

	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/payment"
)

// Gateway implements payment.Gateway against the Razorpay orders API.
type Gateway struct {
	baseURL   string
	keyID     string
	keySecret string
	client    *httpclient.CircuitBreakerClient
}

// New creates a Razorpay-backed payment gateway.
func New(baseURL, keyID, keySecret string, client *httpclient.CircuitBreakerClient) *Gateway {
	return &Gateway{
		baseURL:   strings.TrimRight(baseURL, "/"),
		keyID:     keyID,
		keySecret: keySecret,
		client:    client,
	}
}

// Name returns the gateway name.
func (g *Gateway) Name() string {
	return "razorpay"
}

type orderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt,omitempty"`
}

type errorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder registers a new order with the gateway. A gateway-side
// rejection surfaces as an upstream error carrying the gateway's
// description.
func (g *Gateway) CreateOrder(ctx context.Context, input *payment.OrderInput) (*payment.Order, error) {
	payload, err := json.Marshal(orderRequest{
		Amount:   input.Amount,
		Currency: input.Currency,
		Receipt:  input.Receipt,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.keyID, g.keySecret)

	resp, err := g.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read order response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var errResp errorResponse
		message := "payment gateway rejected the order"
		if json.Unmarshal(body, &errResp) == nil && errResp.Error.Description != "" {
			message = errResp.Error.Description
		}
		return nil, apperrors.Upstream(g.Name(), message)
	}

	var order payment.Order
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("decode order response: %w", err)
	}

	return &order, nil
}

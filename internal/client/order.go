package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/vijay-dubey/QuickCart-Microservices-sub001/internal/domain"
	"github.com/vijay-dubey/QuickCart-Microservices-sub001/pkg/httpclient"
)

// OrderClient is the adapter for the order service. Placement failures are
// classified into the taxonomy the checkout state machine branches on:
// invalid address, empty cart, or transient.
type OrderClient struct {
	baseURL string
	http    HTTPDoer
	logger  *slog.Logger
}

// NewOrderClient creates an order service adapter.
func NewOrderClient(baseURL string, doer HTTPDoer, logger *slog.Logger) *OrderClient {
	return &OrderClient{baseURL: baseURL, http: doer, logger: logger}
}

type placeOrderRequest struct {
	ShippingAddressID string `json:"shipping_address_id"`
	PaymentMethod     string `json:"payment_method"`
}

type placeOrderResponse struct {
	Data struct {
		OrderID           string `json:"order_id"`
		ShippingAddressID string `json:"shipping_address_id"`
		PaymentMethod     string `json:"payment_method"`
		TotalAmount       int64  `json:"total_amount"`
		Items             []struct {
			ProductID string `json:"product_id"`
			Name      string `json:"name"`
			Price     int64  `json:"price"`
			Quantity  int    `json:"quantity"`
		} `json:"items"`
	} `json:"data"`
}

// Place submits the order. The request carries an Idempotency-Key header;
// the order service is the idempotency boundary, this client never
// deduplicates or auto-retries a placement.
func (c *OrderClient) Place(ctx context.Context, userID, addressID, paymentMethod, idempotencyKey string) (domain.PlacedOrder, error) {
	body, err := json.Marshal(placeOrderRequest{
		ShippingAddressID: addressID,
		PaymentMethod:     paymentMethod,
	})
	if err != nil {
		return domain.PlacedOrder{}, fmt.Errorf("marshal place order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/orders", bytes.NewReader(body))
	if err != nil {
		return domain.PlacedOrder{}, fmt.Errorf("create place order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(userHeader, userID)
	req.Header.Set("Idempotency-Key", idempotencyKey)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return domain.PlacedOrder{}, httpclient.ClassifyTransportError("order", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return domain.PlacedOrder{}, httpclient.ParseResponseError(resp, "order")
	}

	var wire placeOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return domain.PlacedOrder{}, fmt.Errorf("decode place order response: %w", err)
	}

	order := domain.PlacedOrder{
		ID:                wire.Data.OrderID,
		ShippingAddressID: wire.Data.ShippingAddressID,
		PaymentMethod:     wire.Data.PaymentMethod,
		TotalAmount:       wire.Data.TotalAmount,
	}
	order.Items = make([]domain.OrderItem, len(wire.Data.Items))
	for i, it := range wire.Data.Items {
		order.Items[i] = domain.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
		}
	}

	c.logger.InfoContext(ctx, "order placed",
		slog.String("order_id", order.ID),
		slog.String("payment_method", order.PaymentMethod),
	)

	return order, nil
}

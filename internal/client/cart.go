package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/vijay-dubey/QuickCart-Microservices-sub001/internal/domain"
	"github.com/vijay-dubey/QuickCart-Microservices-sub001/pkg/httpclient"
)

// CartClient is the adapter for the cart service.
type CartClient struct {
	baseURL string
	http    HTTPDoer
	logger  *slog.Logger
}

// NewCartClient creates a cart service adapter.
func NewCartClient(baseURL string, doer HTTPDoer, logger *slog.Logger) *CartClient {
	return &CartClient{baseURL: baseURL, http: doer, logger: logger}
}

type wireCart struct {
	Data struct {
		Items []struct {
			ProductID string `json:"product_id"`
			Name      string `json:"name"`
			Price     int64  `json:"price"`
			Quantity  int    `json:"quantity"`
			ImageURL  string `json:"image_url,omitempty"`
		} `json:"items"`
	} `json:"data"`
}

// Fetch retrieves the user's current cart. The aggregates are derived from
// the line items locally so the snapshot invariant (total price equals the
// sum of quantity x unit price) holds even if the service reports stale
// aggregate fields.
func (c *CartClient) Fetch(ctx context.Context, userID string) (domain.CartSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/cart", http.NoBody)
	if err != nil {
		return domain.CartSnapshot{}, fmt.Errorf("create fetch cart request: %w", err)
	}
	req.Header.Set(userHeader, userID)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return domain.CartSnapshot{}, httpclient.ClassifyTransportError("cart", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return domain.CartSnapshot{}, httpclient.ParseResponseError(resp, "cart")
	}

	var wire wireCart
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return domain.CartSnapshot{}, fmt.Errorf("decode cart response: %w", err)
	}

	items := make([]domain.CartItem, len(wire.Data.Items))
	for i, it := range wire.Data.Items {
		items[i] = domain.CartItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
			ImageURL:  it.ImageURL,
		}
	}

	return domain.NewCartSnapshot(items, time.Now().UTC()), nil
}

// Clear empties the user's cart. Called only after a confirmed order
// placement; a speculative clear would lose the cart on a failed submit.
func (c *CartClient) Clear(ctx context.Context, userID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/cart", http.NoBody)
	if err != nil {
		return fmt.Errorf("create clear cart request: %w", err)
	}
	req.Header.Set(userHeader, userID)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return httpclient.ClassifyTransportError("cart", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return httpclient.ParseResponseError(resp, "cart")
	}
	return nil
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijay-dubey/QuickCart-Microservices-sub001/internal/domain"
	"github.com/vijay-dubey/QuickCart-Microservices-sub001/internal/service"
	"github.com/vijay-dubey/QuickCart-Microservices-sub001/pkg/health"
	"github.com/vijay-dubey/QuickCart-Microservices-sub001/pkg/middleware"
)

type fakeAddressAPI struct {
	addresses []domain.Address
	listErr   error
	nextID    int
}

func (f *fakeAddressAPI) List(ctx context.Context, userID string) ([]domain.Address, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.Address, len(f.addresses))
	copy(out, f.addresses)
	return out, nil
}

func (f *fakeAddressAPI) Create(ctx context.Context, userID string, address domain.Address) (domain.Address, error) {
	f.nextID++
	address.ID = "a" + string(rune('0'+f.nextID))
	f.addresses = append(f.addresses, address)
	return address, nil
}

func (f *fakeAddressAPI) Update(ctx context.Context, userID, id string, address domain.Address) (domain.Address, error) {
	address.ID = id
	return address, nil
}

func (f *fakeAddressAPI) Delete(ctx context.Context, userID, id string) error {
	return nil
}

func (f *fakeAddressAPI) SetDefault(ctx context.Context, userID, id string) (domain.Address, error) {
	return domain.Address{ID: id, IsDefault: true}, nil
}

type fakeCartAPI struct {
	snapshot domain.CartSnapshot
	fetchErr error
}

func (f *fakeCartAPI) Fetch(ctx context.Context, userID string) (domain.CartSnapshot, error) {
	if f.fetchErr != nil {
		return domain.CartSnapshot{}, f.fetchErr
	}
	return f.snapshot, nil
}

func (f *fakeCartAPI) Clear(ctx context.Context, userID string) error {
	f.snapshot = domain.NewCartSnapshot(nil, time.Now().UTC())
	return nil
}

type fakeOrderAPI struct {
	order    domain.PlacedOrder
	placeErr error
	calls    int
}

func (f *fakeOrderAPI) Place(ctx context.Context, userID, addressID, paymentMethod, idempotencyKey string) (domain.PlacedOrder, error) {
	f.calls++
	if f.placeErr != nil {
		return domain.PlacedOrder{}, f.placeErr
	}
	return f.order, nil
}

func stubValidator(token string) (*middleware.Claims, error) {
	if token != "good-token" {
		return nil, errors.New("bad token")
	}
	return &middleware.Claims{UserID: "u1", Name: "Asha Rao", Email: "asha@example.com"}, nil
}

func newTestRouter(addressAPI *fakeAddressAPI, cartAPI *fakeCartAPI, orderAPI *fakeOrderAPI) http.Handler {
	checkout := service.NewCheckoutService(
		addressAPI, cartAPI, orderAPI,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		5*time.Second,
	)
	return NewRouter(RouterDeps{
		Checkout:      checkout,
		Health:        health.NewHandler(),
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		ValidateToken: stubValidator,
	})
}

func doRequest(t *testing.T, router http.Handler, method, path, token string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func defaultFakes() (*fakeAddressAPI, *fakeCartAPI, *fakeOrderAPI) {
	addressAPI := &fakeAddressAPI{addresses: []domain.Address{
		{ID: "a1", RecipientName: "Asha Rao"},
		{ID: "a2", RecipientName: "Asha Rao", IsDefault: true},
	}}
	cartAPI := &fakeCartAPI{snapshot: domain.NewCartSnapshot([]domain.CartItem{
		{ProductID: "p1", Name: "Widget", Price: 250, Quantity: 2},
		{ProductID: "p2", Name: "Gadget", Price: 500, Quantity: 1},
	}, time.Now().UTC())}
	orderAPI := &fakeOrderAPI{order: domain.PlacedOrder{ID: "order-1"}}
	return addressAPI, cartAPI, orderAPI
}

func TestRouter_Auth(t *testing.T) {
	router := newTestRouter(defaultFakes())

	t.Run("missing token is rejected", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/v1/profile", "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid token is rejected", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/v1/profile", "bad-token", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("health endpoints skip auth", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/health/live", "", "")
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = doRequest(t, router, http.MethodGet, "/health/ready", "", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("metrics endpoint skips auth", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/metrics", "", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRouter_Profile(t *testing.T) {
	router := newTestRouter(defaultFakes())

	rec := doRequest(t, router, http.MethodGet, "/api/v1/profile", "good-token", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data middleware.Claims `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "u1", resp.Data.UserID)
	assert.Equal(t, "Asha Rao", resp.Data.Name)
}

func TestRouter_Addresses(t *testing.T) {
	router := newTestRouter(defaultFakes())

	t.Run("list", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/v1/addresses", "good-token", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Data []domain.Address `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Data, 2)
	})

	t.Run("create validates input", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/api/v1/addresses", "good-token",
			`{"recipient_name":""}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("create", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/api/v1/addresses", "good-token",
			`{"recipient_name":"Asha Rao","phone":"9876543210","line1":"14 MG Road","street":"MG Road","city":"Bengaluru","state":"Karnataka","postal_code":"560001","country":"India"}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp struct {
			Data domain.Address `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Data.ID)
	})

	t.Run("set default", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/api/v1/addresses/a1/default", "good-token", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Data domain.Address `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Data.IsDefault)
	})

	t.Run("delete unknown id", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodDelete, "/api/v1/addresses/missing", "good-token", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRouter_Cart(t *testing.T) {
	router := newTestRouter(defaultFakes())

	rec := doRequest(t, router, http.MethodGet, "/api/v1/cart", "good-token", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Cart   domain.CartSnapshot `json:"cart"`
			Totals domain.CartTotals   `json:"totals"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1000), resp.Data.Cart.TotalPrice)
	assert.Equal(t, domain.CartTotals{Subtotal: 1000, Shipping: 90, Tax: 180, Total: 1270}, resp.Data.Totals)
}

func TestRouter_CheckoutFlow(t *testing.T) {
	addressAPI, cartAPI, orderAPI := defaultFakes()
	router := newTestRouter(addressAPI, cartAPI, orderAPI)

	t.Run("current without a session is not found", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/v1/checkout", "good-token", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	type sessionResponse struct {
		Data domain.CheckoutSession `json:"data"`
	}

	t.Run("enter reaches ready", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/api/v1/checkout", "good-token", "")
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp sessionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, domain.PhaseReady, resp.Data.Phase)
		assert.Equal(t, "a2", resp.Data.SelectedAddressID)
		assert.Equal(t, domain.PaymentCOD, resp.Data.PaymentMethod)
	})

	t.Run("select address and payment method", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPut, "/api/v1/checkout/address", "good-token",
			`{"address_id":"a1"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp sessionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "a1", resp.Data.SelectedAddressID)

		rec = doRequest(t, router, http.MethodPut, "/api/v1/checkout/payment", "good-token",
			`{"payment_method":"UPI"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, domain.PaymentUPI, resp.Data.PaymentMethod)
	})

	t.Run("unknown payment method is rejected", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPut, "/api/v1/checkout/payment", "good-token",
			`{"payment_method":"BARTER"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("submit succeeds and clears the cart", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/api/v1/checkout/submit", "good-token", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp sessionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, domain.PhaseSucceeded, resp.Data.Phase)
		assert.Equal(t, "order-1", resp.Data.OrderID)
		assert.Equal(t, 1, orderAPI.calls)
	})

	t.Run("leave discards the session", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodDelete, "/api/v1/checkout", "good-token", "")
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = doRequest(t, router, http.MethodGet, "/api/v1/checkout", "good-token", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("entering with an emptied cart is refused", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/api/v1/checkout", "good-token", "")
		assert.Equal(t, http.StatusConflict, rec.Code)

		var resp struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "EMPTY_CART", resp.Error.Code)
	})
}

func TestRouter_ContentType(t *testing.T) {
	router := newTestRouter(defaultFakes())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{}`))
	req.Header.Set("Authorization", "Bearer good-token")
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

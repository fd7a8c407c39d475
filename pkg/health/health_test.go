package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLivenessHandler(t *testing.T) {
	h := NewHandler()
	rec := httptest.NewRecorder()
	h.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, StatusUp, resp.Status)
}

func TestReadinessHandler(t *testing.T) {
	t.Run("all checks up", func(t *testing.T) {
		h := NewHandler()
		h.RegisterNonCritical("cart-service", func(ctx context.Context) error { return nil })

		rec := httptest.NewRecorder()
		h.ReadinessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, StatusUp, resp.Status)
		assert.Equal(t, StatusUp, resp.Checks["cart-service"].Status)
	})

	t.Run("failed non-critical check degrades", func(t *testing.T) {
		h := NewHandler()
		h.RegisterNonCritical("order-service", func(ctx context.Context) error {
			return errors.New("connection refused")
		})

		rec := httptest.NewRecorder()
		h.ReadinessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, StatusDegraded, resp.Status)
		assert.Equal(t, StatusDown, resp.Checks["order-service"].Status)
	})

	t.Run("failed critical check is not ready", func(t *testing.T) {
		h := NewHandler()
		h.RegisterCritical("auth", func(ctx context.Context) error {
			return errors.New("down")
		})
		h.RegisterNonCritical("cart-service", func(ctx context.Context) error { return nil })

		rec := httptest.NewRecorder()
		h.ReadinessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var resp Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, StatusDown, resp.Status)
	})
}

package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijay-dubey/QuickCart-Microservices-sub001/pkg/logger"
)

func TestRequestLogging(t *testing.T) {
	t.Run("assigns a correlation id", func(t *testing.T) {
		var buf bytes.Buffer
		base := logger.NewWithWriter("test", "info", &buf)

		handler := RequestLogging(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.NotEmpty(t, logger.CorrelationIDFromContext(r.Context()))
			w.WriteHeader(http.StatusOK)
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cart", nil))

		assert.NotEmpty(t, rec.Header().Get("X-Correlation-ID"))

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "http request", entry["msg"])
		assert.Equal(t, "/cart", entry["path"])
		assert.Equal(t, float64(http.StatusOK), entry["status"])
	})

	t.Run("propagates an incoming correlation id", func(t *testing.T) {
		var buf bytes.Buffer
		base := logger.NewWithWriter("test", "info", &buf)

		handler := RequestLogging(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Correlation-ID", "corr-42")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "corr-42", rec.Header().Get("X-Correlation-ID"))

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "corr-42", entry["correlation_id"])
	})
}

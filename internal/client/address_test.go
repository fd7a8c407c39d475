package client

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijay-dubey/QuickCart-Microservices-sub001/internal/domain"
	apperrors "github.com/vijay-dubey/QuickCart-Microservices-sub001/pkg/errors"
	"github.com/vijay-dubey/QuickCart-Microservices-sub001/pkg/httpclient"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testDoer() HTTPDoer {
	cfg := httpclient.DefaultConfig()
	cfg.MaxRetries = 0
	return httpclient.New(cfg)
}

func TestAddressClient_List(t *testing.T) {
	t.Run("decodes both wire naming conventions", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/api/addresses", r.URL.Path)
			assert.Equal(t, "u1", r.Header.Get("X-User-ID"))

			// One address per naming convention the backend has shipped.
			_, _ = w.Write([]byte(`{"data":[
				{"id":"a1","recipient_name":"Asha Rao","postal_code":"560001","is_default":true},
				{"id":"a2","name":"Asha Rao","zip_code":"560002"}
			]}`))
		}))
		defer server.Close()

		c := NewAddressClient(server.URL, testDoer(), testLogger())
		addresses, err := c.List(context.Background(), "u1")

		require.NoError(t, err)
		require.Len(t, addresses, 2)
		assert.Equal(t, "Asha Rao", addresses[0].RecipientName)
		assert.Equal(t, "560001", addresses[0].PostalCode)
		assert.True(t, addresses[0].IsDefault)
		assert.Equal(t, "Asha Rao", addresses[1].RecipientName)
		assert.Equal(t, "560002", addresses[1].PostalCode)
		assert.False(t, addresses[1].IsDefault)
	})

	t.Run("canonical names win when both are present", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"data":[
				{"id":"a1","recipient_name":"Asha Rao","name":"Legacy Name","postal_code":"560001","zip_code":"999999"}
			]}`))
		}))
		defer server.Close()

		c := NewAddressClient(server.URL, testDoer(), testLogger())
		addresses, err := c.List(context.Background(), "u1")

		require.NoError(t, err)
		require.Len(t, addresses, 1)
		assert.Equal(t, "Asha Rao", addresses[0].RecipientName)
		assert.Equal(t, "560001", addresses[0].PostalCode)
	})

	t.Run("server error is transient", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		c := NewAddressClient(server.URL, testDoer(), testLogger())
		_, err := c.List(context.Background(), "u1")

		assert.ErrorIs(t, err, apperrors.ErrTransient)
	})
}

func TestAddressClient_Create(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/addresses", r.URL.Path)

		var wire map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&wire))
		// Canonical names on the way out, never the legacy ones.
		assert.Equal(t, "Asha Rao", wire["recipient_name"])
		assert.Equal(t, "560001", wire["postal_code"])
		assert.NotContains(t, wire, "zip_code")

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"a1","recipient_name":"Asha Rao","postal_code":"560001"}}`))
	}))
	defer server.Close()

	c := NewAddressClient(server.URL, testDoer(), testLogger())
	created, err := c.Create(context.Background(), "u1", domain.Address{
		RecipientName: "Asha Rao",
		PostalCode:    "560001",
	})

	require.NoError(t, err)
	assert.Equal(t, "a1", created.ID)
}

func TestAddressClient_SetDefault(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/addresses/a2/default", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":{"id":"a2","recipient_name":"Asha Rao","is_default":true}}`))
	}))
	defer server.Close()

	c := NewAddressClient(server.URL, testDoer(), testLogger())
	updated, err := c.SetDefault(context.Background(), "u1", "a2")

	require.NoError(t, err)
	assert.Equal(t, "a2", updated.ID)
	assert.True(t, updated.IsDefault)
}

func TestAddressClient_Delete(t *testing.T) {
	t.Run("not found maps to the sentinel", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"code":"NOT_FOUND","message":"address missing"}}`))
		}))
		defer server.Close()

		c := NewAddressClient(server.URL, testDoer(), testLogger())
		err := c.Delete(context.Background(), "u1", "missing")

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("no content is success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		c := NewAddressClient(server.URL, testDoer(), testLogger())
		assert.NoError(t, c.Delete(context.Background(), "u1", "a1"))
	})
}

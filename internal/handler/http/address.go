package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vijay-dubey/QuickCart-Microservices-sub001/internal/service"
	"github.com/vijay-dubey/QuickCart-Microservices-sub001/internal/store"
	apperrors "github.com/vijay-dubey/QuickCart-Microservices-sub001/pkg/errors"
	"github.com/vijay-dubey/QuickCart-Microservices-sub001/pkg/httputil"
	"github.com/vijay-dubey/QuickCart-Microservices-sub001/pkg/middleware"
)

// AddressHandler exposes the saved-address book over HTTP.
type AddressHandler struct {
	checkout *service.CheckoutService
	logger   *slog.Logger
}

// NewAddressHandler creates a new address handler.
func NewAddressHandler(checkout *service.CheckoutService, logger *slog.Logger) *AddressHandler {
	return &AddressHandler{checkout: checkout, logger: logger}
}

// RegisterRoutes registers address routes on the router.
func (h *AddressHandler) RegisterRoutes(r chi.Router) {
	r.Route("/addresses", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Put("/{addressID}", h.Update)
		r.Delete("/{addressID}", h.Delete)
		r.Post("/{addressID}/default", h.SetDefault)
	})
}

// List handles GET /api/v1/addresses.
func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	addresses := h.addressStore(r)

	loaded, err := addresses.Load(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: loaded})
}

// Create handles POST /api/v1/addresses.
func (h *AddressHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input store.CreateAddressInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httputil.WriteError(w, r, apperrors.Validation("invalid request body"), h.logger)
		return
	}

	created, err := h.addressStore(r).Create(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: created})
}

// Update handles PUT /api/v1/addresses/{addressID}.
func (h *AddressHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input store.CreateAddressInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httputil.WriteError(w, r, apperrors.Validation("invalid request body"), h.logger)
		return
	}

	updated, err := h.addressStore(r).Update(r.Context(), chi.URLParam(r, "addressID"), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: updated})
}

// Delete handles DELETE /api/v1/addresses/{addressID}.
func (h *AddressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.addressStore(r).Delete(r.Context(), chi.URLParam(r, "addressID")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetDefault handles POST /api/v1/addresses/{addressID}/default.
func (h *AddressHandler) SetDefault(w http.ResponseWriter, r *http.Request) {
	updated, err := h.addressStore(r).SetDefault(r.Context(), chi.URLParam(r, "addressID"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: updated})
}

func (h *AddressHandler) addressStore(r *http.Request) *store.AddressStore {
	return h.checkout.AddressStore(middleware.UserIDFromContext(r.Context()))
}

package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vijay-dubey/QuickCart-Microservices-sub001/internal/service"
	apperrors "github.com/vijay-dubey/QuickCart-Microservices-sub001/pkg/errors"
	"github.com/vijay-dubey/QuickCart-Microservices-sub001/pkg/httputil"
	"github.com/vijay-dubey/QuickCart-Microservices-sub001/pkg/middleware"
)

// CheckoutHandler drives the checkout session state machine over HTTP.
type CheckoutHandler struct {
	checkout *service.CheckoutService
	logger   *slog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(checkout *service.CheckoutService, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, logger: logger}
}

// RegisterRoutes registers checkout routes on the router.
func (h *CheckoutHandler) RegisterRoutes(r chi.Router) {
	r.Route("/checkout", func(r chi.Router) {
		r.Post("/", h.Enter)
		r.Get("/", h.Current)
		r.Post("/retry", h.RetryLoad)
		r.Put("/address", h.SelectAddress)
		r.Put("/payment", h.SetPaymentMethod)
		r.Post("/submit", h.Submit)
		r.Delete("/", h.Leave)
	})
}

// Enter handles POST /api/v1/checkout.
func (h *CheckoutHandler) Enter(w http.ResponseWriter, r *http.Request) {
	sess, err := h.checkout.Enter(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: sess})
}

// Current handles GET /api/v1/checkout.
func (h *CheckoutHandler) Current(w http.ResponseWriter, r *http.Request) {
	sess, err := h.checkout.Current(middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sess})
}

// RetryLoad handles POST /api/v1/checkout/retry.
func (h *CheckoutHandler) RetryLoad(w http.ResponseWriter, r *http.Request) {
	sess, err := h.checkout.RetryLoad(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sess})
}

type selectAddressRequest struct {
	AddressID string `json:"address_id"`
}

// SelectAddress handles PUT /api/v1/checkout/address.
func (h *CheckoutHandler) SelectAddress(w http.ResponseWriter, r *http.Request) {
	var req selectAddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AddressID == "" {
		httputil.WriteError(w, r, apperrors.Validation("address_id is required"), h.logger)
		return
	}

	sess, err := h.checkout.SelectAddress(middleware.UserIDFromContext(r.Context()), req.AddressID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sess})
}

type setPaymentRequest struct {
	PaymentMethod string `json:"payment_method"`
}

// SetPaymentMethod handles PUT /api/v1/checkout/payment.
func (h *CheckoutHandler) SetPaymentMethod(w http.ResponseWriter, r *http.Request) {
	var req setPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PaymentMethod == "" {
		httputil.WriteError(w, r, apperrors.Validation("payment_method is required"), h.logger)
		return
	}

	sess, err := h.checkout.SetPaymentMethod(middleware.UserIDFromContext(r.Context()), req.PaymentMethod)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sess})
}

// Submit handles POST /api/v1/checkout/submit.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sess, err := h.checkout.Submit(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sess})
}

// Leave handles DELETE /api/v1/checkout.
func (h *CheckoutHandler) Leave(w http.ResponseWriter, r *http.Request) {
	if err := h.checkout.Leave(middleware.UserIDFromContext(r.Context())); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

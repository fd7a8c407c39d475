package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vijay-dubey/QuickCart-Microservices-sub001/internal/domain"
	"github.com/vijay-dubey/QuickCart-Microservices-sub001/internal/service"
	"github.com/vijay-dubey/QuickCart-Microservices-sub001/pkg/httputil"
	"github.com/vijay-dubey/QuickCart-Microservices-sub001/pkg/middleware"
)

// CartHandler exposes the user's cart snapshot with checkout totals.
type CartHandler struct {
	checkout *service.CheckoutService
	logger   *slog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(checkout *service.CheckoutService, logger *slog.Logger) *CartHandler {
	return &CartHandler{checkout: checkout, logger: logger}
}

// RegisterRoutes registers cart routes on the router.
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Get("/cart", h.Get)
}

type cartResponse struct {
	Cart   domain.CartSnapshot `json:"cart"`
	Totals domain.CartTotals   `json:"totals"`
}

// Get handles GET /api/v1/cart. The snapshot is always re-fetched so the
// storefront never renders a stale cart on its cart page.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	cart := h.checkout.CartStore(middleware.UserIDFromContext(r.Context()))

	snapshot, err := cart.Refresh(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cartResponse{
		Cart:   snapshot,
		Totals: domain.Totals(snapshot),
	}})
}

package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/vijay-dubey/QuickCart-Microservices-sub001/pkg/errors"
	"github.com/vijay-dubey/QuickCart-Microservices-sub001/pkg/httputil"
	"github.com/vijay-dubey/QuickCart-Microservices-sub001/pkg/middleware"
)

// ProfileHandler exposes the token-derived profile used to prefill
// recipient fields on new address forms.
type ProfileHandler struct {
	logger *slog.Logger
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{logger: logger}
}

// RegisterRoutes registers profile routes on the router.
func (h *ProfileHandler) RegisterRoutes(r chi.Router) {
	r.Get("/profile", h.Get)
}

// Get handles GET /api/v1/profile.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.Unauthorized("authentication required"), h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: claims})
}

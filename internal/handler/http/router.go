package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vijay-dubey/QuickCart-Microservices-sub001/internal/service"
	"github.com/vijay-dubey/QuickCart-Microservices-sub001/pkg/health"
	"github.com/vijay-dubey/QuickCart-Microservices-sub001/pkg/middleware"
)

const serviceName = "checkout-service"

// RouterDeps carries everything the router needs.
type RouterDeps struct {
	Checkout      *service.CheckoutService
	Health        *health.Handler
	Logger        *slog.Logger
	ValidateToken middleware.TokenValidator
}

// NewRouter builds the HTTP router with middleware and all routes.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogging(deps.Logger))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(CORS)
	r.Use(ContentTypeJSON)

	r.Get("/health/live", deps.Health.LivenessHandler())
	r.Get("/health/ready", deps.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(deps.ValidateToken))

		NewProfileHandler(deps.Logger).RegisterRoutes(r)
		NewAddressHandler(deps.Checkout, deps.Logger).RegisterRoutes(r)
		NewCartHandler(deps.Checkout, deps.Logger).RegisterRoutes(r)
		NewCheckoutHandler(deps.Checkout, deps.Logger).RegisterRoutes(r)
	})

	return r
}

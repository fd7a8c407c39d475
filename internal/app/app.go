package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/vijay-dubey/QuickCart-Microservices-sub001/internal/auth"
	"github.com/vijay-dubey/QuickCart-Microservices-sub001/internal/client"
	"github.com/vijay-dubey/QuickCart-Microservices-sub001/internal/config"
	handler "github.com/vijay-dubey/QuickCart-Microservices-sub001/internal/handler/http"
	"github.com/vijay-dubey/QuickCart-Microservices-sub001/internal/service"
	"github.com/vijay-dubey/QuickCart-Microservices-sub001/pkg/health"
	"github.com/vijay-dubey/QuickCart-Microservices-sub001/pkg/httpclient"
	"github.com/vijay-dubey/QuickCart-Microservices-sub001/pkg/tracing"
)

// App wires the checkout service together and owns its lifecycle.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	server          *http.Server
	tracingShutdown func(context.Context) error
}

// NewApp builds the application from configuration.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	tracingShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:  "checkout-service",
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTELEndpoint,
		SampleRate:   cfg.OTELSampleRate,
		Enabled:      cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	httpCfg := httpclient.DefaultConfig()
	httpCfg.Timeout = time.Duration(cfg.ClientTimeoutSecs) * time.Second
	httpCfg.MaxRetries = cfg.ClientMaxRetries
	base := httpclient.New(httpCfg)

	// One breaker per downstream: an order service outage must not open the
	// breaker in front of the address book.
	addressDoer := newBreakerClient(base, cfg, "address-service", logger)
	cartDoer := newBreakerClient(base, cfg, "cart-service", logger)
	orderDoer := newBreakerClient(base, cfg, "order-service", logger)

	addressClient := client.NewAddressClient(cfg.AddressServiceURL, addressDoer, logger)
	cartClient := client.NewCartClient(cfg.CartServiceURL, cartDoer, logger)
	orderClient := client.NewOrderClient(cfg.OrderServiceURL, orderDoer, logger)

	checkout := service.NewCheckoutService(
		addressClient,
		cartClient,
		orderClient,
		logger,
		time.Duration(cfg.SubmitTimeoutSecs)*time.Second,
	)

	healthHandler := health.NewHandler()
	// Downstream probes are non-critical: the address book stays usable
	// while the order service is down.
	healthHandler.RegisterNonCritical("address-service", probeDownstream(base, cfg.AddressServiceURL))
	healthHandler.RegisterNonCritical("cart-service", probeDownstream(base, cfg.CartServiceURL))
	healthHandler.RegisterNonCritical("order-service", probeDownstream(base, cfg.OrderServiceURL))

	validator := auth.NewJWTValidator(cfg.JWTSecret)

	router := handler.NewRouter(handler.RouterDeps{
		Checkout:      checkout,
		Health:        healthHandler,
		Logger:        logger,
		ValidateToken: validator.Validate,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &App{
		cfg:             cfg,
		logger:          logger,
		server:          server,
		tracingShutdown: tracingShutdown,
	}, nil
}

func newBreakerClient(base *httpclient.Client, cfg *config.Config, name string, logger *slog.Logger) *httpclient.CircuitBreakerClient {
	cbCfg := httpclient.CircuitBreakerConfig{
		Name:         name,
		MaxRequests:  cfg.CBMaxRequests,
		Interval:     time.Duration(cfg.CBInterval) * time.Second,
		Timeout:      time.Duration(cfg.CBTimeout) * time.Second,
		FailureRatio: cfg.CBFailureRatio,
		MinRequests:  cfg.CBMinRequests,
	}
	return httpclient.NewCircuitBreakerClient(base, cbCfg, logger)
}

// probeDownstream checks a downstream's liveness endpoint. Probes bypass the
// circuit breakers so readiness reflects the service itself, not the breaker.
func probeDownstream(c *httpclient.Client, baseURL string) health.Checker {
	return func(ctx context.Context) error {
		resp, err := c.Get(ctx, baseURL+"/health/live")
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		return nil
	}
}

// Run starts the HTTP server and blocks until the context is cancelled or
// the server fails.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("checkout service listening",
			slog.String("addr", a.server.Addr),
			slog.String("environment", a.cfg.Environment),
		)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		return a.Shutdown()
	}
}

// Shutdown drains in-flight requests and flushes telemetry.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down checkout service")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	if err := a.tracingShutdown(ctx); err != nil {
		a.logger.Warn("tracer shutdown failed", slog.String("error", err.Error()))
	}
	return nil
}

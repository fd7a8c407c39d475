package config

import (
	"fmt"
	"net/url"

	pkgconfig "github.com/vijay-dubey/QuickCart-Microservices-sub001/pkg/config"
)

// Config holds all configuration for the checkout service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"CHECKOUT_HTTP_PORT" envDefault:"8006"`

	// Auth
	JWTSecret string `env:"JWT_SECRET" envDefault:"dev_secret_change_me"`

	// Downstream service URLs
	AddressServiceURL string `env:"ADDRESS_SERVICE_URL" envDefault:"http://localhost:8001"`
	CartServiceURL    string `env:"CART_SERVICE_URL" envDefault:"http://localhost:8002"`
	OrderServiceURL   string `env:"ORDER_SERVICE_URL" envDefault:"http://localhost:8003"`

	// HTTP client
	ClientTimeoutSecs int `env:"HTTP_CLIENT_TIMEOUT_SECONDS" envDefault:"10"`
	ClientMaxRetries  int `env:"HTTP_CLIENT_MAX_RETRIES" envDefault:"3"`

	// Order submission wait budget. A placement already sent cannot be
	// cancelled client-side, so the session waits up to this long for a
	// resolution.
	SubmitTimeoutSecs int `env:"SUBMIT_TIMEOUT_SECONDS" envDefault:"30"`

	// Circuit breaker settings for downstream calls
	CBMaxRequests  uint32  `env:"CB_MAX_REQUESTS" envDefault:"1"`
	CBInterval     int     `env:"CB_INTERVAL_SECONDS" envDefault:"60"`
	CBTimeout      int     `env:"CB_TIMEOUT_SECONDS" envDefault:"30"`
	CBFailureRatio float64 `env:"CB_FAILURE_RATIO" envDefault:"0.5"`
	CBMinRequests  uint32  `env:"CB_MIN_REQUESTS" envDefault:"5"`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load checkout config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate)
	}
	if c.SubmitTimeoutSecs < 1 {
		return fmt.Errorf("SUBMIT_TIMEOUT_SECONDS must be positive")
	}
	for name, rawURL := range map[string]string{
		"ADDRESS_SERVICE_URL": c.AddressServiceURL,
		"CART_SERVICE_URL":    c.CartServiceURL,
		"ORDER_SERVICE_URL":   c.OrderServiceURL,
	} {
		if rawURL == "" {
			return fmt.Errorf("%s is required", name)
		}
		if _, err := url.ParseRequestURI(rawURL); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, rawURL, err)
		}
	}
	return nil
}

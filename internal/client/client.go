package client

import (
	"context"
	"net/http"
)

// HTTPDoer executes HTTP requests. Both httpclient.Client and
// httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// userHeader carries the authenticated user identity to the downstream
// QuickCart services, which trust the gateway-validated identity header.
const userHeader = "X-User-ID"

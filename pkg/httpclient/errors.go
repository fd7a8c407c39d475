package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	apperrors "github.com/vijay-dubey/QuickCart-Microservices-sub001/pkg/errors"
)

// DownstreamErrorResponse mirrors the error envelope returned by the
// QuickCart backend services.
type DownstreamErrorResponse struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ClassifyTransportError maps a transport-level failure (connection refused,
// timeout, canceled context) onto the app error taxonomy. Everything except
// an explicit cancellation is classified as transient and therefore safe for
// a fresh user-initiated retry.
func ClassifyTransportError(serviceName string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.As(err, &netErr) {
		return apperrors.Transient(fmt.Sprintf("%s did not respond: %v", serviceName, err))
	}
	return apperrors.Transient(fmt.Sprintf("%s call failed: %v", serviceName, err))
}

// ParseResponseError reads the body of a non-2xx HTTP response and translates
// it into the app error taxonomy. Well-known downstream error codes
// (EMPTY_CART, INVALID_ADDRESS, NOT_FOUND, VALIDATION_ERROR) are preserved so
// callers can branch on the sentinel; anything else falls back to a mapping
// by status code. The response body is fully consumed and closed.
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apperrors.Transient(fmt.Sprintf("%s returned status %d (unreadable body: %v)", serviceName, resp.StatusCode, err))
	}

	var downstream DownstreamErrorResponse
	if json.Unmarshal(bodyBytes, &downstream) == nil && downstream.Error != nil {
		return mapDownstreamError(resp.StatusCode, downstream.Error.Code, downstream.Error.Message, serviceName)
	}

	return mapDownstreamError(resp.StatusCode, "", string(bodyBytes), serviceName)
}

func mapDownstreamError(status int, code, message, serviceName string) error {
	qualified := fmt.Sprintf("%s: %s", serviceName, message)

	switch code {
	case "EMPTY_CART":
		return apperrors.EmptyCart(qualified)
	case "INVALID_ADDRESS":
		return apperrors.InvalidAddress(qualified)
	case "NOT_FOUND":
		return apperrors.NotFound(serviceName, message)
	case "VALIDATION_ERROR", "INVALID_INPUT":
		return apperrors.Validation(qualified)
	}

	switch {
	case status == http.StatusNotFound:
		return apperrors.NotFound(serviceName, message)
	case status == http.StatusBadRequest:
		return apperrors.Validation(qualified)
	case status == http.StatusUnauthorized:
		return apperrors.Unauthorized(qualified)
	case status == http.StatusConflict:
		return apperrors.Conflict(qualified)
	case status == http.StatusUnprocessableEntity:
		return apperrors.InvalidAddress(qualified)
	case status >= 500:
		return apperrors.Transient(fmt.Sprintf("%s server error (%d): %s", serviceName, status, message))
	default:
		return &apperrors.AppError{
			Code:    code,
			Message: qualified,
			Status:  status,
		}
	}
}

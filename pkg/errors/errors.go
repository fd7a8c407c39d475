package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the checkout error taxonomy. Local-guard failures
// (ErrValidation, ErrMissingAddress, ErrEmptyCart) are detected before any
// network call; ErrInvalidAddress and ErrTransient classify server-reported
// submission failures.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrValidation     = errors.New("validation failed")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrConflict       = errors.New("conflict")
	ErrMissingAddress = errors.New("no shipping address selected")
	ErrEmptyCart      = errors.New("cart is empty")
	ErrInvalidAddress = errors.New("address rejected by order service")
	ErrTransient      = errors.New("transient upstream failure")
	ErrLoadFailed     = errors.New("resource load failed")
	ErrInternal       = errors.New("internal error")
)

// AppError is a structured application error with an HTTP status mapping.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a 404 error for a missing entity.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with id %s not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// Validation creates a 400 error for client-detectable invalid input.
// Validation failures never reach the network.
func Validation(message string) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrValidation,
	}
}

// Unauthorized creates a 401 error.
func Unauthorized(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     ErrUnauthorized,
	}
}

// Conflict creates a 409 error.
func Conflict(message string) *AppError {
	return &AppError{
		Code:    "CONFLICT",
		Message: message,
		Status:  http.StatusConflict,
		Err:     ErrConflict,
	}
}

// MissingAddress creates a 422 error for a submit attempt without a
// selected shipping address. This is a local guard; no request is sent.
func MissingAddress() *AppError {
	return &AppError{
		Code:    "MISSING_ADDRESS",
		Message: "a shipping address must be selected before placing an order",
		Status:  http.StatusUnprocessableEntity,
		Err:     ErrMissingAddress,
	}
}

// EmptyCart creates a 409 error for checkout against an empty cart,
// either detected locally on entry or reported by the order service.
func EmptyCart(message string) *AppError {
	return &AppError{
		Code:    "EMPTY_CART",
		Message: message,
		Status:  http.StatusConflict,
		Err:     ErrEmptyCart,
	}
}

// InvalidAddress creates a 422 error for an address id the order service
// rejected (e.g. deleted concurrently in another session).
func InvalidAddress(message string) *AppError {
	return &AppError{
		Code:    "INVALID_ADDRESS",
		Message: message,
		Status:  http.StatusUnprocessableEntity,
		Err:     ErrInvalidAddress,
	}
}

// Transient creates a 503 error for a retry-safe network/timeout failure.
// The core never retries automatically; retry is a fresh user action.
func Transient(message string) *AppError {
	return &AppError{
		Code:    "TRANSIENT_ERROR",
		Message: message,
		Status:  http.StatusServiceUnavailable,
		Err:     ErrTransient,
	}
}

// LoadFailed creates a 503 error signalling that a resource fetch failed
// and the caller should surface a retry affordance.
func LoadFailed(resource string, err error) *AppError {
	return &AppError{
		Code:    "LOAD_FAILED",
		Message: fmt.Sprintf("failed to load %s", resource),
		Status:  http.StatusServiceUnavailable,
		Err:     fmt.Errorf("%w: %w", ErrLoadFailed, err),
	}
}

// Internal creates a 500 error.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// Wrap adds context to an error while preserving its classification.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrConflict), errors.Is(err, ErrEmptyCart):
		return http.StatusConflict
	case errors.Is(err, ErrMissingAddress), errors.Is(err, ErrInvalidAddress):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrTransient), errors.Is(err, ErrLoadFailed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// IsRetryable reports whether the error is safe for a user-initiated retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransient) || errors.Is(err, ErrLoadFailed)
}

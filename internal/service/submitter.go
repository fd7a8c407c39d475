package service

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vijay-dubey/QuickCart-Microservices-sub001/internal/domain"
	apperrors "github.com/vijay-dubey/QuickCart-Microservices-sub001/pkg/errors"
)

var (
	orderPlacementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_order_placements_total",
			Help: "Total order placement attempts by outcome",
		},
		[]string{"outcome"},
	)

	orderPlacementDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "checkout_order_placement_duration_seconds",
			Help:    "Order placement round-trip duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// OrderAPI is the slice of the order service adapter the submitter needs.
type OrderAPI interface {
	Place(ctx context.Context, userID, addressID, paymentMethod, idempotencyKey string) (domain.PlacedOrder, error)
}

// OrderSubmitter wraps order placement with an at-most-one-in-flight guard
// and failure classification. Each attempt carries a fresh idempotency key;
// the order service is the idempotency boundary, and the client never
// retries a placement on its own.
type OrderSubmitter struct {
	api      OrderAPI
	logger   *slog.Logger
	inFlight atomic.Bool
}

// NewOrderSubmitter creates an order submitter.
func NewOrderSubmitter(api OrderAPI, logger *slog.Logger) *OrderSubmitter {
	return &OrderSubmitter{api: api, logger: logger}
}

// ErrSubmissionInFlight is returned when a placement is already running.
// Callers coalesce this into a no-op rather than queueing a duplicate.
var ErrSubmissionInFlight = errors.New("order submission already in flight")

// InFlight reports whether a placement is currently running.
func (s *OrderSubmitter) InFlight() bool {
	return s.inFlight.Load()
}

// Place submits the order exactly once. Failures come back classified as
// ErrInvalidAddress, ErrEmptyCart, or ErrTransient so the session state
// machine can pick the right recovery transition.
func (s *OrderSubmitter) Place(ctx context.Context, userID, addressID, paymentMethod string) (domain.PlacedOrder, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return domain.PlacedOrder{}, ErrSubmissionInFlight
	}
	defer s.inFlight.Store(false)

	key := uuid.New().String()
	start := time.Now()

	order, err := s.api.Place(ctx, userID, addressID, paymentMethod, key)
	orderPlacementDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		orderPlacementsTotal.WithLabelValues(outcomeLabel(err)).Inc()
		s.logger.WarnContext(ctx, "order placement failed",
			slog.String("address_id", addressID),
			slog.String("payment_method", paymentMethod),
			slog.String("idempotency_key", key),
			slog.String("error", err.Error()),
		)
		return domain.PlacedOrder{}, err
	}

	orderPlacementsTotal.WithLabelValues("success").Inc()
	s.logger.InfoContext(ctx, "order placement confirmed",
		slog.String("order_id", order.ID),
		slog.String("idempotency_key", key),
	)

	return order, nil
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrInvalidAddress):
		return "invalid_address"
	case errors.Is(err, apperrors.ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, apperrors.ErrTransient):
		return "transient"
	default:
		return "error"
	}
}

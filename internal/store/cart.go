package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/vijay-dubey/QuickCart-Microservices-sub001/internal/domain"
	apperrors "github.com/vijay-dubey/QuickCart-Microservices-sub001/pkg/errors"
)

// CartAPI is the slice of the cart service adapter the store needs.
type CartAPI interface {
	Fetch(ctx context.Context, userID string) (domain.CartSnapshot, error)
	Clear(ctx context.Context, userID string) error
}

// CartStore holds the last successfully fetched cart snapshot for one user.
// The snapshot is never recomputed from partial data: a failed refresh keeps
// the previous snapshot current.
type CartStore struct {
	mu     sync.Mutex
	userID string
	api    CartAPI
	logger *slog.Logger

	snapshot domain.CartSnapshot
	fetched  bool
}

// NewCartStore creates a cart store for the given user.
func NewCartStore(userID string, api CartAPI, logger *slog.Logger) *CartStore {
	return &CartStore{
		userID: userID,
		api:    api,
		logger: logger,
	}
}

// Refresh fetches the cart from the cart service. On failure the previous
// snapshot is retained and ErrLoadFailed is signalled.
func (s *CartStore) Refresh(ctx context.Context) (domain.CartSnapshot, error) {
	snapshot, err := s.api.Fetch(ctx, s.userID)
	if err != nil {
		s.logger.WarnContext(ctx, "cart refresh failed",
			slog.String("error", err.Error()),
		)
		return domain.CartSnapshot{}, apperrors.LoadFailed("cart", err)
	}

	s.mu.Lock()
	s.snapshot = snapshot
	s.fetched = true
	s.mu.Unlock()

	return snapshot, nil
}

// Current returns the latest known cart and whether a fetch has succeeded.
func (s *CartStore) Current() (domain.CartSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot, s.fetched
}

// Clear empties the cart after a confirmed order. The local snapshot is
// emptied only when the service confirms; the caller decides whether a
// failure is fatal (after a placed order it never is).
func (s *CartStore) Clear(ctx context.Context) error {
	if err := s.api.Clear(ctx, s.userID); err != nil {
		return err
	}

	s.mu.Lock()
	s.snapshot = domain.NewCartSnapshot(nil, time.Now().UTC())
	s.mu.Unlock()

	return nil
}

package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/vijay-dubey/QuickCart-Microservices-sub001/internal/domain"
	apperrors "github.com/vijay-dubey/QuickCart-Microservices-sub001/pkg/errors"
	"github.com/vijay-dubey/QuickCart-Microservices-sub001/pkg/validator"
)

// AddressAPI is the slice of the address service adapter the store needs.
type AddressAPI interface {
	List(ctx context.Context, userID string) ([]domain.Address, error)
	Create(ctx context.Context, userID string, address domain.Address) (domain.Address, error)
	Update(ctx context.Context, userID, id string, address domain.Address) (domain.Address, error)
	Delete(ctx context.Context, userID, id string) error
	SetDefault(ctx context.Context, userID, id string) (domain.Address, error)
}

// AddressStore is the client-side cache of one user's saved addresses.
//
// All mutations go through the address service first and touch the cache
// only on success, so a failed mutation leaves the pre-mutation view intact.
// Default-flag mutations are serialized by the store mutex: two concurrent
// SetDefault calls can never leave two defaults in the cache.
type AddressStore struct {
	mu     sync.Mutex
	userID string
	api    AddressAPI
	logger *slog.Logger

	addresses []domain.Address
	loaded    bool
}

// NewAddressStore creates an address store for the given user.
func NewAddressStore(userID string, api AddressAPI, logger *slog.Logger) *AddressStore {
	return &AddressStore{
		userID: userID,
		api:    api,
		logger: logger,
	}
}

// CreateAddressInput carries the fields for creating or updating an address.
// Required fields are validated locally; a validation failure never reaches
// the network.
type CreateAddressInput struct {
	RecipientName string `json:"recipient_name" validate:"required"`
	Phone         string `json:"phone" validate:"required,min=10,max=15"`
	Email         string `json:"email" validate:"omitempty,email"`
	Line1         string `json:"line1" validate:"required"`
	Line2         string `json:"line2"`
	Street        string `json:"street" validate:"required"`
	City          string `json:"city" validate:"required"`
	State         string `json:"state" validate:"required"`
	PostalCode    string `json:"postal_code" validate:"required,min=4,max=10"`
	Country       string `json:"country" validate:"required"`
	Landmark      string `json:"landmark"`
	Category      string `json:"category" validate:"omitempty,oneof=HOME OFFICE OTHER"`
	IsDefault     bool   `json:"is_default"`
}

func (in CreateAddressInput) toDomain() domain.Address {
	category := in.Category
	if category == "" {
		category = domain.CategoryHome
	}
	return domain.Address{
		RecipientName: in.RecipientName,
		Phone:         in.Phone,
		Email:         in.Email,
		Line1:         in.Line1,
		Line2:         in.Line2,
		Street:        in.Street,
		City:          in.City,
		State:         in.State,
		PostalCode:    in.PostalCode,
		Country:       in.Country,
		Landmark:      in.Landmark,
		Category:      category,
		IsDefault:     in.IsDefault,
	}
}

// Load fetches the full address set. On transport failure the cache is left
// untouched and an empty sequence is returned alongside ErrLoadFailed, so
// the caller can render a retry affordance without crashing the session.
func (s *AddressStore) Load(ctx context.Context) ([]domain.Address, error) {
	addresses, err := s.api.List(ctx, s.userID)
	if err != nil {
		s.logger.WarnContext(ctx, "address load failed",
			slog.String("error", err.Error()),
		)
		return []domain.Address{}, apperrors.LoadFailed("addresses", err)
	}

	s.mu.Lock()
	s.addresses = addresses
	s.loaded = true
	s.mu.Unlock()

	return s.snapshot(), nil
}

// Loaded reports whether at least one load has succeeded.
func (s *AddressStore) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Addresses returns a copy of the cached address set.
func (s *AddressStore) Addresses() []domain.Address {
	return s.snapshot()
}

// Create validates the input, saves the address through the service, and
// merges it into the cache. The first address for a user, or one explicitly
// requested as default, becomes the sole default in one logical operation.
func (s *AddressStore) Create(ctx context.Context, input CreateAddressInput) (domain.Address, error) {
	if err := validator.Validate(input); err != nil {
		return domain.Address{}, apperrors.Validation(err.Error())
	}

	address := input.toDomain()

	s.mu.Lock()
	if len(s.addresses) == 0 {
		address.IsDefault = true
	}
	s.mu.Unlock()

	created, err := s.api.Create(ctx, s.userID, address)
	if err != nil {
		return domain.Address{}, err
	}

	s.mu.Lock()
	if created.IsDefault {
		s.clearDefaultLocked()
	}
	s.addresses = append(s.addresses, created)
	s.mu.Unlock()

	return created, nil
}

// Update replaces the address with the given id. Returns ErrNotFound when
// the id is absent from the cached set.
func (s *AddressStore) Update(ctx context.Context, id string, input CreateAddressInput) (domain.Address, error) {
	if err := validator.Validate(input); err != nil {
		return domain.Address{}, apperrors.Validation(err.Error())
	}

	s.mu.Lock()
	idx := domain.FindAddress(s.addresses, id)
	var isDefault bool
	if idx >= 0 {
		isDefault = s.addresses[idx].IsDefault
	}
	s.mu.Unlock()

	if idx < 0 {
		return domain.Address{}, apperrors.NotFound("address", id)
	}

	address := input.toDomain()
	address.ID = id
	// Default flags move only through SetDefault; a general update keeps
	// the existing flag.
	address.IsDefault = isDefault

	updated, err := s.api.Update(ctx, s.userID, id, address)
	if err != nil {
		return domain.Address{}, err
	}

	s.mu.Lock()
	if idx = domain.FindAddress(s.addresses, id); idx >= 0 {
		s.addresses[idx] = updated
	}
	s.mu.Unlock()

	return updated, nil
}

// Delete removes the address with the given id. Deleting the default leaves
// the set with no default; re-defaulting requires an explicit user action.
func (s *AddressStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := domain.FindAddress(s.addresses, id)
	s.mu.Unlock()

	if idx < 0 {
		return apperrors.NotFound("address", id)
	}

	if err := s.api.Delete(ctx, s.userID, id); err != nil {
		return err
	}

	s.mu.Lock()
	if idx = domain.FindAddress(s.addresses, id); idx >= 0 {
		s.addresses = append(s.addresses[:idx], s.addresses[idx+1:]...)
	}
	s.mu.Unlock()

	return nil
}

// SetDefault makes the address with the given id the sole default.
// Idempotent: an already-default address is a successful no-op that skips
// the network entirely.
func (s *AddressStore) SetDefault(ctx context.Context, id string) (domain.Address, error) {
	s.mu.Lock()
	idx := domain.FindAddress(s.addresses, id)
	if idx < 0 {
		s.mu.Unlock()
		return domain.Address{}, apperrors.NotFound("address", id)
	}
	if s.addresses[idx].IsDefault {
		current := s.addresses[idx]
		s.mu.Unlock()
		return current, nil
	}
	s.mu.Unlock()

	updated, err := s.api.SetDefault(ctx, s.userID, id)
	if err != nil {
		return domain.Address{}, err
	}
	updated.IsDefault = true

	s.mu.Lock()
	s.clearDefaultLocked()
	if idx = domain.FindAddress(s.addresses, id); idx >= 0 {
		s.addresses[idx] = updated
	}
	s.mu.Unlock()

	return updated, nil
}

// clearDefaultLocked flips every cached default flag off. Callers must hold
// the mutex; pairing this with a single set keeps the at-most-one-default
// invariant.
func (s *AddressStore) clearDefaultLocked() {
	for i := range s.addresses {
		s.addresses[i].IsDefault = false
	}
}

func (s *AddressStore) snapshot() []domain.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Address, len(s.addresses))
	copy(out, s.addresses)
	return out
}

package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vijay-dubey/QuickCart-Microservices-sub001/internal/domain"
	"github.com/vijay-dubey/QuickCart-Microservices-sub001/internal/store"
	apperrors "github.com/vijay-dubey/QuickCart-Microservices-sub001/pkg/errors"
)

// CheckoutService owns the per-user stores and checkout sessions. Each
// authenticated user gets one AddressStore and one CartStore, shared between
// the address-book endpoints and the checkout session; each checkout attempt
// owns its own session instance.
type CheckoutService struct {
	mu    sync.Mutex
	users map[string]*userState

	addressAPI    store.AddressAPI
	cartAPI       store.CartAPI
	orderAPI      OrderAPI
	logger        *slog.Logger
	submitTimeout time.Duration
}

type userState struct {
	addresses *store.AddressStore
	cart      *store.CartStore
	session   *session
}

// NewCheckoutService creates the checkout service.
func NewCheckoutService(
	addressAPI store.AddressAPI,
	cartAPI store.CartAPI,
	orderAPI OrderAPI,
	logger *slog.Logger,
	submitTimeout time.Duration,
) *CheckoutService {
	return &CheckoutService{
		users:         make(map[string]*userState),
		addressAPI:    addressAPI,
		cartAPI:       cartAPI,
		orderAPI:      orderAPI,
		logger:        logger,
		submitTimeout: submitTimeout,
	}
}

func (s *CheckoutService) userState(userID string) *userState {
	s.mu.Lock()
	defer s.mu.Unlock()
	us, ok := s.users[userID]
	if !ok {
		us = &userState{
			addresses: store.NewAddressStore(userID, s.addressAPI, s.logger),
			cart:      store.NewCartStore(userID, s.cartAPI, s.logger),
		}
		s.users[userID] = us
	}
	return us
}

// AddressStore returns the shared address cache for the user.
func (s *CheckoutService) AddressStore(userID string) *store.AddressStore {
	return s.userState(userID).addresses
}

// CartStore returns the shared cart store for the user.
func (s *CheckoutService) CartStore(userID string) *store.CartStore {
	return s.userState(userID).cart
}

// session is one in-memory checkout attempt. The embedded mutex serializes
// all transitions; network calls never run while it is held.
type session struct {
	mu sync.Mutex

	userID    string
	addresses *store.AddressStore
	cart      *store.CartStore
	submitter *OrderSubmitter
	logger    *slog.Logger

	phase             string
	selectedAddressID string
	paymentMethod     string
	orderID           string
	lastError         string
	addressLoadFailed bool
	createdAt         time.Time
	updatedAt         time.Time
}

// Enter starts a new checkout session for the user, loading addresses and
// cart concurrently. The session reaches ready only once both resolve; a
// failed address load leaves it in loading with a retry affordance, while
// an empty cart aborts entry entirely (the storefront routes to its empty
// cart view instead).
//
// An existing session is replaced unless it has a submission in flight.
func (s *CheckoutService) Enter(ctx context.Context, userID string) (*domain.CheckoutSession, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("checkout requires an authenticated user")
	}

	us := s.userState(userID)

	s.mu.Lock()
	if us.session != nil && us.session.currentPhase() == domain.PhaseSubmitting {
		s.mu.Unlock()
		return nil, apperrors.Conflict("an order submission is in flight; wait for it to resolve")
	}
	now := time.Now().UTC()
	sess := &session{
		userID:        userID,
		addresses:     us.addresses,
		cart:          us.cart,
		submitter:     NewOrderSubmitter(s.orderAPI, s.logger),
		logger:        s.logger,
		phase:         domain.PhaseLoading,
		paymentMethod: domain.PaymentCOD,
		createdAt:     now,
		updatedAt:     now,
	}
	us.session = sess
	s.mu.Unlock()

	if err := sess.load(ctx); err != nil {
		if errors.Is(err, apperrors.ErrEmptyCart) {
			// Empty cart is an entry guard, not a session state.
			s.dropSession(userID, sess)
			return nil, err
		}
		// Partial load failure: the session stays in loading with a
		// retry affordance for the failed dimension.
		return sess.view(), nil
	}

	return sess.view(), nil
}

// Current returns the user's active checkout session.
func (s *CheckoutService) Current(userID string) (*domain.CheckoutSession, error) {
	sess, err := s.activeSession(userID)
	if err != nil {
		return nil, err
	}
	return sess.view(), nil
}

// RetryLoad re-attempts the failed resource loads of a loading session.
func (s *CheckoutService) RetryLoad(ctx context.Context, userID string) (*domain.CheckoutSession, error) {
	sess, err := s.activeSession(userID)
	if err != nil {
		return nil, err
	}

	if sess.currentPhase() != domain.PhaseLoading {
		return sess.view(), nil
	}

	if err := sess.load(ctx); err != nil {
		if errors.Is(err, apperrors.ErrEmptyCart) {
			s.dropSession(userID, sess)
			return nil, err
		}
		return sess.view(), nil
	}
	return sess.view(), nil
}

// SelectAddress changes the session's shipping address. An id that is not
// in the loaded address set is rejected without changing the selection.
func (s *CheckoutService) SelectAddress(userID, addressID string) (*domain.CheckoutSession, error) {
	sess, err := s.activeSession(userID)
	if err != nil {
		return nil, err
	}
	if err := sess.selectAddress(addressID); err != nil {
		return nil, err
	}
	return sess.view(), nil
}

// SetPaymentMethod changes the session's payment method label.
func (s *CheckoutService) SetPaymentMethod(userID, method string) (*domain.CheckoutSession, error) {
	sess, err := s.activeSession(userID)
	if err != nil {
		return nil, err
	}
	if err := sess.setPaymentMethod(method); err != nil {
		return nil, err
	}
	return sess.view(), nil
}

// Submit places the order for the user's session. Re-entrant submits while
// one is in flight coalesce into a no-op returning the submitting view.
func (s *CheckoutService) Submit(ctx context.Context, userID string) (*domain.CheckoutSession, error) {
	sess, err := s.activeSession(userID)
	if err != nil {
		return nil, err
	}
	return sess.submit(ctx, s.submitTimeout)
}

// Leave discards the user's session. A session with a submission in flight
// cannot be abandoned; the result must be observed first so the storefront
// never strands a submitting view.
func (s *CheckoutService) Leave(userID string) error {
	sess, err := s.activeSession(userID)
	if err != nil {
		return err
	}

	if sess.currentPhase() == domain.PhaseSubmitting {
		return apperrors.Conflict("an order submission is in flight; wait for it to resolve")
	}

	s.dropSession(userID, sess)
	return nil
}

func (s *CheckoutService) activeSession(userID string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	us, ok := s.users[userID]
	if !ok || us.session == nil {
		return nil, apperrors.NotFound("checkout session", userID)
	}
	return us.session, nil
}

func (s *CheckoutService) dropSession(userID string, sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if us, ok := s.users[userID]; ok && us.session == sess {
		us.session = nil
	}
}

// load fetches addresses and cart concurrently with join semantics. Loader
// errors are captured per dimension rather than returned to the group, so a
// failed address load never cancels the cart fetch.
func (sess *session) load(ctx context.Context) error {
	var (
		addresses  []domain.Address
		addressErr error
		cart       domain.CartSnapshot
		cartErr    error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addresses, addressErr = sess.addresses.Load(gctx)
		return nil
	})
	g.Go(func() error {
		cart, cartErr = sess.cart.Refresh(gctx)
		return nil
	})
	_ = g.Wait()

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.updatedAt = time.Now().UTC()

	if cartErr != nil {
		sess.lastError = "LOAD_FAILED"
		return cartErr
	}
	if cart.IsEmpty() {
		return apperrors.EmptyCart("cart is empty, checkout is not available")
	}

	if addressErr != nil {
		sess.addressLoadFailed = true
		sess.lastError = "LOAD_FAILED"
		return addressErr
	}
	sess.addressLoadFailed = false
	sess.lastError = ""

	// Prefer the default address; fall back to the first loaded one.
	if sess.selectedAddressID == "" || domain.FindAddress(addresses, sess.selectedAddressID) < 0 {
		sess.selectedAddressID = domain.DefaultOrFirst(addresses)
	}
	sess.phase = domain.PhaseReady

	return nil
}

func (sess *session) currentPhase() string {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.phase
}

func (sess *session) selectAddress(addressID string) error {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	switch sess.phase {
	case domain.PhaseReady, domain.PhaseFailed:
	default:
		return apperrors.Conflict("address selection requires a ready session")
	}

	if domain.FindAddress(sess.addresses.Addresses(), addressID) < 0 {
		return apperrors.NotFound("address", addressID)
	}

	sess.selectedAddressID = addressID
	sess.updatedAt = time.Now().UTC()
	return nil
}

func (sess *session) setPaymentMethod(method string) error {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	switch sess.phase {
	case domain.PhaseReady, domain.PhaseFailed:
	default:
		return apperrors.Conflict("payment selection requires a ready session")
	}

	if !domain.IsValidPaymentMethod(method) {
		return apperrors.Validation("unknown payment method: " + method)
	}

	sess.paymentMethod = method
	sess.updatedAt = time.Now().UTC()
	return nil
}

// submit drives ready -> submitting -> succeeded | failed. The guards run
// locally before any network call; exactly one placement can be in flight.
func (sess *session) submit(ctx context.Context, timeout time.Duration) (*domain.CheckoutSession, error) {
	sess.mu.Lock()
	switch sess.phase {
	case domain.PhaseSubmitting:
		// Coalesce re-entrant submits into a no-op.
		sess.mu.Unlock()
		return sess.view(), nil
	case domain.PhaseSucceeded:
		sess.mu.Unlock()
		return nil, apperrors.Conflict("order already placed for this session")
	case domain.PhaseReady, domain.PhaseFailed:
	default:
		sess.mu.Unlock()
		return nil, apperrors.Conflict("checkout session is still loading")
	}

	if sess.selectedAddressID == "" {
		sess.mu.Unlock()
		return nil, apperrors.MissingAddress()
	}
	if cart, ok := sess.cart.Current(); !ok || cart.IsEmpty() {
		sess.mu.Unlock()
		return nil, apperrors.EmptyCart("cart is empty, nothing to order")
	}

	addressID := sess.selectedAddressID
	method := sess.paymentMethod
	sess.phase = domain.PhaseSubmitting
	sess.lastError = ""
	sess.updatedAt = time.Now().UTC()
	sess.mu.Unlock()

	// A submission already sent cannot be cancelled client-side: detach
	// from the caller's cancellation and bound the wait with our own
	// timeout so the session always observes a resolution.
	placeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	order, err := sess.submitter.Place(placeCtx, sess.userID, addressID, method)
	if err != nil {
		return sess.handleSubmitFailure(placeCtx, err)
	}

	// The order is the source of truth: a failed cart clear is logged and
	// never reverts the success.
	if err := sess.cart.Clear(placeCtx); err != nil {
		sess.logger.WarnContext(placeCtx, "cart clear after confirmed order failed",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	sess.mu.Lock()
	sess.phase = domain.PhaseSucceeded
	sess.orderID = order.ID
	sess.updatedAt = time.Now().UTC()
	sess.mu.Unlock()

	sess.logger.InfoContext(placeCtx, "checkout succeeded",
		slog.String("order_id", order.ID),
		slog.String("payment_method", method),
	)

	return sess.view(), nil
}

// handleSubmitFailure maps a classified placement failure onto the recovery
// transition: the session returns to ready semantics with the selection
// intact, the cart is re-fetched after an empty-cart rejection, and the
// address set is re-fetched after an invalid-address rejection.
func (sess *session) handleSubmitFailure(ctx context.Context, err error) (*domain.CheckoutSession, error) {
	switch {
	case errors.Is(err, apperrors.ErrEmptyCart):
		// Server cart diverged from the local snapshot. Never retry
		// blindly; refresh and let the user decide.
		if _, refreshErr := sess.cart.Refresh(ctx); refreshErr != nil {
			sess.logger.WarnContext(ctx, "cart refresh after empty-cart rejection failed",
				slog.String("error", refreshErr.Error()),
			)
		}
		sess.failWith("EMPTY_CART")

	case errors.Is(err, apperrors.ErrInvalidAddress):
		// The address was likely deleted in another session. Reload and
		// re-select so the next submit has a valid candidate.
		if addresses, reloadErr := sess.addresses.Load(ctx); reloadErr == nil {
			sess.mu.Lock()
			if domain.FindAddress(addresses, sess.selectedAddressID) < 0 {
				sess.selectedAddressID = domain.DefaultOrFirst(addresses)
			}
			sess.mu.Unlock()
		}
		sess.failWith("INVALID_ADDRESS")

	case errors.Is(err, ErrSubmissionInFlight):
		// Lost the race against another submit on the same session.
		return sess.view(), nil

	default:
		sess.failWith("TRANSIENT_ERROR")
	}

	return nil, err
}

func (sess *session) failWith(code string) {
	sess.mu.Lock()
	sess.phase = domain.PhaseFailed
	sess.lastError = code
	sess.updatedAt = time.Now().UTC()
	sess.mu.Unlock()
}

// view assembles an immutable snapshot of the session for callers.
func (sess *session) view() *domain.CheckoutSession {
	cart, _ := sess.cart.Current()
	addresses := sess.addresses.Addresses()

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return &domain.CheckoutSession{
		UserID:            sess.userID,
		Phase:             sess.phase,
		Addresses:         addresses,
		SelectedAddressID: sess.selectedAddressID,
		PaymentMethod:     sess.paymentMethod,
		Cart:              cart,
		Totals:            domain.Totals(cart),
		OrderID:           sess.orderID,
		LastError:         sess.lastError,
		AddressLoadFailed: sess.addressLoadFailed,
		CreatedAt:         sess.createdAt,
		UpdatedAt:         sess.updatedAt,
	}
}

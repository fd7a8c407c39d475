package domain

import "time"

// Checkout session phases.
const (
	PhaseLoading    = "loading"
	PhaseReady      = "ready"
	PhaseSubmitting = "submitting"
	PhaseSucceeded  = "succeeded"
	PhaseFailed     = "failed"
)

// Payment method labels. The method is a selected label only; no payment is
// processed by this service.
const (
	PaymentCOD        = "COD"
	PaymentUPI        = "UPI"
	PaymentCreditCard = "CREDIT_CARD"
	PaymentDebitCard  = "DEBIT_CARD"
	PaymentNetBanking = "NET_BANKING"
)

// ValidPaymentMethods returns the accepted payment method labels.
func ValidPaymentMethods() []string {
	return []string{PaymentCOD, PaymentUPI, PaymentCreditCard, PaymentDebitCard, PaymentNetBanking}
}

// IsValidPaymentMethod checks whether the label is an accepted payment method.
func IsValidPaymentMethod(method string) bool {
	for _, m := range ValidPaymentMethods() {
		if m == method {
			return true
		}
	}
	return false
}

// CheckoutSession is the in-memory state of one checkout attempt, from cart
// entry to order confirmation or abandonment. It reconciles three
// independently-fetched resources (addresses, cart, order placement) into a
// single submittable state.
//
// Phase transitions: loading -> ready -> submitting -> succeeded | failed;
// failed returns to ready semantics (resubmission allowed); succeeded is
// terminal. Ready implies a selected address present in Addresses and a
// non-empty cart.
type CheckoutSession struct {
	UserID            string       `json:"user_id"`
	Phase             string       `json:"phase"`
	Addresses         []Address    `json:"addresses"`
	SelectedAddressID string       `json:"selected_address_id,omitempty"`
	PaymentMethod     string       `json:"payment_method"`
	Cart              CartSnapshot `json:"cart"`
	Totals            CartTotals   `json:"totals"`
	OrderID           string       `json:"order_id,omitempty"`
	LastError         string       `json:"last_error,omitempty"`
	AddressLoadFailed bool         `json:"address_load_failed,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// IsTerminal reports whether the session reached its terminal phase.
// Only a successful placement terminates a session; failures return to
// ready semantics.
func (s *CheckoutSession) IsTerminal() bool {
	return s.Phase == PhaseSucceeded
}

// Submittable reports whether a place-order action may proceed: the session
// is ready (or recovering from a failed attempt), an address is selected,
// and the cart is non-empty.
func (s *CheckoutSession) Submittable() bool {
	if s.Phase != PhaseReady && s.Phase != PhaseFailed {
		return false
	}
	return s.SelectedAddressID != "" && !s.Cart.IsEmpty()
}

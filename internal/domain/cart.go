package domain

import "time"

// CartItem is a single line item in the cart.
type CartItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	ImageURL  string `json:"image_url,omitempty"`
}

// CartSnapshot is a read-mostly view of the current cart as last fetched
// from the cart service. It is never recomputed from partial data; staleness
// tolerance is "last successful fetch".
type CartSnapshot struct {
	Items      []CartItem `json:"items"`
	TotalItems int        `json:"total_items"`
	TotalPrice int64      `json:"total_price"`
	FetchedAt  time.Time  `json:"fetched_at"`
}

// NewCartSnapshot builds a snapshot from line items, deriving the
// aggregates so that TotalPrice is always the sum of quantity x unit price
// regardless of what the cart service reported.
func NewCartSnapshot(items []CartItem, fetchedAt time.Time) CartSnapshot {
	var totalItems int
	var totalPrice int64
	for _, item := range items {
		totalItems += item.Quantity
		totalPrice += item.Price * int64(item.Quantity)
	}
	return CartSnapshot{
		Items:      items,
		TotalItems: totalItems,
		TotalPrice: totalPrice,
		FetchedAt:  fetchedAt,
	}
}

// IsEmpty reports whether the cart has no items. Checkout is not enterable
// with an empty cart.
func (c CartSnapshot) IsEmpty() bool {
	return len(c.Items) == 0
}

// Fixed pricing policy. Flat shipping fee and flat 18% tax; reproduced
// exactly for output compatibility with the storefront.
const (
	ShippingFlatFee = 90
	TaxRatePercent  = 18
)

// CartTotals is the derived pricing breakdown for a cart snapshot.
type CartTotals struct {
	Subtotal int64 `json:"subtotal"`
	Shipping int64 `json:"shipping"`
	Tax      int64 `json:"tax"`
	Total    int64 `json:"total"`
}

// Totals computes the pricing breakdown for the snapshot. Pure function:
// subtotal is the snapshot's total price, shipping is a flat fee waived for
// an empty cart, tax is a flat 18% of the subtotal.
func Totals(snapshot CartSnapshot) CartTotals {
	subtotal := snapshot.TotalPrice

	var shipping int64
	if snapshot.TotalItems > 0 {
		shipping = ShippingFlatFee
	}

	tax := subtotal * TaxRatePercent / 100

	return CartTotals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal + shipping + tax,
	}
}

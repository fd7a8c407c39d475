package domain

import "time"

// OrderItem is a priced line item captured at the time of placement.
type OrderItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// PlacedOrder is the order service's confirmation of a placement. The
// checkout core only consumes the ID for navigation; order state afterwards
// belongs to the order service.
type PlacedOrder struct {
	ID                string      `json:"id"`
	ShippingAddressID string      `json:"shipping_address_id"`
	PaymentMethod     string      `json:"payment_method"`
	Items             []OrderItem `json:"items"`
	TotalAmount       int64       `json:"total_amount"`
	PlacedAt          time.Time   `json:"placed_at"`
}

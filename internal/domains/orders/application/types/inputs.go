package types

import "github.com/ventasve/ventasve-api/internal/domains/orders/domain"

// PlaceOrderInput carries checkout data. IdempotencyKey is optional.
type PlaceOrderInput struct {
	BusinessID        string
	CustomerID        string
	TotalCents        int64
	PaymentMethod     string
	ShippingCostCents *int64
	DeliveryAddress   string
	IdempotencyKey    string
}

// OrderIdentifier addresses a single order.
type OrderIdentifier struct {
	ID string
}

// TransitionInput requests a lifecycle move for an order.
type TransitionInput struct {
	OrderID string
	Target  domain.Status
	Actor   string
	Reason  string
}

// CancelOrderInput cancels an order and any active delivery bound to it.
type CancelOrderInput struct {
	OrderID string
	Actor   string
	Reason  string
}

// ListOrdersInput filters a business' orders by status; empty Statuses matches all.
type ListOrdersInput struct {
	BusinessID string
	Statuses   []domain.Status
}

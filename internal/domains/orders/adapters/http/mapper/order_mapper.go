package mapper

import (
	"time"

	"github.com/ventasve/ventasve-api/internal/domains/orders/application/types"
	"github.com/ventasve/ventasve-api/internal/domains/orders/domain"
)

// PlaceOrderRequest is the checkout payload.
type PlaceOrderRequest struct {
	BusinessID        string `json:"businessId" binding:"required"`
	CustomerID        string `json:"customerId" binding:"required"`
	TotalCents        int64  `json:"totalCents" binding:"gte=0"`
	PaymentMethod     string `json:"paymentMethod" binding:"required"`
	ShippingCostCents *int64 `json:"shippingCostCents" binding:"omitempty,gte=0"`
	DeliveryAddress   string `json:"deliveryAddress"`
}

// TransitionRequest asks for a generic lifecycle move.
type TransitionRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

// CancelRequest carries the optional cancellation reason.
type CancelRequest struct {
	Reason string `json:"reason"`
}

// Order is the transport representation of an order.
type Order struct {
	ID                string    `json:"id"`
	BusinessID        string    `json:"businessId"`
	CustomerID        string    `json:"customerId"`
	TotalCents        int64     `json:"totalCents"`
	PaymentMethod     string    `json:"paymentMethod"`
	Status            string    `json:"status"`
	ShippingCostCents *int64    `json:"shippingCostCents,omitempty"`
	DeliveryAddress   string    `json:"deliveryAddress,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// StatusChange is one audit trail entry.
type StatusChange struct {
	FromStatus string         `json:"fromStatus,omitempty"`
	ToStatus   string         `json:"toStatus"`
	Actor      string         `json:"actor,omitempty"`
	Reason     string         `json:"reason,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// ToPlaceOrderInput converts the checkout payload into the service input.
func ToPlaceOrderInput(req PlaceOrderRequest, idempotencyKey string) types.PlaceOrderInput {
	return types.PlaceOrderInput{
		BusinessID:        req.BusinessID,
		CustomerID:        req.CustomerID,
		TotalCents:        req.TotalCents,
		PaymentMethod:     req.PaymentMethod,
		ShippingCostCents: req.ShippingCostCents,
		DeliveryAddress:   req.DeliveryAddress,
		IdempotencyKey:    idempotencyKey,
	}
}

// FromDomainOrder converts a domain order to the transport representation.
func FromDomainOrder(order *domain.Order) Order {
	if order == nil {
		return Order{}
	}
	return Order{
		ID:                order.ID,
		BusinessID:        order.BusinessID,
		CustomerID:        order.CustomerID,
		TotalCents:        order.TotalCents,
		PaymentMethod:     string(order.PaymentMethod),
		Status:            string(order.Status),
		ShippingCostCents: order.ShippingCostCents,
		DeliveryAddress:   order.DeliveryAddress,
		CreatedAt:         order.CreatedAt,
		UpdatedAt:         order.UpdatedAt,
	}
}

// FromDomainOrders converts a listing.
func FromDomainOrders(orders []*domain.Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, FromDomainOrder(o))
	}
	return out
}

// FromDomainHistory converts the audit trail.
func FromDomainHistory(changes []domain.StatusChange) []StatusChange {
	out := make([]StatusChange, 0, len(changes))
	for _, c := range changes {
		out = append(out, StatusChange{
			FromStatus: string(c.FromStatus),
			ToStatus:   string(c.ToStatus),
			Actor:      c.Actor,
			Reason:     c.Reason,
			Metadata:   c.Metadata,
			OccurredAt: c.OccurredAt,
		})
	}
	return out
}

package domain

import (
	"errors"
	"strings"
	"time"
)

// PaymentMethod enumerates the payment rails accepted at checkout.
type PaymentMethod string

const (
	PaymentPagoMovil PaymentMethod = "PAGO_MOVIL"
	PaymentZelle     PaymentMethod = "ZELLE"
	PaymentBinance   PaymentMethod = "BINANCE"
	PaymentCashUSD   PaymentMethod = "CASH_USD"
	PaymentCashVES   PaymentMethod = "CASH_VES"
	PaymentTransfer  PaymentMethod = "TRANSFER"
)

var (
	ErrEmptyBusinessID      = errors.New("business id is required")
	ErrEmptyCustomerID      = errors.New("customer id is required")
	ErrNegativeTotal        = errors.New("total cents must not be negative")
	ErrNegativeShippingCost = errors.New("shipping cost cents must not be negative")
	ErrInvalidPaymentMethod = errors.New("payment method is invalid")
	ErrInvalidStatus        = errors.New("order status is invalid")
)

// Order is the checkout aggregate. TotalCents is fixed at creation.
type Order struct {
	ID                string
	BusinessID        string
	CustomerID        string
	TotalCents        int64
	PaymentMethod     PaymentMethod
	Status            Status
	ShippingCostCents *int64
	DeliveryAddress   string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewOrderParams carries the checkout fields of a new order.
type NewOrderParams struct {
	ID                string
	BusinessID        string
	CustomerID        string
	TotalCents        int64
	PaymentMethod     PaymentMethod
	ShippingCostCents *int64
	DeliveryAddress   string
	CreatedAt         time.Time
}

// NewOrder validates params and returns a PENDING order.
func NewOrder(p NewOrderParams) (*Order, error) {
	order := &Order{
		ID:                p.ID,
		BusinessID:        strings.TrimSpace(p.BusinessID),
		CustomerID:        strings.TrimSpace(p.CustomerID),
		TotalCents:        p.TotalCents,
		PaymentMethod:     p.PaymentMethod,
		Status:            StatusPending,
		ShippingCostCents: p.ShippingCostCents,
		DeliveryAddress:   strings.TrimSpace(p.DeliveryAddress),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.CreatedAt,
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if o.BusinessID == "" {
		return ErrEmptyBusinessID
	}
	if o.CustomerID == "" {
		return ErrEmptyCustomerID
	}
	if o.TotalCents < 0 {
		return ErrNegativeTotal
	}
	if o.ShippingCostCents != nil && *o.ShippingCostCents < 0 {
		return ErrNegativeShippingCost
	}
	if !o.PaymentMethod.Valid() {
		return ErrInvalidPaymentMethod
	}
	if !o.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// TransitionTo moves the order to target when the lifecycle allows it. The order is left
// untouched on failure.
func (o *Order) TransitionTo(target Status, at time.Time) error {
	if !CanTransition(o.Status, target) {
		return &InvalidTransitionError{From: o.Status, To: target}
	}
	o.Status = target
	o.UpdatedAt = at
	return nil
}

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentPagoMovil, PaymentZelle, PaymentBinance, PaymentCashUSD, PaymentCashVES, PaymentTransfer:
		return true
	default:
		return false
	}
}

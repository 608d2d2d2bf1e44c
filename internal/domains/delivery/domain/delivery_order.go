package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status enumerates delivery order progression.
type Status string

const (
	StatusAssigned  Status = "ASSIGNED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

const (
	// DefaultPickupAddress is used when the business has no store address on file.
	DefaultPickupAddress = "Tienda Principal"
	// DefaultDeliveryAddress is used when the order carries no delivery address.
	DefaultDeliveryAddress = "Dirección del cliente"
)

var (
	ErrEmptyOrderID  = errors.New("order id is required")
	ErrEmptyPersonID = errors.New("delivery person id is required")
	ErrInvalidStatus = errors.New("delivery status is invalid")
)

// DeliveryOrder tracks one delivery attempt for one order.
type DeliveryOrder struct {
	ID               string
	OrderID          string
	DeliveryPersonID string
	BusinessID       string
	Status           Status
	OTPCode          string
	OTPAttempts      int
	OTPExpiresAt     *time.Time
	PickupAddress    string
	DeliveryAddress  string
	DeliveryFee      decimal.Decimal
	DeliveredAt      *time.Time
	CancelledAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewDeliveryOrderParams carries what assignment knows when creating the record.
type NewDeliveryOrderParams struct {
	ID                string
	OrderID           string
	DeliveryPersonID  string
	BusinessID        string
	OTPCode           string
	StoreAddress      string
	OrderAddress      string
	ShippingCostCents *int64
	OTPTTL            time.Duration
	CreatedAt         time.Time
}

// NewDeliveryOrder builds an ASSIGNED delivery order, applying address fallbacks and
// deriving the fee from the order's shipping cost.
func NewDeliveryOrder(p NewDeliveryOrderParams) (*DeliveryOrder, error) {
	if strings.TrimSpace(p.OrderID) == "" {
		return nil, ErrEmptyOrderID
	}
	if strings.TrimSpace(p.DeliveryPersonID) == "" {
		return nil, ErrEmptyPersonID
	}
	if err := ValidateOTPFormat(p.OTPCode); err != nil {
		return nil, err
	}
	d := &DeliveryOrder{
		ID:               p.ID,
		OrderID:          p.OrderID,
		DeliveryPersonID: p.DeliveryPersonID,
		BusinessID:       p.BusinessID,
		Status:           StatusAssigned,
		OTPCode:          p.OTPCode,
		PickupAddress:    fallback(p.StoreAddress, DefaultPickupAddress),
		DeliveryAddress:  fallback(p.OrderAddress, DefaultDeliveryAddress),
		DeliveryFee:      FeeFromShippingCents(p.ShippingCostCents),
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.CreatedAt,
	}
	if p.OTPTTL > 0 {
		expires := p.CreatedAt.Add(p.OTPTTL)
		d.OTPExpiresAt = &expires
	}
	return d, nil
}

// FeeFromShippingCents converts cents to a two-decimal amount; nil yields zero.
func FeeFromShippingCents(cents *int64) decimal.Decimal {
	if cents == nil {
		return decimal.Zero
	}
	return decimal.New(*cents, -2)
}

// OTPExpired reports whether the code has an expiry that has passed at now.
func (d *DeliveryOrder) OTPExpired(now time.Time) bool {
	return d.OTPExpiresAt != nil && !now.Before(*d.OTPExpiresAt)
}

// Valid reports whether s is a known delivery status.
func (s Status) Valid() bool {
	switch s {
	case StatusAssigned, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

func fallback(value, def string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return def
}

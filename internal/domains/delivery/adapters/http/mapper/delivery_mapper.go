package mapper

import (
	"encoding/json"
	"time"

	"github.com/ventasve/ventasve-api/internal/domains/delivery/domain"
)

// AssignRequest names the driver to bind to an order.
type AssignRequest struct {
	DeliveryPersonID string `json:"deliveryPersonId" binding:"required"`
}

// ConfirmRequest carries the code the customer hands to the driver.
type ConfirmRequest struct {
	OTPCode string `json:"otpCode" binding:"required"`
}

// RegisterPersonRequest onboards a driver.
type RegisterPersonRequest struct {
	BusinessID string `json:"businessId" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Phone      string `json:"phone"`
}

// AvailabilityRequest toggles whether a driver takes new work.
type AvailabilityRequest struct {
	IsAvailable *bool `json:"isAvailable" binding:"required"`
}

// DeliveryOrder is the transport representation of a delivery order. OTPCode is only set in
// the assignment response.
type DeliveryOrder struct {
	ID               string      `json:"id"`
	OrderID          string      `json:"orderId"`
	DeliveryPersonID string      `json:"deliveryPersonId"`
	BusinessID       string      `json:"businessId"`
	Status           string      `json:"status"`
	OTPCode          string      `json:"otpCode,omitempty"`
	OTPExpiresAt     *time.Time  `json:"otpExpiresAt,omitempty"`
	PickupAddress    string      `json:"pickupAddress"`
	DeliveryAddress  string      `json:"deliveryAddress"`
	DeliveryFee      json.Number `json:"deliveryFee"`
	DeliveredAt      *time.Time  `json:"deliveredAt,omitempty"`
	CancelledAt      *time.Time  `json:"cancelledAt,omitempty"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
}

// DeliveryPerson is the transport representation of a driver.
type DeliveryPerson struct {
	ID              string    `json:"id"`
	BusinessID      string    `json:"businessId"`
	Name            string    `json:"name"`
	Phone           string    `json:"phone,omitempty"`
	IsAvailable     bool      `json:"isAvailable"`
	CompletedOrders int       `json:"completedOrders"`
	TotalDeliveries int       `json:"totalDeliveries"`
	CreatedAt       time.Time `json:"createdAt"`
}

// FromDomainDeliveryOrder converts a delivery order, exposing the OTP only when withOTP is set.
func FromDomainDeliveryOrder(d *domain.DeliveryOrder, withOTP bool) DeliveryOrder {
	if d == nil {
		return DeliveryOrder{}
	}
	out := DeliveryOrder{
		ID:               d.ID,
		OrderID:          d.OrderID,
		DeliveryPersonID: d.DeliveryPersonID,
		BusinessID:       d.BusinessID,
		Status:           string(d.Status),
		PickupAddress:    d.PickupAddress,
		DeliveryAddress:  d.DeliveryAddress,
		DeliveryFee:      json.Number(d.DeliveryFee.StringFixed(2)),
		DeliveredAt:      d.DeliveredAt,
		CancelledAt:      d.CancelledAt,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
	if withOTP {
		out.OTPCode = d.OTPCode
		out.OTPExpiresAt = d.OTPExpiresAt
	}
	return out
}

// FromDomainDeliveryOrders converts a listing without OTPs.
func FromDomainDeliveryOrders(list []*domain.DeliveryOrder) []DeliveryOrder {
	out := make([]DeliveryOrder, 0, len(list))
	for _, d := range list {
		out = append(out, FromDomainDeliveryOrder(d, false))
	}
	return out
}

// FromDomainDeliveryPerson converts a driver.
func FromDomainDeliveryPerson(p *domain.DeliveryPerson) DeliveryPerson {
	if p == nil {
		return DeliveryPerson{}
	}
	return DeliveryPerson{
		ID:              p.ID,
		BusinessID:      p.BusinessID,
		Name:            p.Name,
		Phone:           p.Phone,
		IsAvailable:     p.IsAvailable,
		CompletedOrders: p.CompletedOrders,
		TotalDeliveries: p.TotalDeliveries,
		CreatedAt:       p.CreatedAt,
	}
}

package types

import "github.com/ventasve/ventasve-api/internal/domains/delivery/domain"

// AssignInput binds a driver to an order.
type AssignInput struct {
	OrderID          string
	DeliveryPersonID string
	Actor            string
}

// ConfirmInput submits the handoff code for a delivery order.
type ConfirmInput struct {
	DeliveryOrderID string
	OTPCode         string
	Actor           string
}

// ReissueOTPInput requests a fresh handoff code for a delivery order.
type ReissueOTPInput struct {
	DeliveryOrderID string
	Actor           string
}

// DeliveryOrderIdentifier addresses a single delivery order.
type DeliveryOrderIdentifier struct {
	ID string
}

// PersonIdentifier addresses a single driver.
type PersonIdentifier struct {
	ID string
}

// ListDeliveriesInput filters a driver's deliveries; empty Statuses matches all.
type ListDeliveriesInput struct {
	DeliveryPersonID string
	Statuses         []domain.Status
}

// RegisterPersonInput onboards a driver for a business.
type RegisterPersonInput struct {
	BusinessID string
	Name       string
	Phone      string
}

// AvailabilityInput toggles whether a driver accepts new assignments.
type AvailabilityInput struct {
	DeliveryPersonID string
	Available        bool
}

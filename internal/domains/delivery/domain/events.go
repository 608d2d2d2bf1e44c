package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeliveryAssigned is raised once a driver is bound to an order.
type DeliveryAssigned struct {
	Timestamp        time.Time
	DeliveryOrderID  string
	OrderID          string
	BusinessID       string
	DeliveryPersonID string
	DeliveryFee      decimal.Decimal
}

func (e DeliveryAssigned) EventName() string     { return "delivery_assigned" }
func (e DeliveryAssigned) OccurredAt() time.Time { return e.Timestamp }

// DeliveryCompleted is raised when the OTP handoff is confirmed.
type DeliveryCompleted struct {
	Timestamp        time.Time
	DeliveryOrderID  string
	OrderID          string
	BusinessID       string
	DeliveryPersonID string
}

func (e DeliveryCompleted) EventName() string     { return "delivery_completed" }
func (e DeliveryCompleted) OccurredAt() time.Time { return e.Timestamp }

package domain

import "time"

// Event is the base interface for all domain events.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent provides common event metadata.
type BaseEvent struct {
	Timestamp time.Time
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// OrderPlaced is raised when checkout creates a new order.
type OrderPlaced struct {
	BaseEvent
	OrderID       string
	BusinessID    string
	CustomerID    string
	TotalCents    int64
	PaymentMethod PaymentMethod
}

// EventName returns the event type identifier.
func (e OrderPlaced) EventName() string {
	return "new_order"
}

// OrderStatusChanged is raised for every committed lifecycle transition.
type OrderStatusChanged struct {
	BaseEvent
	OrderID    string
	BusinessID string
	FromStatus Status
	ToStatus   Status
	Actor      string
}

// EventName returns the event type identifier.
func (e OrderStatusChanged) EventName() string {
	return "order_status_changed"
}

// PaymentVerified is raised when a merchant confirms the payment of a pending order.
type PaymentVerified struct {
	BaseEvent
	OrderID       string
	BusinessID    string
	PaymentMethod PaymentMethod
	TotalCents    int64
}

// EventName returns the event type identifier.
func (e PaymentVerified) EventName() string {
	return "payment_verified"
}

// StatusChange is the audit record persisted alongside each transition.
type StatusChange struct {
	OrderID    string
	FromStatus Status
	ToStatus   Status
	Actor      string
	Reason     string
	Metadata   map[string]any
	OccurredAt time.Time
}

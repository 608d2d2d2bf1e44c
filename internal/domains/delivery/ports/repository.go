package ports

import (
	"context"
	"errors"
	"time"

	"github.com/ventasve/ventasve-api/internal/domains/delivery/domain"
)

var (
	ErrNotFound       = errors.New("delivery order not found")
	ErrPersonNotFound = errors.New("delivery person not found")
	// ErrOrderTaken is returned by Create when the order already has a delivery order.
	ErrOrderTaken = errors.New("delivery order already exists for order")
	// ErrConflict reports that a conditional status update found a different current status.
	ErrConflict = errors.New("delivery order status changed concurrently")
)

// DeliveryOrderRepository persists delivery orders. OrderID is unique across all rows.
type DeliveryOrderRepository interface {
	Create(ctx context.Context, order *domain.DeliveryOrder) (*domain.DeliveryOrder, error)
	GetByID(ctx context.Context, id string) (*domain.DeliveryOrder, error)
	GetForUpdate(ctx context.Context, id string) (*domain.DeliveryOrder, error)
	// GetByOrderID returns ErrNotFound when the order has no delivery order.
	GetByOrderID(ctx context.Context, orderID string) (*domain.DeliveryOrder, error)
	ListByPerson(ctx context.Context, personID string, statuses []domain.Status) ([]*domain.DeliveryOrder, error)
	// MarkDelivered moves ASSIGNED to DELIVERED; any other current status yields ErrConflict.
	MarkDelivered(ctx context.Context, id string, at time.Time) error
	// MarkCancelled moves ASSIGNED to CANCELLED; any other current status yields ErrConflict.
	MarkCancelled(ctx context.Context, id string, at time.Time) error
	// RecordFailedAttempt increments the OTP attempt counter and returns the new value.
	RecordFailedAttempt(ctx context.Context, id string, at time.Time) (int, error)
	// ReplaceOTP swaps the code of an ASSIGNED delivery order and clears its attempt counter.
	// Any other current status yields ErrConflict.
	ReplaceOTP(ctx context.Context, id, code string, expiresAt *time.Time, at time.Time) error
}

// DeliveryPersonRepository persists drivers and their counters.
type DeliveryPersonRepository interface {
	Create(ctx context.Context, person *domain.DeliveryPerson) (*domain.DeliveryPerson, error)
	GetByID(ctx context.Context, id string) (*domain.DeliveryPerson, error)
	GetForUpdate(ctx context.Context, id string) (*domain.DeliveryPerson, error)
	SetAvailability(ctx context.Context, id string, available bool, at time.Time) error
	// RecordCompletedDelivery increments both counters and marks the driver available.
	RecordCompletedDelivery(ctx context.Context, id string, at time.Time) error
}

// BusinessDirectory exposes the tenant data assignment needs.
type BusinessDirectory interface {
	// StoreAddress returns the pickup address of the business, or "" when unknown.
	StoreAddress(ctx context.Context, businessID string) (string, error)
}

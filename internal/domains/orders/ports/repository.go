package ports

import (
	"context"
	"errors"
	"time"

	"github.com/ventasve/ventasve-api/internal/domains/orders/domain"
)

var (
	ErrNotFound = errors.New("order not found")
	// ErrConflict reports that a conditional status update found a different current status.
	ErrConflict = errors.New("order status changed concurrently")
)

// Repository persists orders and their status audit trail.
type Repository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	// GetForUpdate loads the order and locks it for the enclosing transaction.
	GetForUpdate(ctx context.Context, id string) (*domain.Order, error)
	// UpdateStatus writes to only if the stored status still equals from.
	UpdateStatus(ctx context.Context, id string, from, to domain.Status, at time.Time) error
	ListByBusiness(ctx context.Context, businessID string, statuses []domain.Status) ([]*domain.Order, error)
	AppendStatusChange(ctx context.Context, change domain.StatusChange) error
	ListStatusChanges(ctx context.Context, orderID string) ([]domain.StatusChange, error)
}

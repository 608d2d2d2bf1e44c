package ports

import (
	"context"

	"github.com/ventasve/ventasve-api/internal/domains/orders/application/types"
	"github.com/ventasve/ventasve-api/internal/domains/orders/domain"
)

// Service exposes the order lifecycle use cases to adapters.
type Service interface {
	PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*domain.Order, error)
	GetOrder(ctx context.Context, input types.OrderIdentifier) (*domain.Order, error)
	ListOrders(ctx context.Context, input types.ListOrdersInput) ([]*domain.Order, error)
	History(ctx context.Context, input types.OrderIdentifier) ([]domain.StatusChange, error)
	ApplyTransition(ctx context.Context, input types.TransitionInput) (*domain.Order, error)
	VerifyPayment(ctx context.Context, input types.TransitionInput) (*domain.Order, error)
	CancelOrder(ctx context.Context, input types.CancelOrderInput) (*domain.Order, error)
}

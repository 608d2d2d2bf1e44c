package ports

import (
	"context"

	"github.com/ventasve/ventasve-api/internal/domains/delivery/application/types"
	"github.com/ventasve/ventasve-api/internal/domains/delivery/domain"
)

// Service exposes the delivery use cases to adapters.
type Service interface {
	Assign(ctx context.Context, input types.AssignInput) (*domain.DeliveryOrder, error)
	ConfirmDelivery(ctx context.Context, input types.ConfirmInput) (*domain.DeliveryOrder, error)
	ReissueOTP(ctx context.Context, input types.ReissueOTPInput) (*domain.DeliveryOrder, error)
	GetDeliveryOrder(ctx context.Context, input types.DeliveryOrderIdentifier) (*domain.DeliveryOrder, error)
	ListPersonDeliveries(ctx context.Context, input types.ListDeliveriesInput) ([]*domain.DeliveryOrder, error)
	RegisterPerson(ctx context.Context, input types.RegisterPersonInput) (*domain.DeliveryPerson, error)
	GetPerson(ctx context.Context, input types.PersonIdentifier) (*domain.DeliveryPerson, error)
	SetAvailability(ctx context.Context, input types.AvailabilityInput) (*domain.DeliveryPerson, error)
}

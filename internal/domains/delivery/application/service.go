package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/ventasve/ventasve-api/internal/domains/delivery/application/types"
	"github.com/ventasve/ventasve-api/internal/domains/delivery/domain"
	"github.com/ventasve/ventasve-api/internal/domains/delivery/ports"
)

var _ ports.Service = (*Service)(nil)

// Service composes the delivery use cases behind ports.Service.
type Service struct {
	deps         Dependencies
	assigner     ports.AssignmentOrchestrator
	confirmation *ConfirmationService
	tracker      *AvailabilityTracker
}

// Option customises the Service.
type Option func(*Service)

// WithAssignmentOrchestrator routes Assign through orchestrator, typically a durable workflow.
func WithAssignmentOrchestrator(orchestrator ports.AssignmentOrchestrator) Option {
	return func(s *Service) {
		if orchestrator != nil {
			s.assigner = orchestrator
		}
	}
}

// NewService wires the delivery service. Assign runs inline unless an orchestrator is given.
func NewService(deps Dependencies, policy Policy, opts ...Option) *Service {
	deps = deps.withDefaults()
	s := &Service{
		deps:         deps,
		assigner:     NewAssignmentService(deps, policy),
		confirmation: NewConfirmationService(deps, policy),
		tracker:      NewAvailabilityTracker(deps),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Assign(ctx context.Context, input types.AssignInput) (*domain.DeliveryOrder, error) {
	return s.assigner.Assign(ctx, input)
}

func (s *Service) ConfirmDelivery(ctx context.Context, input types.ConfirmInput) (*domain.DeliveryOrder, error) {
	return s.confirmation.Confirm(ctx, input)
}

func (s *Service) ReissueOTP(ctx context.Context, input types.ReissueOTPInput) (*domain.DeliveryOrder, error) {
	return s.confirmation.Reissue(ctx, input)
}

func (s *Service) GetDeliveryOrder(ctx context.Context, input types.DeliveryOrderIdentifier) (*domain.DeliveryOrder, error) {
	order, err := s.deps.Deliveries.GetByID(ctx, strings.TrimSpace(input.ID))
	return order, mapError(err)
}

func (s *Service) ListPersonDeliveries(ctx context.Context, input types.ListDeliveriesInput) ([]*domain.DeliveryOrder, error) {
	for _, status := range input.Statuses {
		if !status.Valid() {
			return nil, fmt.Errorf("%w: %w %q", domain.ErrValidation, domain.ErrInvalidStatus, status)
		}
	}
	if _, err := s.deps.Persons.GetByID(ctx, input.DeliveryPersonID); err != nil {
		return nil, mapError(err)
	}
	orders, err := s.deps.Deliveries.ListByPerson(ctx, input.DeliveryPersonID, input.Statuses)
	return orders, mapError(err)
}

func (s *Service) RegisterPerson(ctx context.Context, input types.RegisterPersonInput) (*domain.DeliveryPerson, error) {
	return s.tracker.Register(ctx, input)
}

func (s *Service) GetPerson(ctx context.Context, input types.PersonIdentifier) (*domain.DeliveryPerson, error) {
	return s.tracker.Get(ctx, input)
}

func (s *Service) SetAvailability(ctx context.Context, input types.AvailabilityInput) (*domain.DeliveryPerson, error) {
	return s.tracker.SetAvailability(ctx, input)
}

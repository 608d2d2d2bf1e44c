package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ventasve/ventasve-api/internal/domains/delivery/application/types"
	"github.com/ventasve/ventasve-api/internal/domains/delivery/domain"
	"github.com/ventasve/ventasve-api/internal/domains/delivery/ports"
	ordersapp "github.com/ventasve/ventasve-api/internal/domains/orders/application"
	ordersdomain "github.com/ventasve/ventasve-api/internal/domains/orders/domain"
	"github.com/ventasve/ventasve-api/internal/platform/notify"
)

// AssignmentService binds drivers to confirmed orders.
type AssignmentService struct {
	deps      Dependencies
	policy    Policy
	lifecycle *ordersapp.Lifecycle
}

// NewAssignmentService wires the assignment use case.
func NewAssignmentService(deps Dependencies, policy Policy) *AssignmentService {
	deps = deps.withDefaults()
	return &AssignmentService{deps: deps, policy: policy, lifecycle: deps.lifecycle()}
}

// Assign creates the delivery order for input.OrderID and moves the order to SHIPPED in one
// transaction. A CONFIRMED order passes through PREPARING on the way.
func (s *AssignmentService) Assign(ctx context.Context, input types.AssignInput) (*domain.DeliveryOrder, error) {
	orderID := strings.TrimSpace(input.OrderID)
	personID := strings.TrimSpace(input.DeliveryPersonID)
	if orderID == "" {
		return nil, mapError(domain.ErrEmptyOrderID)
	}
	if personID == "" {
		return nil, mapError(domain.ErrEmptyPersonID)
	}
	otp, err := s.deps.OTP()
	if err != nil {
		return nil, fmt.Errorf("generate otp: %w", err)
	}

	var (
		created *domain.DeliveryOrder
		events  []ordersdomain.OrderStatusChanged
	)
	err = s.deps.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		order, err := s.deps.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if _, err := s.deps.Deliveries.GetByOrderID(ctx, orderID); err == nil {
			return domain.ErrDuplicateAssignment
		} else if !errors.Is(err, ports.ErrNotFound) {
			return err
		}
		if !s.eligible(order.Status) {
			return &ordersdomain.InvalidTransitionError{From: order.Status, To: ordersdomain.StatusShipped}
		}

		person, err := s.deps.Persons.GetForUpdate(ctx, personID)
		if err != nil {
			return err
		}
		if person.BusinessID != order.BusinessID {
			return domain.ErrBusinessMismatch
		}
		if !person.IsAvailable {
			if s.policy.StrictAvailability {
				return domain.ErrDriverUnavailable
			}
			s.deps.Logger.LogAttrs(ctx, slog.LevelWarn, "assigning unavailable delivery person",
				slog.String("order.id", orderID), slog.String("delivery_person.id", personID))
		}

		storeAddress := ""
		if s.deps.Businesses != nil {
			if storeAddress, err = s.deps.Businesses.StoreAddress(ctx, order.BusinessID); err != nil {
				return err
			}
		}
		now := s.deps.now()
		delivery, err := domain.NewDeliveryOrder(domain.NewDeliveryOrderParams{
			ID:                s.deps.NewID(),
			OrderID:           order.ID,
			DeliveryPersonID:  person.ID,
			BusinessID:        order.BusinessID,
			OTPCode:           otp,
			StoreAddress:      storeAddress,
			OrderAddress:      order.DeliveryAddress,
			ShippingCostCents: order.ShippingCostCents,
			OTPTTL:            s.policy.OTPTTL,
			CreatedAt:         now,
		})
		if err != nil {
			return err
		}

		events, err = s.lifecycle.AdvanceThrough(ctx, order, ordersdomain.StatusShipped, ordersapp.Change{
			Actor:    input.Actor,
			Reason:   "delivery assigned",
			Metadata: map[string]any{"deliveryOrderId": delivery.ID, "deliveryPersonId": person.ID},
		})
		if err != nil {
			return err
		}
		if created, err = s.deps.Deliveries.Create(ctx, delivery); err != nil {
			return err
		}
		return s.deps.Persons.SetAvailability(ctx, person.ID, false, now)
	})
	if err != nil {
		return nil, mapError(err)
	}

	notify.Dispatch(ctx, s.deps.Publisher, s.deps.Logger, statusThen(events, assignedMessage(domain.DeliveryAssigned{
		Timestamp:        created.CreatedAt,
		DeliveryOrderID:  created.ID,
		OrderID:          created.OrderID,
		BusinessID:       created.BusinessID,
		DeliveryPersonID: created.DeliveryPersonID,
		DeliveryFee:      created.DeliveryFee,
	}))...)
	return created, nil
}

func (s *AssignmentService) eligible(status ordersdomain.Status) bool {
	if s.policy.RequirePreparing {
		return status == ordersdomain.StatusPreparing
	}
	return status == ordersdomain.StatusConfirmed || status == ordersdomain.StatusPreparing
}

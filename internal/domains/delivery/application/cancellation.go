package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ventasve/ventasve-api/internal/domains/delivery/domain"
	"github.com/ventasve/ventasve-api/internal/domains/delivery/ports"
	ordersdomain "github.com/ventasve/ventasve-api/internal/domains/orders/domain"
	orderports "github.com/ventasve/ventasve-api/internal/domains/orders/ports"
)

var _ orderports.TransitionHook = (*OrderTransitionGuard)(nil)

// OrderTransitionGuard keeps delivery orders consistent with transitions requested through
// the order service. DELIVERED is reserved for OTP confirmation while a delivery is open, and
// cancelling an order releases its driver.
type OrderTransitionGuard struct {
	deps Dependencies
}

// NewOrderTransitionGuard wires the guard. Register it with the order service using
// ordersapp.WithTransitionHook.
func NewOrderTransitionGuard(deps Dependencies) *OrderTransitionGuard {
	return &OrderTransitionGuard{deps: deps.withDefaults()}
}

func (g *OrderTransitionGuard) BeforeTransition(ctx context.Context, order *ordersdomain.Order, target ordersdomain.Status) error {
	if target != ordersdomain.StatusDelivered {
		return nil
	}
	delivery, err := g.openDelivery(ctx, order.ID)
	if err != nil || delivery == nil {
		return err
	}
	return fmt.Errorf("%w: delivery order %s must be confirmed with its otp",
		&ordersdomain.InvalidTransitionError{From: order.Status, To: target}, delivery.ID)
}

func (g *OrderTransitionGuard) AfterTransition(ctx context.Context, order *ordersdomain.Order, from ordersdomain.Status, reason string) error {
	if order.Status != ordersdomain.StatusCancelled {
		return nil
	}
	delivery, err := g.openDelivery(ctx, order.ID)
	if err != nil || delivery == nil {
		return err
	}
	now := g.deps.now()
	if err := g.deps.Deliveries.MarkCancelled(ctx, delivery.ID, now); err != nil {
		return err
	}
	if err := g.deps.Persons.SetAvailability(ctx, delivery.DeliveryPersonID, true, now); err != nil {
		return err
	}
	g.deps.Logger.LogAttrs(ctx, slog.LevelInfo, "delivery cancelled with order",
		slog.String("order.id", order.ID),
		slog.String("delivery_order.id", delivery.ID),
		slog.String("from", string(from)),
		slog.String("reason", reason))
	return nil
}

// openDelivery returns the ASSIGNED delivery order for orderID, locked, or nil.
func (g *OrderTransitionGuard) openDelivery(ctx context.Context, orderID string) (*domain.DeliveryOrder, error) {
	found, err := g.deps.Deliveries.GetByOrderID(ctx, orderID)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if found.Status != domain.StatusAssigned {
		return nil, nil
	}
	return g.deps.Deliveries.GetForUpdate(ctx, found.ID)
}

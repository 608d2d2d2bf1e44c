package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ventasve/ventasve-api/internal/domains/orders/domain"
	"github.com/ventasve/ventasve-api/internal/domains/orders/ports"
)

// Lifecycle applies validated status transitions to persisted orders. It must run inside a
// transaction; callers publish the returned events after commit.
type Lifecycle struct {
	repo ports.Repository
	now  func() time.Time
}

// NewLifecycle binds the lifecycle to an order repository.
func NewLifecycle(repo ports.Repository, now func() time.Time) *Lifecycle {
	if now == nil {
		now = time.Now
	}
	return &Lifecycle{repo: repo, now: now}
}

// Change describes who moved the order and why, for the audit trail.
type Change struct {
	Actor    string
	Reason   string
	Metadata map[string]any
}

// Advance moves order to target, persisting the new status conditionally on the status it was
// read with and appending an audit record. order is updated in place only on success.
func (l *Lifecycle) Advance(ctx context.Context, order *domain.Order, target domain.Status, change Change) (domain.OrderStatusChanged, error) {
	at := l.now().UTC()
	next := *order
	if err := next.TransitionTo(target, at); err != nil {
		return domain.OrderStatusChanged{}, err
	}
	if err := l.repo.UpdateStatus(ctx, order.ID, order.Status, target, at); err != nil {
		if errors.Is(err, ports.ErrConflict) {
			return domain.OrderStatusChanged{}, fmt.Errorf("%w: %w", &domain.InvalidTransitionError{From: order.Status, To: target}, err)
		}
		return domain.OrderStatusChanged{}, err
	}
	if err := l.repo.AppendStatusChange(ctx, domain.StatusChange{
		OrderID:    order.ID,
		FromStatus: order.Status,
		ToStatus:   target,
		Actor:      change.Actor,
		Reason:     change.Reason,
		Metadata:   change.Metadata,
		OccurredAt: at,
	}); err != nil {
		return domain.OrderStatusChanged{}, err
	}
	event := domain.OrderStatusChanged{
		BaseEvent:  domain.BaseEvent{Timestamp: at},
		OrderID:    order.ID,
		BusinessID: order.BusinessID,
		FromStatus: order.Status,
		ToStatus:   target,
		Actor:      change.Actor,
	}
	*order = next
	return event, nil
}

// AdvanceThrough walks order one legal step at a time until it reaches target.
func (l *Lifecycle) AdvanceThrough(ctx context.Context, order *domain.Order, target domain.Status, change Change) ([]domain.OrderStatusChanged, error) {
	var events []domain.OrderStatusChanged
	for order.Status != target {
		next, ok := order.Status.Next()
		if !ok {
			return nil, &domain.InvalidTransitionError{From: order.Status, To: target}
		}
		event, err := l.Advance(ctx, order, next, change)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

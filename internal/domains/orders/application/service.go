package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ventasve/ventasve-api/internal/domains/orders/application/types"
	"github.com/ventasve/ventasve-api/internal/domains/orders/domain"
	"github.com/ventasve/ventasve-api/internal/domains/orders/ports"
	"github.com/ventasve/ventasve-api/internal/platform/notify"
	"github.com/ventasve/ventasve-api/internal/shared/transaction"
)

// Service orchestrates the order lifecycle use cases.
type Service struct {
	repo        ports.Repository
	tx          transaction.Manager
	lifecycle   *Lifecycle
	publisher   notify.Publisher
	idempotency ports.IdempotencyStore
	hooks       []ports.TransitionHook
	logger      *slog.Logger
	now         func() time.Time
	newID       func() string
}

// ServiceOption configures optional collaborators.
type ServiceOption func(*Service)

// WithPublisher sets the notification publisher used after each commit.
func WithPublisher(p notify.Publisher) ServiceOption {
	return func(s *Service) { s.publisher = p }
}

// WithIdempotencyStore enables Idempotency-Key handling for checkout.
func WithIdempotencyStore(store ports.IdempotencyStore) ServiceOption {
	return func(s *Service) { s.idempotency = store }
}

// WithTransitionHook registers a hook run inside every transition transaction.
func WithTransitionHook(h ports.TransitionHook) ServiceOption {
	return func(s *Service) {
		if h != nil {
			s.hooks = append(s.hooks, h)
		}
	}
}

// WithLogger sets the logger used for best-effort publish failures.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = logger }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService wires the order service. tx must cover the repository.
func NewService(repo ports.Repository, tx transaction.Manager, opts ...ServiceOption) *Service {
	s := &Service{
		repo:   repo,
		tx:     tx,
		logger: slog.Default(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.lifecycle = NewLifecycle(repo, s.now)
	return s
}

// Lifecycle exposes the transition engine for other contexts that move orders inside their
// own transactions.
func (s *Service) Lifecycle() *Lifecycle {
	return s.lifecycle
}

// PlaceOrder creates a PENDING order and emits new_order.
func (s *Service) PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*domain.Order, error) {
	key := strings.TrimSpace(input.IdempotencyKey)
	var fingerprint string
	if key != "" && s.idempotency != nil {
		hash, err := FingerprintPlaceOrder(input)
		if err != nil {
			return nil, err
		}
		fingerprint = hash
		existing, err := s.idempotency.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			if existing.RequestHash != fingerprint {
				return nil, ports.ErrIdempotencyConflict
			}
			return s.repo.GetByID(ctx, existing.OrderID)
		}
	}

	order, err := domain.NewOrder(domain.NewOrderParams{
		ID:                s.newID(),
		BusinessID:        input.BusinessID,
		CustomerID:        input.CustomerID,
		TotalCents:        input.TotalCents,
		PaymentMethod:     domain.PaymentMethod(strings.ToUpper(strings.TrimSpace(input.PaymentMethod))),
		ShippingCostCents: input.ShippingCostCents,
		DeliveryAddress:   input.DeliveryAddress,
		CreatedAt:         s.now().UTC(),
	})
	if err != nil {
		return nil, mapError(err)
	}

	var (
		saved    *domain.Order
		replayID string
	)
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if fingerprint != "" {
			// The key is reserved before the order is written so concurrent retries
			// serialize on it and only the first one creates an order.
			record, err := s.idempotency.Save(ctx, ports.IdempotencyRecord{Key: key, RequestHash: fingerprint, OrderID: order.ID})
			if err != nil {
				if errors.Is(err, ports.ErrIdempotencyConflict) && record != nil && record.RequestHash == fingerprint {
					replayID = record.OrderID
					return nil
				}
				return err
			}
		}
		created, err := s.repo.Create(ctx, order)
		if err != nil {
			return err
		}
		if err := s.repo.AppendStatusChange(ctx, domain.StatusChange{
			OrderID:    created.ID,
			ToStatus:   domain.StatusPending,
			Actor:      created.CustomerID,
			Reason:     "checkout",
			OccurredAt: created.CreatedAt,
		}); err != nil {
			return err
		}
		saved = created
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	if replayID != "" {
		return s.repo.GetByID(ctx, replayID)
	}

	s.publish(ctx, domain.OrderPlaced{
		BaseEvent:     domain.BaseEvent{Timestamp: saved.CreatedAt},
		OrderID:       saved.ID,
		BusinessID:    saved.BusinessID,
		CustomerID:    saved.CustomerID,
		TotalCents:    saved.TotalCents,
		PaymentMethod: saved.PaymentMethod,
	})
	return saved, nil
}

// GetOrder loads a single order.
func (s *Service) GetOrder(ctx context.Context, input types.OrderIdentifier) (*domain.Order, error) {
	return s.repo.GetByID(ctx, input.ID)
}

// ListOrders returns a business' orders, optionally filtered by status.
func (s *Service) ListOrders(ctx context.Context, input types.ListOrdersInput) ([]*domain.Order, error) {
	for _, status := range input.Statuses {
		if !status.Valid() {
			return nil, mapError(domain.ErrInvalidStatus)
		}
	}
	return s.repo.ListByBusiness(ctx, input.BusinessID, input.Statuses)
}

// History returns the audit trail of an order, oldest first.
func (s *Service) History(ctx context.Context, input types.OrderIdentifier) ([]domain.StatusChange, error) {
	if _, err := s.repo.GetByID(ctx, input.ID); err != nil {
		return nil, err
	}
	return s.repo.ListStatusChanges(ctx, input.ID)
}

// ApplyTransition validates and persists a single lifecycle move. Publishing the resulting
// order_status_changed event is best-effort and never undoes the transition.
func (s *Service) ApplyTransition(ctx context.Context, input types.TransitionInput) (*domain.Order, error) {
	if !input.Target.Valid() {
		return nil, mapError(domain.ErrInvalidStatus)
	}
	var (
		order *domain.Order
		event domain.OrderStatusChanged
	)
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetForUpdate(ctx, input.OrderID)
		if err != nil {
			return err
		}
		from := current.Status
		if domain.CanTransition(from, input.Target) {
			for _, h := range s.hooks {
				if err := h.BeforeTransition(ctx, current, input.Target); err != nil {
					return err
				}
			}
		}
		event, err = s.lifecycle.Advance(ctx, current, input.Target, Change{Actor: input.Actor, Reason: input.Reason})
		if err != nil {
			return err
		}
		for _, h := range s.hooks {
			if err := h.AfterTransition(ctx, current, from, input.Reason); err != nil {
				return fmt.Errorf("transition hook: %w", err)
			}
		}
		order = current
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	s.publish(ctx, event)
	return order, nil
}

// VerifyPayment confirms a PENDING order once the merchant has reconciled the payment.
func (s *Service) VerifyPayment(ctx context.Context, input types.TransitionInput) (*domain.Order, error) {
	var (
		order *domain.Order
		event domain.OrderStatusChanged
	)
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetForUpdate(ctx, input.OrderID)
		if err != nil {
			return err
		}
		if current.Status != domain.StatusPending {
			return &domain.InvalidTransitionError{From: current.Status, To: domain.StatusConfirmed}
		}
		reason := input.Reason
		if reason == "" {
			reason = "payment verified"
		}
		event, err = s.lifecycle.Advance(ctx, current, domain.StatusConfirmed, Change{
			Actor:    input.Actor,
			Reason:   reason,
			Metadata: map[string]any{"paymentMethod": string(current.PaymentMethod)},
		})
		if err != nil {
			return err
		}
		order = current
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	s.publish(ctx,
		domain.PaymentVerified{
			BaseEvent:     domain.BaseEvent{Timestamp: event.OccurredAt()},
			OrderID:       order.ID,
			BusinessID:    order.BusinessID,
			PaymentMethod: order.PaymentMethod,
			TotalCents:    order.TotalCents,
		},
		event,
	)
	return order, nil
}

// CancelOrder moves the order to CANCELLED; registered hooks release dependent state.
func (s *Service) CancelOrder(ctx context.Context, input types.CancelOrderInput) (*domain.Order, error) {
	return s.ApplyTransition(ctx, types.TransitionInput{
		OrderID: input.OrderID,
		Target:  domain.StatusCancelled,
		Actor:   input.Actor,
		Reason:  input.Reason,
	})
}

func (s *Service) publish(ctx context.Context, events ...domain.Event) {
	msgs := make([]notify.Message, 0, len(events))
	for _, e := range events {
		if msg, ok := ToMessage(e); ok {
			msgs = append(msgs, msg)
		}
	}
	notify.Dispatch(ctx, s.publisher, s.logger, msgs...)
}

var _ ports.Service = (*Service)(nil)

package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ventasve/ventasve-api/internal/domains/delivery/application/types"
	"github.com/ventasve/ventasve-api/internal/domains/delivery/domain"
	"github.com/ventasve/ventasve-api/internal/domains/delivery/ports"
	ordersapp "github.com/ventasve/ventasve-api/internal/domains/orders/application"
	ordersdomain "github.com/ventasve/ventasve-api/internal/domains/orders/domain"
	"github.com/ventasve/ventasve-api/internal/platform/notify"
)

// ConfirmationService closes deliveries once the customer hands over the OTP.
type ConfirmationService struct {
	deps      Dependencies
	policy    Policy
	lifecycle *ordersapp.Lifecycle
}

// NewConfirmationService wires the confirmation use case.
func NewConfirmationService(deps Dependencies, policy Policy) *ConfirmationService {
	deps = deps.withDefaults()
	return &ConfirmationService{deps: deps, policy: policy, lifecycle: deps.lifecycle()}
}

// Confirm validates the submitted code and, on a match, marks the delivery and its order
// DELIVERED and credits the driver, all in one transaction. The ASSIGNED to DELIVERED write
// gates the counter increment, so a repeated confirmation fails with ErrAlreadyDelivered.
func (s *ConfirmationService) Confirm(ctx context.Context, input types.ConfirmInput) (*domain.DeliveryOrder, error) {
	id := strings.TrimSpace(input.DeliveryOrderID)
	if id == "" {
		return nil, fmt.Errorf("%w: delivery order id is required", domain.ErrValidation)
	}
	if err := domain.ValidateOTPFormat(input.OTPCode); err != nil {
		return nil, mapError(err)
	}

	var (
		confirmed *domain.DeliveryOrder
		events    []ordersdomain.OrderStatusChanged
		mismatch  bool
	)
	err := s.deps.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		// Lock the order before the delivery row, matching the order used by assignment and
		// cancellation.
		peek, err := s.deps.Deliveries.GetByID(ctx, id)
		if err != nil {
			return err
		}
		order, err := s.deps.Orders.GetForUpdate(ctx, peek.OrderID)
		if err != nil {
			return err
		}
		delivery, err := s.deps.Deliveries.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		switch delivery.Status {
		case domain.StatusDelivered:
			return domain.ErrAlreadyDelivered
		case domain.StatusCancelled:
			return fmt.Errorf("%w: delivery order was cancelled", ordersdomain.ErrInvalidTransition)
		}
		now := s.deps.now()
		if s.policy.MaxOTPAttempts > 0 && delivery.OTPAttempts >= s.policy.MaxOTPAttempts {
			return domain.ErrOTPLocked
		}
		if delivery.OTPExpired(now) {
			return domain.ErrOTPExpired
		}
		if !domain.MatchOTP(delivery.OTPCode, input.OTPCode) {
			if s.policy.MaxOTPAttempts == 0 {
				return domain.ErrOTPInvalid
			}
			attempts, err := s.deps.Deliveries.RecordFailedAttempt(ctx, id, now)
			if err != nil {
				return err
			}
			s.deps.Logger.LogAttrs(ctx, slog.LevelWarn, "delivery otp mismatch",
				slog.String("delivery_order.id", id), slog.Int("otp.attempts", attempts))
			// Commit the attempt counter; the mismatch is reported after the transaction.
			mismatch = true
			return nil
		}

		if err := s.deps.Deliveries.MarkDelivered(ctx, id, now); err != nil {
			if errors.Is(err, ports.ErrConflict) {
				return domain.ErrAlreadyDelivered
			}
			return err
		}
		event, err := s.lifecycle.Advance(ctx, order, ordersdomain.StatusDelivered, ordersapp.Change{
			Actor:    input.Actor,
			Reason:   "delivery confirmed with otp",
			Metadata: map[string]any{"deliveryOrderId": id},
		})
		if err != nil {
			return err
		}
		events = append(events, event)
		if err := s.deps.Persons.RecordCompletedDelivery(ctx, delivery.DeliveryPersonID, now); err != nil {
			return err
		}
		delivery.Status = domain.StatusDelivered
		delivery.DeliveredAt = &now
		delivery.UpdatedAt = now
		confirmed = delivery
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	if mismatch {
		return nil, domain.ErrOTPInvalid
	}

	notify.Dispatch(ctx, s.deps.Publisher, s.deps.Logger, statusThen(events, completedMessage(domain.DeliveryCompleted{
		Timestamp:        *confirmed.DeliveredAt,
		DeliveryOrderID:  confirmed.ID,
		OrderID:          confirmed.OrderID,
		BusinessID:       confirmed.BusinessID,
		DeliveryPersonID: confirmed.DeliveryPersonID,
	}))...)
	return confirmed, nil
}

// Reissue replaces the handoff code of an ASSIGNED delivery order, clears the failed attempt
// counter and restarts the expiry window. It is the way out of ErrOTPLocked and ErrOTPExpired.
func (s *ConfirmationService) Reissue(ctx context.Context, input types.ReissueOTPInput) (*domain.DeliveryOrder, error) {
	id := strings.TrimSpace(input.DeliveryOrderID)
	if id == "" {
		return nil, fmt.Errorf("%w: delivery order id is required", domain.ErrValidation)
	}
	code, err := s.deps.OTP()
	if err != nil {
		return nil, fmt.Errorf("generate otp: %w", err)
	}

	var reissued *domain.DeliveryOrder
	err = s.deps.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		delivery, err := s.deps.Deliveries.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		switch delivery.Status {
		case domain.StatusDelivered:
			return domain.ErrAlreadyDelivered
		case domain.StatusCancelled:
			return fmt.Errorf("%w: delivery order was cancelled", ordersdomain.ErrInvalidTransition)
		}
		now := s.deps.now()
		var expiresAt *time.Time
		if s.policy.OTPTTL > 0 {
			expires := now.Add(s.policy.OTPTTL)
			expiresAt = &expires
		}
		if err := s.deps.Deliveries.ReplaceOTP(ctx, id, code, expiresAt, now); err != nil {
			if errors.Is(err, ports.ErrConflict) {
				return fmt.Errorf("%w: delivery order is no longer assigned", ordersdomain.ErrInvalidTransition)
			}
			return err
		}
		s.deps.Logger.LogAttrs(ctx, slog.LevelInfo, "delivery otp reissued",
			slog.String("delivery_order.id", id), slog.String("actor", input.Actor),
			slog.Int("otp.previous_attempts", delivery.OTPAttempts))
		delivery.OTPCode = code
		delivery.OTPAttempts = 0
		delivery.OTPExpiresAt = expiresAt
		delivery.UpdatedAt = now
		reissued = delivery
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return reissued, nil
}

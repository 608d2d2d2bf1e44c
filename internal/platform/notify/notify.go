// Package notify delivers fire-and-forget business events (new_order, order_status_changed,
// payment_verified, ...) to the realtime collaborators subscribed per business.
package notify

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Message is the JSON envelope emitted for every event.
type Message struct {
	EventID    string         `json:"eventId"`
	Type       string         `json:"type"`
	BusinessID string         `json:"businessId"`
	OrderID    string         `json:"orderId"`
	Status     string         `json:"status,omitempty"`
	OccurredAt time.Time      `json:"occurredAt"`
	Data       map[string]any `json:"data,omitempty"`
}

// Publisher emits messages to a notification channel.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, msg Message) error

// Publish calls f.
func (f PublisherFunc) Publish(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}

// Dispatch publishes msgs one by one. Failures are logged and never returned, so callers can
// invoke it after a commit without affecting the outcome of the operation.
func Dispatch(ctx context.Context, pub Publisher, logger *slog.Logger, msgs ...Message) {
	if pub == nil {
		return
	}
	for _, msg := range msgs {
		if msg.EventID == "" {
			msg.EventID = uuid.NewString()
		}
		if err := pub.Publish(ctx, msg); err != nil && logger != nil {
			logger.LogAttrs(ctx, slog.LevelWarn, "event publish failed",
				slog.String("event.type", msg.Type),
				slog.String("order.id", msg.OrderID),
				slog.String("business.id", msg.BusinessID),
				slog.String("error", err.Error()))
		}
	}
}

// Multi fans a message out to every publisher and joins their errors.
type Multi []Publisher

// Publish sends msg to all publishers, continuing past failures.
func (m Multi) Publish(ctx context.Context, msg Message) error {
	var errs error
	for _, p := range m {
		if p == nil {
			continue
		}
		errs = errors.Join(errs, p.Publish(ctx, msg))
	}
	return errs
}

// LogPublisher writes each message to the structured log. It is the fallback when no
// broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher wraps logger.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs msg at info level.
func (p *LogPublisher) Publish(ctx context.Context, msg Message) error {
	if p == nil || p.logger == nil {
		return nil
	}
	p.logger.LogAttrs(ctx, slog.LevelInfo, "event emitted",
		slog.String("event.id", msg.EventID),
		slog.String("event.type", msg.Type),
		slog.String("business.id", msg.BusinessID),
		slog.String("order.id", msg.OrderID),
		slog.String("status", msg.Status))
	return nil
}

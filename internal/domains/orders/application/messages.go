package application

import (
	"github.com/ventasve/ventasve-api/internal/domains/orders/domain"
	"github.com/ventasve/ventasve-api/internal/platform/notify"
)

// ToMessage converts an order domain event to the notification envelope.
func ToMessage(event domain.Event) (notify.Message, bool) {
	switch e := event.(type) {
	case domain.OrderStatusChanged:
		return notify.Message{
			Type:       e.EventName(),
			BusinessID: e.BusinessID,
			OrderID:    e.OrderID,
			Status:     string(e.ToStatus),
			OccurredAt: e.OccurredAt(),
			Data: map[string]any{
				"fromStatus": string(e.FromStatus),
				"actor":      e.Actor,
			},
		}, true
	case domain.OrderPlaced:
		return notify.Message{
			Type:       e.EventName(),
			BusinessID: e.BusinessID,
			OrderID:    e.OrderID,
			Status:     string(domain.StatusPending),
			OccurredAt: e.OccurredAt(),
			Data: map[string]any{
				"customerId":    e.CustomerID,
				"totalCents":    e.TotalCents,
				"paymentMethod": string(e.PaymentMethod),
			},
		}, true
	case domain.PaymentVerified:
		return notify.Message{
			Type:       e.EventName(),
			BusinessID: e.BusinessID,
			OrderID:    e.OrderID,
			Status:     string(domain.StatusConfirmed),
			OccurredAt: e.OccurredAt(),
			Data: map[string]any{
				"paymentMethod": string(e.PaymentMethod),
				"totalCents":    e.TotalCents,
			},
		}, true
	default:
		return notify.Message{}, false
	}
}

// StatusMessages converts a batch of status change events.
func StatusMessages(events []domain.OrderStatusChanged) []notify.Message {
	out := make([]notify.Message, 0, len(events))
	for _, e := range events {
		if msg, ok := ToMessage(e); ok {
			out = append(out, msg)
		}
	}
	return out
}

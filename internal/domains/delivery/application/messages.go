package application

import (
	"github.com/ventasve/ventasve-api/internal/domains/delivery/domain"
	ordersapp "github.com/ventasve/ventasve-api/internal/domains/orders/application"
	ordersdomain "github.com/ventasve/ventasve-api/internal/domains/orders/domain"
	"github.com/ventasve/ventasve-api/internal/platform/notify"
)

func assignedMessage(e domain.DeliveryAssigned) notify.Message {
	return notify.Message{
		Type:       e.EventName(),
		BusinessID: e.BusinessID,
		OrderID:    e.OrderID,
		Status:     string(domain.StatusAssigned),
		OccurredAt: e.OccurredAt(),
		Data: map[string]any{
			"deliveryOrderId":  e.DeliveryOrderID,
			"deliveryPersonId": e.DeliveryPersonID,
			"deliveryFee":      e.DeliveryFee.StringFixed(2),
		},
	}
}

func completedMessage(e domain.DeliveryCompleted) notify.Message {
	return notify.Message{
		Type:       e.EventName(),
		BusinessID: e.BusinessID,
		OrderID:    e.OrderID,
		Status:     string(domain.StatusDelivered),
		OccurredAt: e.OccurredAt(),
		Data: map[string]any{
			"deliveryOrderId":  e.DeliveryOrderID,
			"deliveryPersonId": e.DeliveryPersonID,
		},
	}
}

// statusThen lists the order status messages followed by extra delivery messages.
func statusThen(events []ordersdomain.OrderStatusChanged, extra ...notify.Message) []notify.Message {
	return append(ordersapp.StatusMessages(events), extra...)
}

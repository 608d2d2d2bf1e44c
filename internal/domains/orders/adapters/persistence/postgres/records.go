package postgres

import (
	"time"

	"gorm.io/datatypes"

	"github.com/ventasve/ventasve-api/internal/domains/orders/domain"
	"github.com/ventasve/ventasve-api/internal/domains/orders/ports"
)

// Models lists the tables owned by the orders context, for migrations.
func Models() []any {
	return []any{&orderRecord{}, &statusChangeRecord{}, &idempotencyRecord{}}
}

type orderRecord struct {
	ID                string    `gorm:"primaryKey;column:id;type:uuid"`
	BusinessID        string    `gorm:"column:business_id;type:varchar(64);not null;index:idx_orders_business_status"`
	CustomerID        string    `gorm:"column:customer_id;type:varchar(64);not null;index"`
	TotalCents        int64     `gorm:"column:total_cents;not null;check:chk_orders_total_cents,total_cents >= 0"`
	PaymentMethod     string    `gorm:"column:payment_method;type:varchar(16);not null"`
	Status            string    `gorm:"column:status;type:varchar(16);not null;index:idx_orders_business_status"`
	ShippingCostCents *int64    `gorm:"column:shipping_cost_cents;check:chk_orders_shipping_cost_cents,shipping_cost_cents >= 0"`
	DeliveryAddress   string    `gorm:"column:delivery_address"`
	CreatedAt         time.Time `gorm:"column:created_at;index"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type statusChangeRecord struct {
	ID         int64             `gorm:"primaryKey;autoIncrement;column:id"`
	OrderID    string            `gorm:"column:order_id;type:uuid;not null;index"`
	FromStatus string            `gorm:"column:from_status;type:varchar(16)"`
	ToStatus   string            `gorm:"column:to_status;type:varchar(16);not null"`
	Actor      string            `gorm:"column:actor;type:varchar(64)"`
	Reason     string            `gorm:"column:reason"`
	Metadata   datatypes.JSONMap `gorm:"column:metadata"`
	OccurredAt time.Time         `gorm:"column:occurred_at;not null"`
}

func (statusChangeRecord) TableName() string { return "order_status_events" }

type idempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	OrderID     string    `gorm:"column:order_id;type:uuid"`
	CreatedAt   time.Time `gorm:"column:created_at;index"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (idempotencyRecord) TableName() string { return "order_idempotency_keys" }

func toRecord(order *domain.Order) orderRecord {
	return orderRecord{
		ID:                order.ID,
		BusinessID:        order.BusinessID,
		CustomerID:        order.CustomerID,
		TotalCents:        order.TotalCents,
		PaymentMethod:     string(order.PaymentMethod),
		Status:            string(order.Status),
		ShippingCostCents: order.ShippingCostCents,
		DeliveryAddress:   order.DeliveryAddress,
		CreatedAt:         order.CreatedAt,
		UpdatedAt:         order.UpdatedAt,
	}
}

func (r orderRecord) toDomain() *domain.Order {
	return &domain.Order{
		ID:                r.ID,
		BusinessID:        r.BusinessID,
		CustomerID:        r.CustomerID,
		TotalCents:        r.TotalCents,
		PaymentMethod:     domain.PaymentMethod(r.PaymentMethod),
		Status:            domain.Status(r.Status),
		ShippingCostCents: r.ShippingCostCents,
		DeliveryAddress:   r.DeliveryAddress,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

func toStatusChangeRecord(c domain.StatusChange) statusChangeRecord {
	var meta datatypes.JSONMap
	if len(c.Metadata) > 0 {
		meta = datatypes.JSONMap(c.Metadata)
	}
	return statusChangeRecord{
		OrderID:    c.OrderID,
		FromStatus: string(c.FromStatus),
		ToStatus:   string(c.ToStatus),
		Actor:      c.Actor,
		Reason:     c.Reason,
		Metadata:   meta,
		OccurredAt: c.OccurredAt,
	}
}

func (r statusChangeRecord) toDomain() domain.StatusChange {
	return domain.StatusChange{
		OrderID:    r.OrderID,
		FromStatus: domain.Status(r.FromStatus),
		ToStatus:   domain.Status(r.ToStatus),
		Actor:      r.Actor,
		Reason:     r.Reason,
		Metadata:   map[string]any(r.Metadata),
		OccurredAt: r.OccurredAt,
	}
}

func toIdempotencyRecord(rec ports.IdempotencyRecord) idempotencyRecord {
	return idempotencyRecord{
		Key:         rec.Key,
		RequestHash: rec.RequestHash,
		OrderID:     rec.OrderID,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
}

func (r *idempotencyRecord) toPort() *ports.IdempotencyRecord {
	if r == nil {
		return nil
	}
	return &ports.IdempotencyRecord{
		Key:         r.Key,
		RequestHash: r.RequestHash,
		OrderID:     r.OrderID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

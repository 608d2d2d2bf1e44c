package postgres

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ventasve/ventasve-api/internal/domains/delivery/domain"
)

// Models lists the tables owned by the delivery context, for migrations.
func Models() []any {
	return []any{&businessRecord{}, &deliveryPersonRecord{}, &deliveryOrderRecord{}}
}

type businessRecord struct {
	ID           string    `gorm:"primaryKey;column:id;type:varchar(64)"`
	Name         string    `gorm:"column:name"`
	StoreAddress string    `gorm:"column:store_address"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (businessRecord) TableName() string { return "businesses" }

type deliveryPersonRecord struct {
	ID              string    `gorm:"primaryKey;column:id;type:uuid"`
	BusinessID      string    `gorm:"column:business_id;type:varchar(64);not null;index"`
	Name            string    `gorm:"column:name;not null"`
	Phone           string    `gorm:"column:phone;type:varchar(32)"`
	IsAvailable     bool      `gorm:"column:is_available;not null;default:true"`
	CompletedOrders int       `gorm:"column:completed_orders;not null;default:0;check:chk_delivery_persons_completed,completed_orders >= 0"`
	TotalDeliveries int       `gorm:"column:total_deliveries;not null;default:0;check:chk_delivery_persons_total,total_deliveries >= 0"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (deliveryPersonRecord) TableName() string { return "delivery_persons" }

type deliveryOrderRecord struct {
	ID               string          `gorm:"primaryKey;column:id;type:uuid"`
	OrderID          string          `gorm:"column:order_id;type:uuid;not null;uniqueIndex:uq_delivery_orders_order_id"`
	DeliveryPersonID string          `gorm:"column:delivery_person_id;type:uuid;not null;index:idx_delivery_orders_person_status"`
	BusinessID       string          `gorm:"column:business_id;type:varchar(64);not null;index"`
	Status           string          `gorm:"column:status;type:varchar(16);not null;index:idx_delivery_orders_person_status"`
	OTPCode          string          `gorm:"column:otp_code;type:char(6);not null"`
	OTPAttempts      int             `gorm:"column:otp_attempts;not null;default:0"`
	OTPExpiresAt     *time.Time      `gorm:"column:otp_expires_at"`
	PickupAddress    string          `gorm:"column:pickup_address;not null"`
	DeliveryAddress  string          `gorm:"column:delivery_address;not null"`
	DeliveryFee      decimal.Decimal `gorm:"column:delivery_fee;type:numeric(10,2);not null"`
	DeliveredAt      *time.Time      `gorm:"column:delivered_at"`
	CancelledAt      *time.Time      `gorm:"column:cancelled_at"`
	CreatedAt        time.Time       `gorm:"column:created_at;index"`
	UpdatedAt        time.Time       `gorm:"column:updated_at"`
}

func (deliveryOrderRecord) TableName() string { return "delivery_orders" }

func toOrderRecord(d *domain.DeliveryOrder) deliveryOrderRecord {
	return deliveryOrderRecord{
		ID:               d.ID,
		OrderID:          d.OrderID,
		DeliveryPersonID: d.DeliveryPersonID,
		BusinessID:       d.BusinessID,
		Status:           string(d.Status),
		OTPCode:          d.OTPCode,
		OTPAttempts:      d.OTPAttempts,
		OTPExpiresAt:     d.OTPExpiresAt,
		PickupAddress:    d.PickupAddress,
		DeliveryAddress:  d.DeliveryAddress,
		DeliveryFee:      d.DeliveryFee,
		DeliveredAt:      d.DeliveredAt,
		CancelledAt:      d.CancelledAt,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

func (r deliveryOrderRecord) toDomain() *domain.DeliveryOrder {
	return &domain.DeliveryOrder{
		ID:               r.ID,
		OrderID:          r.OrderID,
		DeliveryPersonID: r.DeliveryPersonID,
		BusinessID:       r.BusinessID,
		Status:           domain.Status(r.Status),
		OTPCode:          r.OTPCode,
		OTPAttempts:      r.OTPAttempts,
		OTPExpiresAt:     r.OTPExpiresAt,
		PickupAddress:    r.PickupAddress,
		DeliveryAddress:  r.DeliveryAddress,
		DeliveryFee:      r.DeliveryFee,
		DeliveredAt:      r.DeliveredAt,
		CancelledAt:      r.CancelledAt,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func toPersonRecord(p *domain.DeliveryPerson) deliveryPersonRecord {
	return deliveryPersonRecord{
		ID:              p.ID,
		BusinessID:      p.BusinessID,
		Name:            p.Name,
		Phone:           p.Phone,
		IsAvailable:     p.IsAvailable,
		CompletedOrders: p.CompletedOrders,
		TotalDeliveries: p.TotalDeliveries,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func (r deliveryPersonRecord) toDomain() *domain.DeliveryPerson {
	return &domain.DeliveryPerson{
		ID:              r.ID,
		BusinessID:      r.BusinessID,
		Name:            r.Name,
		Phone:           r.Phone,
		IsAvailable:     r.IsAvailable,
		CompletedOrders: r.CompletedOrders,
		TotalDeliveries: r.TotalDeliveries,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

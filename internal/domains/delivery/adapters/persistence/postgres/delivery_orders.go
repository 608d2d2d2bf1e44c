package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ventasve/ventasve-api/internal/domains/delivery/domain"
	"github.com/ventasve/ventasve-api/internal/domains/delivery/ports"
	platformpostgres "github.com/ventasve/ventasve-api/internal/platform/postgres"
)

var _ ports.DeliveryOrderRepository = (*DeliveryOrderRepository)(nil)

// DeliveryOrderRepository persists delivery orders with GORM. The unique index on order_id
// backs the one-delivery-per-order rule.
type DeliveryOrderRepository struct {
	db *gorm.DB
}

func NewDeliveryOrderRepository(db *gorm.DB) *DeliveryOrderRepository {
	return &DeliveryOrderRepository{db: db}
}

func (r *DeliveryOrderRepository) Create(ctx context.Context, order *domain.DeliveryOrder) (*domain.DeliveryOrder, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("delivery order is nil")
	}
	record := toOrderRecord(order)
	if err := r.conn(ctx).Create(&record).Error; err != nil {
		if platformpostgres.IsUniqueViolation(err) {
			return nil, ports.ErrOrderTaken
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *DeliveryOrderRepository) GetByID(ctx context.Context, id string) (*domain.DeliveryOrder, error) {
	return r.first(ctx, false, "id = ?", id)
}

func (r *DeliveryOrderRepository) GetForUpdate(ctx context.Context, id string) (*domain.DeliveryOrder, error) {
	return r.first(ctx, true, "id = ?", id)
}

func (r *DeliveryOrderRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.DeliveryOrder, error) {
	return r.first(ctx, false, "order_id = ?", orderID)
}

func (r *DeliveryOrderRepository) first(ctx context.Context, lock bool, where string, arg any) (*domain.DeliveryOrder, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.conn(ctx)
	if lock {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var record deliveryOrderRecord
	if err := query.First(&record, where, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *DeliveryOrderRepository) ListByPerson(ctx context.Context, personID string, statuses []domain.Status) ([]*domain.DeliveryOrder, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.conn(ctx).Where("delivery_person_id = ?", personID)
	if len(statuses) > 0 {
		values := make([]string, 0, len(statuses))
		for _, s := range statuses {
			values = append(values, string(s))
		}
		query = query.Where("status = ANY(?)", pq.Array(values))
	}
	var records []deliveryOrderRecord
	if err := query.Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.DeliveryOrder, 0, len(records))
	for i := range records {
		out = append(out, records[i].toDomain())
	}
	return out, nil
}

func (r *DeliveryOrderRepository) MarkDelivered(ctx context.Context, id string, at time.Time) error {
	return r.closeAssigned(ctx, id, map[string]any{
		"status":       string(domain.StatusDelivered),
		"delivered_at": at,
		"updated_at":   at,
	})
}

func (r *DeliveryOrderRepository) MarkCancelled(ctx context.Context, id string, at time.Time) error {
	return r.closeAssigned(ctx, id, map[string]any{
		"status":       string(domain.StatusCancelled),
		"cancelled_at": at,
		"updated_at":   at,
	})
}

// closeAssigned applies updates only while the row is still ASSIGNED.
func (r *DeliveryOrderRepository) closeAssigned(ctx context.Context, id string, updates map[string]any) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.conn(ctx).Model(&deliveryOrderRecord{}).
		Where("id = ? AND status = ?", id, string(domain.StatusAssigned)).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ports.ErrConflict
	}
	return nil
}

func (r *DeliveryOrderRepository) RecordFailedAttempt(ctx context.Context, id string, at time.Time) (int, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var record deliveryOrderRecord
	result := r.conn(ctx).Model(&record).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "otp_attempts"}}}).
		Where("id = ?", id).
		Updates(map[string]any{"otp_attempts": gorm.Expr("otp_attempts + 1"), "updated_at": at})
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, ports.ErrNotFound
	}
	return record.OTPAttempts, nil
}

func (r *DeliveryOrderRepository) ReplaceOTP(ctx context.Context, id, code string, expiresAt *time.Time, at time.Time) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.conn(ctx).Model(&deliveryOrderRecord{}).
		Where("id = ? AND status = ?", id, string(domain.StatusAssigned)).
		Updates(map[string]any{
			"otp_code":       code,
			"otp_attempts":   0,
			"otp_expires_at": expiresAt,
			"updated_at":     at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ports.ErrConflict
	}
	return nil
}

func (r *DeliveryOrderRepository) conn(ctx context.Context) *gorm.DB {
	return platformpostgres.Conn(ctx, r.db)
}

func (r *DeliveryOrderRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres delivery order repository not configured")
	}
	return nil
}

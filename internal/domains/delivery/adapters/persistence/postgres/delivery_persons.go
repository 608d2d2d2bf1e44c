package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ventasve/ventasve-api/internal/domains/delivery/domain"
	"github.com/ventasve/ventasve-api/internal/domains/delivery/ports"
	platformpostgres "github.com/ventasve/ventasve-api/internal/platform/postgres"
)

var (
	_ ports.DeliveryPersonRepository = (*DeliveryPersonRepository)(nil)
	_ ports.BusinessDirectory        = (*BusinessDirectory)(nil)
)

// DeliveryPersonRepository persists drivers with GORM. Counter updates are single
// increment statements so they never lose writes.
type DeliveryPersonRepository struct {
	db *gorm.DB
}

func NewDeliveryPersonRepository(db *gorm.DB) *DeliveryPersonRepository {
	return &DeliveryPersonRepository{db: db}
}

func (r *DeliveryPersonRepository) Create(ctx context.Context, person *domain.DeliveryPerson) (*domain.DeliveryPerson, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if person == nil {
		return nil, errors.New("delivery person is nil")
	}
	record := toPersonRecord(person)
	if err := r.conn(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *DeliveryPersonRepository) GetByID(ctx context.Context, id string) (*domain.DeliveryPerson, error) {
	return r.get(ctx, id, false)
}

func (r *DeliveryPersonRepository) GetForUpdate(ctx context.Context, id string) (*domain.DeliveryPerson, error) {
	return r.get(ctx, id, true)
}

func (r *DeliveryPersonRepository) get(ctx context.Context, id string, lock bool) (*domain.DeliveryPerson, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.conn(ctx)
	if lock {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var record deliveryPersonRecord
	if err := query.First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrPersonNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *DeliveryPersonRepository) SetAvailability(ctx context.Context, id string, available bool, at time.Time) error {
	return r.update(ctx, id, map[string]any{"is_available": available, "updated_at": at})
}

func (r *DeliveryPersonRepository) RecordCompletedDelivery(ctx context.Context, id string, at time.Time) error {
	return r.update(ctx, id, map[string]any{
		"completed_orders": gorm.Expr("completed_orders + 1"),
		"total_deliveries": gorm.Expr("total_deliveries + 1"),
		"is_available":     true,
		"updated_at":       at,
	})
}

func (r *DeliveryPersonRepository) update(ctx context.Context, id string, updates map[string]any) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.conn(ctx).Model(&deliveryPersonRecord{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrPersonNotFound
	}
	return nil
}

func (r *DeliveryPersonRepository) conn(ctx context.Context) *gorm.DB {
	return platformpostgres.Conn(ctx, r.db)
}

func (r *DeliveryPersonRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres delivery person repository not configured")
	}
	return nil
}

// BusinessDirectory reads pickup addresses from the businesses table.
type BusinessDirectory struct {
	db *gorm.DB
}

func NewBusinessDirectory(db *gorm.DB) *BusinessDirectory {
	return &BusinessDirectory{db: db}
}

// StoreAddress returns "" for unknown businesses.
func (d *BusinessDirectory) StoreAddress(ctx context.Context, businessID string) (string, error) {
	var record businessRecord
	err := platformpostgres.Conn(ctx, d.db).Select("store_address").First(&record, "id = ?", businessID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return record.StoreAddress, nil
}

// UpsertStoreAddress records the pickup address of a business.
func (d *BusinessDirectory) UpsertStoreAddress(ctx context.Context, businessID, name, address string) error {
	record := businessRecord{ID: businessID, Name: name, StoreAddress: address, CreatedAt: time.Now().UTC()}
	return platformpostgres.Conn(ctx, d.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "store_address"}),
	}).Create(&record).Error
}

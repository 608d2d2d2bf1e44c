package memory

import (
	"context"
	"errors"
	"time"

	"github.com/ventasve/ventasve-api/internal/domains/delivery/domain"
	"github.com/ventasve/ventasve-api/internal/domains/delivery/ports"
	"github.com/ventasve/ventasve-api/internal/platform/memdb"
)

var _ ports.DeliveryPersonRepository = (*DeliveryPersonRepository)(nil)

// DeliveryPersonRepository keeps drivers in a memdb table.
type DeliveryPersonRepository struct {
	db   *memdb.DB
	rows *memdb.Table[domain.DeliveryPerson]
}

func NewDeliveryPersonRepository(db *memdb.DB) *DeliveryPersonRepository {
	return &DeliveryPersonRepository{db: db, rows: memdb.NewTable[domain.DeliveryPerson](db)}
}

func (r *DeliveryPersonRepository) Create(ctx context.Context, person *domain.DeliveryPerson) (*domain.DeliveryPerson, error) {
	if person == nil {
		return nil, errors.New("delivery person is nil")
	}
	clone := *person
	err := r.db.Do(ctx, func() error {
		if _, exists := r.rows.Get(clone.ID); exists {
			return errors.New("delivery person already exists")
		}
		r.rows.Put(clone.ID, clone)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &clone, nil
}

func (r *DeliveryPersonRepository) GetByID(ctx context.Context, id string) (*domain.DeliveryPerson, error) {
	var out *domain.DeliveryPerson
	err := r.db.Do(ctx, func() error {
		p, ok := r.rows.Get(id)
		if !ok {
			return ports.ErrPersonNotFound
		}
		out = &p
		return nil
	})
	return out, err
}

func (r *DeliveryPersonRepository) GetForUpdate(ctx context.Context, id string) (*domain.DeliveryPerson, error) {
	return r.GetByID(ctx, id)
}

func (r *DeliveryPersonRepository) SetAvailability(ctx context.Context, id string, available bool, at time.Time) error {
	return r.update(ctx, id, func(p *domain.DeliveryPerson) {
		p.IsAvailable = available
		p.UpdatedAt = at
	})
}

func (r *DeliveryPersonRepository) RecordCompletedDelivery(ctx context.Context, id string, at time.Time) error {
	return r.update(ctx, id, func(p *domain.DeliveryPerson) {
		p.CompletedOrders++
		p.TotalDeliveries++
		p.IsAvailable = true
		p.UpdatedAt = at
	})
}

func (r *DeliveryPersonRepository) update(ctx context.Context, id string, mutate func(*domain.DeliveryPerson)) error {
	return r.db.Do(ctx, func() error {
		p, ok := r.rows.Get(id)
		if !ok {
			return ports.ErrPersonNotFound
		}
		mutate(&p)
		r.rows.Put(id, p)
		return nil
	})
}

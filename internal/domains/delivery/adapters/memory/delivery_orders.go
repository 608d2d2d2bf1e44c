package memory

import (
	"context"
	"errors"
	"slices"
	"sort"
	"time"

	"github.com/ventasve/ventasve-api/internal/domains/delivery/domain"
	"github.com/ventasve/ventasve-api/internal/domains/delivery/ports"
	"github.com/ventasve/ventasve-api/internal/platform/memdb"
)

var _ ports.DeliveryOrderRepository = (*DeliveryOrderRepository)(nil)

// DeliveryOrderRepository keeps delivery orders in a memdb table. The order_id uniqueness
// constraint is enforced on Create.
type DeliveryOrderRepository struct {
	db   *memdb.DB
	rows *memdb.Table[domain.DeliveryOrder]
}

func NewDeliveryOrderRepository(db *memdb.DB) *DeliveryOrderRepository {
	return &DeliveryOrderRepository{db: db, rows: memdb.NewTable[domain.DeliveryOrder](db)}
}

func (r *DeliveryOrderRepository) Create(ctx context.Context, order *domain.DeliveryOrder) (*domain.DeliveryOrder, error) {
	if order == nil {
		return nil, errors.New("delivery order is nil")
	}
	clone := cloneDelivery(*order)
	err := r.db.Do(ctx, func() error {
		if _, exists := r.rows.Get(clone.ID); exists {
			return errors.New("delivery order already exists")
		}
		if taken := r.rows.Scan(func(d domain.DeliveryOrder) bool { return d.OrderID == clone.OrderID }); len(taken) > 0 {
			return ports.ErrOrderTaken
		}
		r.rows.Put(clone.ID, clone)
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := cloneDelivery(clone)
	return &out, nil
}

func (r *DeliveryOrderRepository) GetByID(ctx context.Context, id string) (*domain.DeliveryOrder, error) {
	var out *domain.DeliveryOrder
	err := r.db.Do(ctx, func() error {
		d, ok := r.rows.Get(id)
		if !ok {
			return ports.ErrNotFound
		}
		d = cloneDelivery(d)
		out = &d
		return nil
	})
	return out, err
}

func (r *DeliveryOrderRepository) GetForUpdate(ctx context.Context, id string) (*domain.DeliveryOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *DeliveryOrderRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.DeliveryOrder, error) {
	var out *domain.DeliveryOrder
	err := r.db.Do(ctx, func() error {
		found := r.rows.Scan(func(d domain.DeliveryOrder) bool { return d.OrderID == orderID })
		if len(found) == 0 {
			return ports.ErrNotFound
		}
		d := cloneDelivery(found[0])
		out = &d
		return nil
	})
	return out, err
}

func (r *DeliveryOrderRepository) ListByPerson(ctx context.Context, personID string, statuses []domain.Status) ([]*domain.DeliveryOrder, error) {
	var out []*domain.DeliveryOrder
	err := r.db.Do(ctx, func() error {
		rows := r.rows.Scan(func(d domain.DeliveryOrder) bool {
			return d.DeliveryPersonID == personID && (len(statuses) == 0 || slices.Contains(statuses, d.Status))
		})
		sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
		out = make([]*domain.DeliveryOrder, 0, len(rows))
		for i := range rows {
			rows[i] = cloneDelivery(rows[i])
			out = append(out, &rows[i])
		}
		return nil
	})
	return out, err
}

func (r *DeliveryOrderRepository) MarkDelivered(ctx context.Context, id string, at time.Time) error {
	return r.update(ctx, id, func(d *domain.DeliveryOrder) error {
		if d.Status != domain.StatusAssigned {
			return ports.ErrConflict
		}
		d.Status = domain.StatusDelivered
		d.DeliveredAt = &at
		d.UpdatedAt = at
		return nil
	})
}

func (r *DeliveryOrderRepository) MarkCancelled(ctx context.Context, id string, at time.Time) error {
	return r.update(ctx, id, func(d *domain.DeliveryOrder) error {
		if d.Status != domain.StatusAssigned {
			return ports.ErrConflict
		}
		d.Status = domain.StatusCancelled
		d.CancelledAt = &at
		d.UpdatedAt = at
		return nil
	})
}

func (r *DeliveryOrderRepository) RecordFailedAttempt(ctx context.Context, id string, at time.Time) (int, error) {
	var attempts int
	err := r.update(ctx, id, func(d *domain.DeliveryOrder) error {
		d.OTPAttempts++
		d.UpdatedAt = at
		attempts = d.OTPAttempts
		return nil
	})
	return attempts, err
}

func (r *DeliveryOrderRepository) ReplaceOTP(ctx context.Context, id, code string, expiresAt *time.Time, at time.Time) error {
	return r.update(ctx, id, func(d *domain.DeliveryOrder) error {
		if d.Status != domain.StatusAssigned {
			return ports.ErrConflict
		}
		d.OTPCode = code
		d.OTPAttempts = 0
		d.OTPExpiresAt = cloneTime(expiresAt)
		d.UpdatedAt = at
		return nil
	})
}

func (r *DeliveryOrderRepository) update(ctx context.Context, id string, mutate func(*domain.DeliveryOrder) error) error {
	return r.db.Do(ctx, func() error {
		d, ok := r.rows.Get(id)
		if !ok {
			return ports.ErrNotFound
		}
		if err := mutate(&d); err != nil {
			return err
		}
		r.rows.Put(id, d)
		return nil
	})
}

// cloneDelivery detaches the timestamp pointers so callers never share memory with stored rows.
func cloneDelivery(d domain.DeliveryOrder) domain.DeliveryOrder {
	d.OTPExpiresAt = cloneTime(d.OTPExpiresAt)
	d.DeliveredAt = cloneTime(d.DeliveredAt)
	d.CancelledAt = cloneTime(d.CancelledAt)
	return d
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

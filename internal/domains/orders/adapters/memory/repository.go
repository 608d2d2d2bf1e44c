package memory

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sort"
	"time"

	"github.com/ventasve/ventasve-api/internal/domains/orders/domain"
	"github.com/ventasve/ventasve-api/internal/domains/orders/ports"
	"github.com/ventasve/ventasve-api/internal/platform/memdb"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter. Its tables live in a shared memdb.DB
// so order writes join transactions spanning other contexts.
type Repository struct {
	db      *memdb.DB
	orders  *memdb.Table[domain.Order]
	history *memdb.Table[[]domain.StatusChange]
}

// NewRepository registers the order tables on db.
func NewRepository(db *memdb.DB) *Repository {
	return &Repository{
		db:      db,
		orders:  memdb.NewTable[domain.Order](db),
		history: memdb.NewTable[[]domain.StatusChange](db),
	}
}

func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	clone := cloneOrder(*order)
	err := r.db.Do(ctx, func() error {
		if _, exists := r.orders.Get(clone.ID); exists {
			return errors.New("order already exists")
		}
		r.orders.Put(clone.ID, clone)
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := cloneOrder(clone)
	return &out, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	var out *domain.Order
	err := r.db.Do(ctx, func() error {
		order, ok := r.orders.Get(id)
		if !ok {
			return ports.ErrNotFound
		}
		order = cloneOrder(order)
		out = &order
		return nil
	})
	return out, err
}

// GetForUpdate is GetByID; the memdb transaction already holds the store-wide lock.
func (r *Repository) GetForUpdate(ctx context.Context, id string) (*domain.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *Repository) UpdateStatus(ctx context.Context, id string, from, to domain.Status, at time.Time) error {
	return r.db.Do(ctx, func() error {
		order, ok := r.orders.Get(id)
		if !ok {
			return ports.ErrNotFound
		}
		if order.Status != from {
			return ports.ErrConflict
		}
		order.Status = to
		order.UpdatedAt = at
		r.orders.Put(id, order)
		return nil
	})
}

func (r *Repository) ListByBusiness(ctx context.Context, businessID string, statuses []domain.Status) ([]*domain.Order, error) {
	var out []*domain.Order
	err := r.db.Do(ctx, func() error {
		rows := r.orders.Scan(func(o domain.Order) bool {
			return o.BusinessID == businessID && (len(statuses) == 0 || slices.Contains(statuses, o.Status))
		})
		sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
		out = make([]*domain.Order, 0, len(rows))
		for i := range rows {
			rows[i] = cloneOrder(rows[i])
			out = append(out, &rows[i])
		}
		return nil
	})
	return out, err
}

func (r *Repository) AppendStatusChange(ctx context.Context, change domain.StatusChange) error {
	return r.db.Do(ctx, func() error {
		existing, _ := r.history.Get(change.OrderID)
		// Copy so snapshots taken before this append keep their own backing array.
		next := append(slices.Clone(existing), cloneChange(change))
		r.history.Put(change.OrderID, next)
		return nil
	})
}

func (r *Repository) ListStatusChanges(ctx context.Context, orderID string) ([]domain.StatusChange, error) {
	var out []domain.StatusChange
	err := r.db.Do(ctx, func() error {
		existing, _ := r.history.Get(orderID)
		out = make([]domain.StatusChange, 0, len(existing))
		for _, change := range existing {
			out = append(out, cloneChange(change))
		}
		return nil
	})
	return out, err
}

// cloneOrder detaches pointer fields so callers never share memory with stored rows.
func cloneOrder(o domain.Order) domain.Order {
	if o.ShippingCostCents != nil {
		cost := *o.ShippingCostCents
		o.ShippingCostCents = &cost
	}
	return o
}

func cloneChange(c domain.StatusChange) domain.StatusChange {
	c.Metadata = maps.Clone(c.Metadata)
	return c
}

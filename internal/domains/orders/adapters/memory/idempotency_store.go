package memory

import (
	"context"
	"time"

	"github.com/ventasve/ventasve-api/internal/domains/orders/ports"
	"github.com/ventasve/ventasve-api/internal/platform/memdb"
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore keeps checkout idempotency keys in process for development and tests.
// Its table shares the memdb lock with the order tables, so a key reserved inside a
// checkout transaction is rolled back with it.
type IdempotencyStore struct {
	db      *memdb.DB
	records *memdb.Table[ports.IdempotencyRecord]
	now     func() time.Time
}

// NewIdempotencyStore registers the idempotency table on db.
func NewIdempotencyStore(db *memdb.DB) *IdempotencyStore {
	return &IdempotencyStore{
		db:      db,
		records: memdb.NewTable[ports.IdempotencyRecord](db),
		now:     time.Now,
	}
}

// WithClock overrides the time source for deterministic testing.
func (s *IdempotencyStore) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *IdempotencyStore) Get(ctx context.Context, key string) (*ports.IdempotencyRecord, error) {
	var out *ports.IdempotencyRecord
	err := s.db.Do(ctx, func() error {
		if record, ok := s.records.Get(key); ok {
			out = &record
		}
		return nil
	})
	return out, err
}

func (s *IdempotencyStore) Save(ctx context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, error) {
	var (
		out      ports.IdempotencyRecord
		conflict bool
	)
	err := s.db.Do(ctx, func() error {
		if existing, ok := s.records.Get(record.Key); ok {
			out = existing
			conflict = existing.RequestHash != record.RequestHash || existing.OrderID != record.OrderID
			return nil
		}
		now := s.now()
		record.CreatedAt = now
		record.UpdatedAt = now
		s.records.Put(record.Key, record)
		out = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	if conflict {
		return &out, ports.ErrIdempotencyConflict
	}
	return &out, nil
}

func (s *IdempotencyStore) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var purged int64
	err := s.db.Do(ctx, func() error {
		for _, record := range s.records.Scan(func(r ports.IdempotencyRecord) bool { return r.CreatedAt.Before(cutoff) }) {
			s.records.Delete(record.Key)
			purged++
		}
		return nil
	})
	return purged, err
}

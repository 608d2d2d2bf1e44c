// Package memdb provides the in-process store backing the memory adapters. All tables
// registered on a DB share one lock, so a transaction observes and mutates every table
// atomically and is rolled back from snapshots when it fails.
package memdb

import (
	"context"
	"maps"
	"sync"
)

type snapshotter interface {
	snapshot() (restore func())
}

// DB groups tables under a single lock and implements transaction.Manager.
type DB struct {
	mu     sync.Mutex
	tables []snapshotter
}

// New creates an empty in-memory database.
func New() *DB {
	return &DB{}
}

type txKey struct{}

// WithinTransaction holds the database lock for the duration of fn. Nested calls made
// with the transactional context reuse the outer transaction.
func (d *DB) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if d.inTx(ctx) {
		return fn(ctx)
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	restores := make([]func(), 0, len(d.tables))
	for _, t := range d.tables {
		restores = append(restores, t.snapshot())
	}
	if err := fn(context.WithValue(ctx, txKey{}, d)); err != nil {
		for i := len(restores) - 1; i >= 0; i-- {
			restores[i]()
		}
		return err
	}
	return nil
}

// Do runs a single statement under the database lock unless ctx already carries a transaction.
func (d *DB) Do(ctx context.Context, fn func() error) error {
	if d.inTx(ctx) {
		return fn()
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return fn()
}

func (d *DB) inTx(ctx context.Context) bool {
	owner, ok := ctx.Value(txKey{}).(*DB)
	return ok && owner == d
}

func (d *DB) register(t snapshotter) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tables = append(d.tables, t)
}

// Table is a keyed collection of rows stored by value. Callers must access it inside
// DB.Do or DB.WithinTransaction.
type Table[V any] struct {
	rows map[string]V
}

// NewTable creates a table and registers it for transactional snapshots.
func NewTable[V any](db *DB) *Table[V] {
	t := &Table[V]{rows: map[string]V{}}
	db.register(t)
	return t
}

func (t *Table[V]) snapshot() func() {
	saved := maps.Clone(t.rows)
	return func() { t.rows = saved }
}

// Get returns the row stored under key.
func (t *Table[V]) Get(key string) (V, bool) {
	v, ok := t.rows[key]
	return v, ok
}

// Put inserts or replaces the row stored under key.
func (t *Table[V]) Put(key string, v V) {
	t.rows[key] = v
}

// Delete removes the row stored under key.
func (t *Table[V]) Delete(key string) {
	delete(t.rows, key)
}

// Len reports the number of rows.
func (t *Table[V]) Len() int {
	return len(t.rows)
}

// Scan returns every row for which match reports true. A nil match returns all rows.
func (t *Table[V]) Scan(match func(V) bool) []V {
	out := make([]V, 0)
	for _, v := range t.rows {
		if match == nil || match(v) {
			out = append(out, v)
		}
	}
	return out
}

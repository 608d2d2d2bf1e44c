package memdb

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithinTransaction_RollsBackEveryTable(t *testing.T) {
	db := New()
	a := NewTable[int](db)
	b := NewTable[string](db)
	ctx := context.Background()

	require.NoError(t, db.Do(ctx, func() error {
		a.Put("x", 1)
		return nil
	}))

	boom := errors.New("boom")
	err := db.WithinTransaction(ctx, func(ctx context.Context) error {
		a.Put("x", 2)
		a.Put("y", 3)
		b.Put("z", "written")
		return boom
	})
	require.ErrorIs(t, err, boom)

	v, ok := a.Get("x")
	require.True(t, ok)
	assert.Equal(t, 1, v)
	_, ok = a.Get("y")
	assert.False(t, ok)
	assert.Equal(t, 0, b.Len())
}

func TestWithinTransaction_NestedCallsReuseLock(t *testing.T) {
	db := New()
	tbl := NewTable[int](db)

	err := db.WithinTransaction(context.Background(), func(ctx context.Context) error {
		return db.WithinTransaction(ctx, func(ctx context.Context) error {
			return db.Do(ctx, func() error {
				tbl.Put("k", 7)
				return nil
			})
		})
	})
	require.NoError(t, err)
	v, _ := tbl.Get("k")
	assert.Equal(t, 7, v)
}

func TestWithinTransaction_SerializesWriters(t *testing.T) {
	db := New()
	counter := NewTable[int](db)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = db.WithinTransaction(ctx, func(ctx context.Context) error {
				v, _ := counter.Get("n")
				counter.Put("n", v+1)
				return nil
			})
		}()
	}
	wg.Wait()

	v, _ := counter.Get("n")
	assert.Equal(t, 50, v)
}

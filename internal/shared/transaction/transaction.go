// Package transaction defines the unit-of-work boundary shared by the bounded contexts.
package transaction

import "context"

// Manager runs fn inside a single atomic unit of work. Repositories invoked with the
// context passed to fn participate in the same transaction. Returning an error from fn
// rolls every write back.
type Manager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ManagerFunc adapts a function to the Manager interface.
type ManagerFunc func(ctx context.Context, fn func(ctx context.Context) error) error

// WithinTransaction calls f.
func (f ManagerFunc) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return f(ctx, fn)
}

// Passthrough runs fn without any transactional guarantees. Useful for read-only wiring in tests.
var Passthrough Manager = ManagerFunc(func(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
})

package domain

import (
	"errors"
	"fmt"
)

// Status enumerates order progression.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusPreparing Status = "PREPARING"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// ErrInvalidTransition is matched by every InvalidTransitionError.
var ErrInvalidTransition = errors.New("invalid order status transition")

// InvalidTransitionError names the rejected move.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition order from %s to %s", e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

var successors = map[Status]Status{
	StatusPending:   StatusConfirmed,
	StatusConfirmed: StatusPreparing,
	StatusPreparing: StatusShipped,
	StatusShipped:   StatusDelivered,
}

// CanTransition reports whether an order in current may move to target: either the
// immediate successor, or CANCELLED from any non-terminal status.
func CanTransition(current, target Status) bool {
	if !current.Valid() || current.Terminal() {
		return false
	}
	if target == StatusCancelled {
		return true
	}
	next, ok := successors[current]
	return ok && next == target
}

// Next returns the immediate successor of s along the fulfilment path.
func (s Status) Next() (Status, bool) {
	next, ok := successors[s]
	return next, ok
}

// Terminal reports whether no further transitions are possible.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

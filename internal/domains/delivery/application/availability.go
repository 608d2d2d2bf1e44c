package application

import (
	"context"
	"strings"

	"github.com/ventasve/ventasve-api/internal/domains/delivery/application/types"
	"github.com/ventasve/ventasve-api/internal/domains/delivery/domain"
)

// AvailabilityTracker manages driver onboarding and whether drivers accept new work.
type AvailabilityTracker struct {
	deps Dependencies
}

// NewAvailabilityTracker wires the tracker.
func NewAvailabilityTracker(deps Dependencies) *AvailabilityTracker {
	return &AvailabilityTracker{deps: deps.withDefaults()}
}

// Register onboards an available driver.
func (t *AvailabilityTracker) Register(ctx context.Context, input types.RegisterPersonInput) (*domain.DeliveryPerson, error) {
	person, err := domain.NewDeliveryPerson(t.deps.NewID(), input.BusinessID, input.Name, input.Phone, t.deps.now())
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := t.deps.Persons.Create(ctx, person)
	return saved, mapError(err)
}

// Get loads a driver.
func (t *AvailabilityTracker) Get(ctx context.Context, input types.PersonIdentifier) (*domain.DeliveryPerson, error) {
	person, err := t.deps.Persons.GetByID(ctx, strings.TrimSpace(input.ID))
	return person, mapError(err)
}

// IsAvailable reports whether the driver currently accepts assignments.
func (t *AvailabilityTracker) IsAvailable(ctx context.Context, personID string) (bool, error) {
	person, err := t.Get(ctx, types.PersonIdentifier{ID: personID})
	if err != nil {
		return false, err
	}
	return person.IsAvailable, nil
}

// SetAvailability toggles the driver's availability flag.
func (t *AvailabilityTracker) SetAvailability(ctx context.Context, input types.AvailabilityInput) (*domain.DeliveryPerson, error) {
	var person *domain.DeliveryPerson
	err := t.deps.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := t.deps.Persons.SetAvailability(ctx, input.DeliveryPersonID, input.Available, t.deps.now()); err != nil {
			return err
		}
		var err error
		person, err = t.deps.Persons.GetByID(ctx, input.DeliveryPersonID)
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}
	return person, nil
}

//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ventasve/ventasve-api/internal/domains/delivery/adapters/persistence/postgres"
	"github.com/ventasve/ventasve-api/internal/domains/delivery/application"
	"github.com/ventasve/ventasve-api/internal/domains/delivery/application/types"
	"github.com/ventasve/ventasve-api/internal/domains/delivery/domain"
	"github.com/ventasve/ventasve-api/internal/domains/delivery/ports"
	orderspostgres "github.com/ventasve/ventasve-api/internal/domains/orders/adapters/persistence/postgres"
	ordersdomain "github.com/ventasve/ventasve-api/internal/domains/orders/domain"
	"github.com/ventasve/ventasve-api/internal/platform/notify"
	platformpostgres "github.com/ventasve/ventasve-api/internal/platform/postgres"
	"github.com/ventasve/ventasve-api/internal/platform/postgres/pgtest"
)

type stack struct {
	orders     *orderspostgres.Repository
	deliveries *postgres.DeliveryOrderRepository
	persons    *postgres.DeliveryPersonRepository
	businesses *postgres.BusinessDirectory
	service    *application.Service
}

func newStack(t *testing.T, db *gorm.DB) *stack {
	t.Helper()
	s := &stack{
		orders:     orderspostgres.NewRepository(db),
		deliveries: postgres.NewDeliveryOrderRepository(db),
		persons:    postgres.NewDeliveryPersonRepository(db),
		businesses: postgres.NewBusinessDirectory(db),
	}
	s.service = application.NewService(application.Dependencies{
		Tx:         platformpostgres.NewTxManager(db),
		Orders:     s.orders,
		Deliveries: s.deliveries,
		Persons:    s.persons,
		Businesses: s.businesses,
		Publisher:  notify.NewMemoryPublisher(),
		OTP:        func() (string, error) { return "135790", nil },
	}, application.Policy{})
	return s
}

func (s *stack) seedOrder(t *testing.T, status ordersdomain.Status) *ordersdomain.Order {
	t.Helper()
	ctx := context.Background()
	shipping := int64(300)
	order, err := ordersdomain.NewOrder(ordersdomain.NewOrderParams{
		ID:                uuid.NewString(),
		BusinessID:        "biz-1",
		CustomerID:        "customer-1",
		TotalCents:        2500,
		PaymentMethod:     ordersdomain.PaymentCashUSD,
		ShippingCostCents: &shipping,
		CreatedAt:         time.Now().UTC(),
	})
	require.NoError(t, err)
	_, err = s.orders.Create(ctx, order)
	require.NoError(t, err)
	require.NoError(t, s.orders.UpdateStatus(ctx, order.ID, ordersdomain.StatusPending, status, time.Now().UTC()))
	return order
}

func (s *stack) seedPerson(t *testing.T) *domain.DeliveryPerson {
	t.Helper()
	person, err := s.service.RegisterPerson(context.Background(), types.RegisterPersonInput{BusinessID: "biz-1", Name: "Carlos"})
	require.NoError(t, err)
	return person
}

func TestAssignAndConfirm(t *testing.T) {
	db := pgtest.Start(t)
	s := newStack(t, db)
	ctx := context.Background()
	require.NoError(t, s.businesses.UpsertStoreAddress(ctx, "biz-1", "Bodega", "Calle 5, Maracay"))

	order := s.seedOrder(t, ordersdomain.StatusConfirmed)
	person := s.seedPerson(t)

	delivery, err := s.service.Assign(ctx, types.AssignInput{OrderID: order.ID, DeliveryPersonID: person.ID})
	require.NoError(t, err)
	assert.Equal(t, "Calle 5, Maracay", delivery.PickupAddress)

	stored, err := s.deliveries.GetByOrderID(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, stored.DeliveryFee.Equal(decimal.RequireFromString("3.00")))
	shipped, err := s.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, ordersdomain.StatusShipped, shipped.Status)

	_, err = s.service.ConfirmDelivery(ctx, types.ConfirmInput{DeliveryOrderID: delivery.ID, OTPCode: "000000"})
	require.ErrorIs(t, err, domain.ErrOTPInvalid)

	confirmed, err := s.service.ConfirmDelivery(ctx, types.ConfirmInput{DeliveryOrderID: delivery.ID, OTPCode: "135790"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, confirmed.Status)

	p, err := s.persons.GetByID(ctx, person.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, p.CompletedOrders)
	assert.True(t, p.IsAvailable)
}

func TestConcurrentAssignOnlyOneWins(t *testing.T) {
	db := pgtest.Start(t)
	s := newStack(t, db)
	order := s.seedOrder(t, ordersdomain.StatusPreparing)
	persons := []*domain.DeliveryPerson{s.seedPerson(t), s.seedPerson(t), s.seedPerson(t)}

	errs := make([]error, len(persons))
	var wg sync.WaitGroup
	for i, p := range persons {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = s.service.Assign(context.Background(), types.AssignInput{OrderID: order.ID, DeliveryPersonID: id})
		}(i, p.ID)
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.True(t, errors.Is(err, domain.ErrDuplicateAssignment), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, ok)
}

func TestConcurrentConfirmCreditsOnce(t *testing.T) {
	db := pgtest.Start(t)
	s := newStack(t, db)
	order := s.seedOrder(t, ordersdomain.StatusConfirmed)
	person := s.seedPerson(t)
	delivery, err := s.service.Assign(context.Background(), types.AssignInput{OrderID: order.ID, DeliveryPersonID: person.ID})
	require.NoError(t, err)

	const workers = 5
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.service.ConfirmDelivery(context.Background(), types.ConfirmInput{DeliveryOrderID: delivery.ID, OTPCode: "135790"})
		}(i)
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrAlreadyDelivered)
	}
	assert.Equal(t, 1, ok)
	p, err := s.persons.GetByID(context.Background(), person.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, p.CompletedOrders)
	assert.Equal(t, 1, p.TotalDeliveries)
}

func TestDeliveryOrderRepository_Constraints(t *testing.T) {
	db := pgtest.Start(t)
	s := newStack(t, db)
	ctx := context.Background()
	order := s.seedOrder(t, ordersdomain.StatusConfirmed)
	person := s.seedPerson(t)

	now := time.Now().UTC()
	build := func() *domain.DeliveryOrder {
		d, err := domain.NewDeliveryOrder(domain.NewDeliveryOrderParams{
			ID: uuid.NewString(), OrderID: order.ID, DeliveryPersonID: person.ID, BusinessID: "biz-1",
			OTPCode: "111111", CreatedAt: now,
		})
		require.NoError(t, err)
		return d
	}
	first, err := s.deliveries.Create(ctx, build())
	require.NoError(t, err)
	_, err = s.deliveries.Create(ctx, build())
	require.ErrorIs(t, err, ports.ErrOrderTaken)

	attempts, err := s.deliveries.RecordFailedAttempt(ctx, first.ID, now)
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)

	expires := now.Add(time.Hour)
	require.NoError(t, s.deliveries.ReplaceOTP(ctx, first.ID, "222222", &expires, now))
	replaced, err := s.deliveries.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "222222", replaced.OTPCode)
	assert.Zero(t, replaced.OTPAttempts)
	require.NotNil(t, replaced.OTPExpiresAt)
	assert.WithinDuration(t, expires, *replaced.OTPExpiresAt, time.Millisecond)

	require.NoError(t, s.deliveries.MarkCancelled(ctx, first.ID, now))
	assert.ErrorIs(t, s.deliveries.ReplaceOTP(ctx, first.ID, "333333", nil, now), ports.ErrConflict)
	assert.ErrorIs(t, s.deliveries.MarkDelivered(ctx, first.ID, now), ports.ErrConflict)
	assert.ErrorIs(t, s.deliveries.MarkDelivered(ctx, uuid.NewString(), now), ports.ErrNotFound)

	cancelled, err := s.service.ListPersonDeliveries(ctx, types.ListDeliveriesInput{
		DeliveryPersonID: person.ID, Statuses: []domain.Status{domain.StatusCancelled},
	})
	require.NoError(t, err)
	require.Len(t, cancelled, 1)
	require.NotNil(t, cancelled[0].CancelledAt)
}

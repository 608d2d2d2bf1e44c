package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ventasve/ventasve-api/internal/domains/delivery/domain"
	"github.com/ventasve/ventasve-api/internal/domains/delivery/ports"
	"github.com/ventasve/ventasve-api/internal/platform/memdb"
)

var assignedAt = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func seedDelivery(t *testing.T, repo *DeliveryOrderRepository) *domain.DeliveryOrder {
	t.Helper()
	delivery, err := domain.NewDeliveryOrder(domain.NewDeliveryOrderParams{
		ID:               "delivery-1",
		OrderID:          "order-1",
		DeliveryPersonID: "person-1",
		BusinessID:       "biz-1",
		OTPCode:          "123456",
		OTPTTL:           time.Hour,
		CreatedAt:        assignedAt,
	})
	require.NoError(t, err)
	created, err := repo.Create(context.Background(), delivery)
	require.NoError(t, err)
	return created
}

func TestDeliveryOrderRepository_ReturnedRowsDoNotAliasStoredRows(t *testing.T) {
	repo := NewDeliveryOrderRepository(memdb.New())
	ctx := context.Background()
	created := seedDelivery(t, repo)
	*created.OTPExpiresAt = time.Time{}

	delivered := assignedAt.Add(10 * time.Minute)
	require.NoError(t, repo.MarkDelivered(ctx, created.ID, delivered))

	loaded, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.DeliveredAt)
	assert.Equal(t, assignedAt.Add(time.Hour), *loaded.OTPExpiresAt)
	*loaded.DeliveredAt = time.Time{}

	byOrder, err := repo.GetByOrderID(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, delivered, *byOrder.DeliveredAt)
	*byOrder.DeliveredAt = time.Time{}

	listed, err := repo.ListByPerson(ctx, "person-1", nil)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, delivered, *listed[0].DeliveredAt)
}

func TestDeliveryOrderRepository_ReplaceOTP(t *testing.T) {
	repo := NewDeliveryOrderRepository(memdb.New())
	ctx := context.Background()
	created := seedDelivery(t, repo)

	_, err := repo.RecordFailedAttempt(ctx, created.ID, assignedAt)
	require.NoError(t, err)

	at := assignedAt.Add(time.Minute)
	require.NoError(t, repo.ReplaceOTP(ctx, created.ID, "654321", nil, at))
	loaded, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "654321", loaded.OTPCode)
	assert.Zero(t, loaded.OTPAttempts)
	assert.Nil(t, loaded.OTPExpiresAt)
	assert.Equal(t, at, loaded.UpdatedAt)

	require.NoError(t, repo.MarkCancelled(ctx, created.ID, at))
	require.ErrorIs(t, repo.ReplaceOTP(ctx, created.ID, "111111", nil, at), ports.ErrConflict)
	require.ErrorIs(t, repo.ReplaceOTP(ctx, "missing", "111111", nil, at), ports.ErrNotFound)
}

package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/mocks"
	"gorm.io/gorm"

	deliveryworkflows "github.com/ventasve/ventasve-api/internal/domains/delivery/adapters/workflows"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildAssignmentOrchestrator_InMemoryStoresAssignInline(t *testing.T) {
	stores, cleanup := BuildStores(context.Background(), Config{}, discardLogger())
	defer cleanup()
	require.Nil(t, stores.DB)

	dialed := false
	orchestrator, closeFn := BuildAssignmentOrchestrator(stores, func() (client.Client, error) {
		dialed = true
		return new(mocks.Client), nil
	}, discardLogger())
	defer closeFn()

	assert.Nil(t, orchestrator)
	assert.False(t, dialed, "temporal must not be dialed when the worker cannot see the stores")
}

func TestBuildAssignmentOrchestrator_DialFailureAssignsInline(t *testing.T) {
	stores := Stores{DB: &gorm.DB{}}
	orchestrator, closeFn := BuildAssignmentOrchestrator(stores, func() (client.Client, error) {
		return nil, errors.New("connection refused")
	}, discardLogger())
	defer closeFn()

	assert.Nil(t, orchestrator)
}

func TestBuildAssignmentOrchestrator_SharedDatabaseUsesTemporal(t *testing.T) {
	temporalClient := new(mocks.Client)
	temporalClient.On("Close").Return().Once()

	orchestrator, closeFn := BuildAssignmentOrchestrator(Stores{DB: &gorm.DB{}}, func() (client.Client, error) {
		return temporalClient, nil
	}, discardLogger())
	require.NotNil(t, orchestrator)
	assert.IsType(t, &deliveryworkflows.TemporalAssignmentWorkflows{}, orchestrator)

	closeFn()
	temporalClient.AssertExpectations(t)
}

package delivery

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"
	"go.temporal.io/sdk/workflow"

	"github.com/ventasve/ventasve-api/internal/domains/delivery/application/types"
	"github.com/ventasve/ventasve-api/internal/domains/delivery/domain"
	deliveryactivities "github.com/ventasve/ventasve-api/internal/platform/temporal/activities/delivery"
)

type assignFunc func(ctx context.Context, input types.AssignInput) (*domain.DeliveryOrder, error)

func (f assignFunc) Assign(ctx context.Context, input types.AssignInput) (*domain.DeliveryOrder, error) {
	return f(ctx, input)
}

func newEnv(t *testing.T, assigner assignFunc) *testsuite.TestWorkflowEnvironment {
	t.Helper()
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	env.RegisterWorkflowWithOptions(AssignmentWorkflow, workflow.RegisterOptions{Name: AssignmentWorkflowName})
	acts := deliveryactivities.NewActivities(assigner)
	env.RegisterActivityWithOptions(acts.AssignDelivery, activity.RegisterOptions{Name: deliveryactivities.AssignDeliveryActivityName})
	return env
}

func TestAssignmentWorkflow_Completes(t *testing.T) {
	env := newEnv(t, func(_ context.Context, input types.AssignInput) (*domain.DeliveryOrder, error) {
		return &domain.DeliveryOrder{ID: "d-1", OrderID: input.OrderID, Status: domain.StatusAssigned}, nil
	})

	env.ExecuteWorkflow(AssignmentWorkflowName, AssignmentWorkflowInput{Command: types.AssignInput{OrderID: "o-1", DeliveryPersonID: "p-1"}})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var order domain.DeliveryOrder
	require.NoError(t, env.GetWorkflowResult(&order))
	assert.Equal(t, "d-1", order.ID)
	assert.Equal(t, "o-1", order.OrderID)
}

func TestAssignmentWorkflow_BusinessErrorsAreNotRetried(t *testing.T) {
	calls := 0
	env := newEnv(t, func(context.Context, types.AssignInput) (*domain.DeliveryOrder, error) {
		calls++
		return nil, domain.ErrDuplicateAssignment
	})

	env.ExecuteWorkflow(AssignmentWorkflowName, AssignmentWorkflowInput{Command: types.AssignInput{OrderID: "o-1", DeliveryPersonID: "p-1"}})
	require.True(t, env.IsWorkflowCompleted())
	err := env.GetWorkflowError()
	require.Error(t, err)

	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, domain.CodeDuplicateAssignment, appErr.Type())
	assert.Equal(t, 1, calls)
}

func TestAssignmentWorkflow_RetriesTransientErrors(t *testing.T) {
	calls := 0
	env := newEnv(t, func(_ context.Context, input types.AssignInput) (*domain.DeliveryOrder, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("connection reset")
		}
		return &domain.DeliveryOrder{ID: "d-1", OrderID: input.OrderID}, nil
	})

	env.ExecuteWorkflow(AssignmentWorkflowName, AssignmentWorkflowInput{Command: types.AssignInput{OrderID: "o-1", DeliveryPersonID: "p-1"}})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	assert.Equal(t, 3, calls)
}

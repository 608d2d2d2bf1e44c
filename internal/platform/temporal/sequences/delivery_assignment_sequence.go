package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/ventasve/ventasve-api/internal/domains/delivery/application/types"
	"github.com/ventasve/ventasve-api/internal/domains/delivery/domain"
	deliveryactivities "github.com/ventasve/ventasve-api/internal/platform/temporal/activities/delivery"
)

// RunDeliveryAssignmentSequence executes the assignment activity with retries for transient
// storage failures.
func RunDeliveryAssignmentSequence(ctx workflow.Context, input types.AssignInput) (*domain.DeliveryOrder, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("delivery assignment sequence started", "orderId", input.OrderID)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}

	var order domain.DeliveryOrder
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, options), deliveryactivities.AssignDeliveryActivityName, input).Get(ctx, &order)
	if err != nil {
		logger.Error("delivery assignment sequence failed", "orderId", input.OrderID, "error", err)
		return nil, err
	}
	logger.Info("delivery assignment sequence completed", "orderId", input.OrderID, "deliveryOrderId", order.ID)
	return &order, nil
}

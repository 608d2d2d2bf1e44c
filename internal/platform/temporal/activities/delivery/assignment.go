package delivery

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/ventasve/ventasve-api/internal/domains/delivery/application/types"
	"github.com/ventasve/ventasve-api/internal/domains/delivery/domain"
	"github.com/ventasve/ventasve-api/internal/domains/delivery/ports"
)

// AssignDeliveryActivityName runs the transactional assignment use case.
const AssignDeliveryActivityName = "delivery.activities.AssignDelivery"

// Activities groups activities that operate on the delivery bounded context.
type Activities struct {
	assigner ports.AssignmentOrchestrator
}

// NewActivities wires the inline assignment use case into the Temporal activities bundle.
func NewActivities(assigner ports.AssignmentOrchestrator) *Activities {
	return &Activities{assigner: assigner}
}

// AssignDelivery binds the driver and ships the order. Business rule violations are returned
// as non-retryable application errors typed with their stable code; infrastructure errors are
// retried by the activity policy.
func (a *Activities) AssignDelivery(ctx context.Context, input types.AssignInput) (*domain.DeliveryOrder, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.assigner == nil {
		logger.Error("assign delivery activity not initialized", "orderId", input.OrderID)
		return nil, errors.New("assign delivery activity not initialized")
	}
	logger.Info("AssignDelivery activity started", "orderId", input.OrderID, "deliveryPersonId", input.DeliveryPersonID)
	order, err := a.assigner.Assign(ctx, input)
	if err != nil {
		if code := domain.Code(err); code != "" {
			logger.Warn("AssignDelivery rejected", "orderId", input.OrderID, "code", code)
			return nil, temporal.NewNonRetryableApplicationError(err.Error(), code, err)
		}
		logger.Error("AssignDelivery activity failed", "orderId", input.OrderID, "error", err)
		return nil, err
	}
	logger.Info("AssignDelivery activity completed", "orderId", input.OrderID, "deliveryOrderId", order.ID)
	return order, nil
}

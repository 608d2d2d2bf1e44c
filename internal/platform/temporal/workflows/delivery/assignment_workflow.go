package delivery

import (
	"go.temporal.io/sdk/workflow"

	"github.com/ventasve/ventasve-api/internal/domains/delivery/application/types"
	"github.com/ventasve/ventasve-api/internal/domains/delivery/domain"
	"github.com/ventasve/ventasve-api/internal/platform/temporal/sequences"
)

const (
	// AssignmentWorkflowName is the public identifier for registering the workflow.
	AssignmentWorkflowName = "delivery.workflows.Assignment"
	// AssignmentTaskQueue is the queue consumed by the worker processing delivery workflows.
	AssignmentTaskQueue = "DELIVERY_ASSIGNMENT"
)

// AssignmentWorkflowInput carries the assignment command and the caller's trace id.
type AssignmentWorkflowInput struct {
	Command types.AssignInput
	TraceID string
}

// AssignmentWorkflow assigns a driver to an order.
func AssignmentWorkflow(ctx workflow.Context, input AssignmentWorkflowInput) (*domain.DeliveryOrder, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("AssignmentWorkflow started", withTraceID(input.TraceID, "orderId", input.Command.OrderID)...)
	order, err := sequences.RunDeliveryAssignmentSequence(ctx, input.Command)
	if err != nil {
		logger.Error("AssignmentWorkflow failed", withTraceID(input.TraceID, "orderId", input.Command.OrderID, "error", err)...)
		return nil, err
	}
	logger.Info("AssignmentWorkflow completed", withTraceID(input.TraceID, "deliveryOrderId", order.ID)...)
	return order, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}

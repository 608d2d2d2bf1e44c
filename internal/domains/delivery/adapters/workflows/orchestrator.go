package workflows

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/ventasve/ventasve-api/internal/domains/delivery/application/types"
	"github.com/ventasve/ventasve-api/internal/domains/delivery/domain"
	"github.com/ventasve/ventasve-api/internal/domains/delivery/ports"
	deliveryworkflows "github.com/ventasve/ventasve-api/internal/platform/temporal/workflows/delivery"
)

var _ ports.AssignmentOrchestrator = (*TemporalAssignmentWorkflows)(nil)

// TemporalAssignmentWorkflows runs assignments as Temporal workflows. One workflow id per
// order keeps concurrent requests for the same order from racing inside the worker.
type TemporalAssignmentWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalAssignmentWorkflows wires a Temporal client into the orchestrator.
func NewTemporalAssignmentWorkflows(c client.Client) *TemporalAssignmentWorkflows {
	return &TemporalAssignmentWorkflows{client: c, taskQueue: deliveryworkflows.AssignmentTaskQueue}
}

// Assign starts the assignment workflow and waits for its result.
func (o *TemporalAssignmentWorkflows) Assign(ctx context.Context, input types.AssignInput) (*domain.DeliveryOrder, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal assignment workflows not configured")
	}
	orderID := strings.TrimSpace(input.OrderID)
	if orderID == "" {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, domain.ErrEmptyOrderID)
	}
	options := client.StartWorkflowOptions{
		ID:                                       AssignmentWorkflowID(orderID),
		TaskQueue:                                o.taskQueue,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}
	run, err := o.client.ExecuteWorkflow(ctx, options, deliveryworkflows.AssignmentWorkflowName,
		deliveryworkflows.AssignmentWorkflowInput{Command: input, TraceID: workflowTraceID(ctx)})
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			return nil, fmt.Errorf("%w: assignment already in progress", domain.ErrDuplicateAssignment)
		}
		return nil, err
	}
	var order domain.DeliveryOrder
	if err := run.Get(ctx, &order); err != nil {
		return nil, FromWorkflowError(err)
	}
	return &order, nil
}

// AssignmentWorkflowID derives the workflow id for an order.
func AssignmentWorkflowID(orderID string) string {
	return "delivery-assignment-" + orderID
}

// FromWorkflowError restores the delivery sentinel carried as the application error type.
func FromWorkflowError(err error) error {
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) {
		if sentinel := domain.ErrorForCode(appErr.Type()); sentinel != nil {
			return fmt.Errorf("%w: %s", sentinel, appErr.Message())
		}
	}
	return err
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
	}
	return spanCtx.TraceID().String()
}

package ports

import (
	"context"

	"github.com/ventasve/ventasve-api/internal/domains/delivery/application/types"
	"github.com/ventasve/ventasve-api/internal/domains/delivery/domain"
)

// AssignmentOrchestrator runs the assignment use case, durably or inline.
type AssignmentOrchestrator interface {
	Assign(ctx context.Context, input types.AssignInput) (*domain.DeliveryOrder, error)
}

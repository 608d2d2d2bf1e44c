package ports

import (
	"context"

	"github.com/ventasve/ventasve-api/internal/domains/orders/domain"
)

// TransitionHook lets other contexts take part in a lifecycle transition requested through
// the order service. Both methods run inside the transition's transaction; an error aborts it.
type TransitionHook interface {
	// BeforeTransition may veto moving order to target. order still holds its current status.
	BeforeTransition(ctx context.Context, order *domain.Order, target domain.Status) error
	// AfterTransition observes the committed-to-be status. from is the status before the move.
	AfterTransition(ctx context.Context, order *domain.Order, from domain.Status, reason string) error
}

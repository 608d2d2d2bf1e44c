package application

import (
	"errors"
	"fmt"

	"github.com/ventasve/ventasve-api/internal/domains/delivery/domain"
	"github.com/ventasve/ventasve-api/internal/domains/delivery/ports"
	orderports "github.com/ventasve/ventasve-api/internal/domains/orders/ports"
)

// mapError translates adapter errors into the delivery error taxonomy.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, orderports.ErrNotFound):
		return fmt.Errorf("%w: %w", domain.ErrOrderNotFound, err)
	case errors.Is(err, ports.ErrPersonNotFound):
		return fmt.Errorf("%w: %w", domain.ErrDriverNotFound, err)
	case errors.Is(err, ports.ErrNotFound):
		return fmt.Errorf("%w: %w", domain.ErrDeliveryOrderNotFound, err)
	case errors.Is(err, ports.ErrOrderTaken):
		return fmt.Errorf("%w: %w", domain.ErrDuplicateAssignment, err)
	case errors.Is(err, domain.ErrEmptyBusinessID),
		errors.Is(err, domain.ErrEmptyName),
		errors.Is(err, domain.ErrEmptyOrderID),
		errors.Is(err, domain.ErrEmptyPersonID),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidOTPFormat):
		return fmt.Errorf("%w: %w", domain.ErrValidation, err)
	default:
		return err
	}
}

package ventasveserver

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	deliverydomain "github.com/ventasve/ventasve-api/internal/domains/delivery/domain"
	deliveryports "github.com/ventasve/ventasve-api/internal/domains/delivery/ports"
	ordersapp "github.com/ventasve/ventasve-api/internal/domains/orders/application"
	ordersdomain "github.com/ventasve/ventasve-api/internal/domains/orders/domain"
	ordersports "github.com/ventasve/ventasve-api/internal/domains/orders/ports"
	apierrors "github.com/ventasve/ventasve-api/internal/shared/errors"
)

const codeIdempotencyConflict = "IDEMPOTENCY_CONFLICT"

// NewErrorResponder maps order and delivery errors to their HTTP status and stable code.
// The order of mappers matters: wrapped chains can carry more than one sentinel.
func NewErrorResponder(logger *slog.Logger) *apierrors.Responder {
	return apierrors.NewResponder(logger,
		apierrors.Match(deliverydomain.ErrValidation, http.StatusBadRequest, apierrors.CodeValidation),
		apierrors.Match(ordersapp.ErrInvalidInput, http.StatusBadRequest, apierrors.CodeValidation),
		apierrors.Match(deliverydomain.ErrOTPInvalid, http.StatusBadRequest, deliverydomain.CodeOTPInvalid),
		apierrors.Match(deliverydomain.ErrOTPLocked, http.StatusTooManyRequests, deliverydomain.CodeOTPLocked),
		apierrors.Match(deliverydomain.ErrOTPExpired, http.StatusGone, deliverydomain.CodeOTPExpired),
		apierrors.Match(deliverydomain.ErrBusinessMismatch, http.StatusForbidden, deliverydomain.CodeBusinessMismatch),
		apierrors.Match(deliverydomain.ErrOrderNotFound, http.StatusNotFound, deliverydomain.CodeOrderNotFound),
		apierrors.Match(ordersports.ErrNotFound, http.StatusNotFound, deliverydomain.CodeOrderNotFound),
		apierrors.Match(deliverydomain.ErrDriverNotFound, http.StatusNotFound, deliverydomain.CodeDriverNotFound),
		apierrors.Match(deliverydomain.ErrDeliveryOrderNotFound, http.StatusNotFound, deliverydomain.CodeDeliveryOrderNotFound),
		apierrors.Match(deliverydomain.ErrDuplicateAssignment, http.StatusConflict, deliverydomain.CodeDuplicateAssignment),
		apierrors.Match(deliverydomain.ErrAlreadyDelivered, http.StatusConflict, deliverydomain.CodeAlreadyDelivered),
		apierrors.Match(deliverydomain.ErrDriverUnavailable, http.StatusConflict, deliverydomain.CodeDriverUnavailable),
		apierrors.Match(ordersdomain.ErrInvalidTransition, http.StatusConflict, deliverydomain.CodeInvalidTransition),
		apierrors.Match(ordersports.ErrConflict, http.StatusConflict, deliverydomain.CodeInvalidTransition),
		apierrors.Match(deliveryports.ErrConflict, http.StatusConflict, deliverydomain.CodeAlreadyDelivered),
		apierrors.Match(ordersports.ErrIdempotencyConflict, http.StatusConflict, codeIdempotencyConflict),
	)
}

func respondValidation(c *gin.Context, r *apierrors.Responder, err error) {
	r.Respond(c, apierrors.Validation(err))
}

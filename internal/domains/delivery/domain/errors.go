package domain

import (
	"errors"

	ordersdomain "github.com/ventasve/ventasve-api/internal/domains/orders/domain"
)

var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrDriverNotFound        = errors.New("delivery person not found")
	ErrDeliveryOrderNotFound = errors.New("delivery order not found")
	ErrDuplicateAssignment   = errors.New("order already has a delivery assignment")
	ErrAlreadyDelivered      = errors.New("delivery order already delivered")
	ErrOTPInvalid            = errors.New("otp code does not match")
	ErrOTPLocked             = errors.New("too many invalid otp attempts")
	ErrOTPExpired            = errors.New("otp code expired")
	ErrDriverUnavailable     = errors.New("delivery person is not available")
	ErrBusinessMismatch      = errors.New("delivery person belongs to a different business")
	ErrValidation            = errors.New("validation error")
)

// Stable error codes consumed by the delivery app and dashboard.
const (
	CodeOrderNotFound         = "ORDER_NOT_FOUND"
	CodeDriverNotFound        = "DELIVERY_PERSON_NOT_FOUND"
	CodeInvalidTransition     = "ORDER_INVALID_TRANSITION"
	CodeDuplicateAssignment   = "DELIVERY_DUPLICATE_ASSIGNMENT"
	CodeDeliveryOrderNotFound = "DELIVERY_ORDER_NOT_FOUND"
	CodeAlreadyDelivered      = "DELIVERY_ALREADY_DELIVERED"
	CodeOTPInvalid            = "DELIVERY_OTP_INVALID"
	CodeOTPLocked             = "DELIVERY_OTP_LOCKED"
	CodeOTPExpired            = "DELIVERY_OTP_EXPIRED"
	CodeDriverUnavailable     = "DELIVERY_PERSON_UNAVAILABLE"
	CodeBusinessMismatch      = "DELIVERY_BUSINESS_MISMATCH"
	CodeValidation            = "VALIDATION_ERROR"
)

var codes = []struct {
	err  error
	code string
}{
	{ErrOrderNotFound, CodeOrderNotFound},
	{ErrDriverNotFound, CodeDriverNotFound},
	{ErrDeliveryOrderNotFound, CodeDeliveryOrderNotFound},
	{ErrDuplicateAssignment, CodeDuplicateAssignment},
	{ErrAlreadyDelivered, CodeAlreadyDelivered},
	{ErrOTPInvalid, CodeOTPInvalid},
	{ErrOTPLocked, CodeOTPLocked},
	{ErrOTPExpired, CodeOTPExpired},
	{ErrDriverUnavailable, CodeDriverUnavailable},
	{ErrBusinessMismatch, CodeBusinessMismatch},
	{ErrValidation, CodeValidation},
	{ordersdomain.ErrInvalidTransition, CodeInvalidTransition},
}

// Code returns the stable code of the first known error in err's chain, or "".
func Code(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return ""
}

// ErrorForCode is the inverse of Code, used to restore sentinels carried across process
// boundaries. Unknown codes yield nil.
func ErrorForCode(code string) error {
	for _, c := range codes {
		if c.code == code {
			return c.err
		}
	}
	return nil
}

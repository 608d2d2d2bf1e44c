// Package errors renders application errors as JSON bodies of the form {error, code}.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Stable codes shared by every endpoint.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeInternal   = "INTERNAL_ERROR"
)

// APIError is the wire shape of every failed request.
type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
	Code    string `json:"code,omitempty"`
}

// Error implements the error interface.
func (e APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// WithMessage returns a copy with the given message.
func (e APIError) WithMessage(msg string) APIError {
	e.Message = msg
	return e
}

var (
	// ErrValidation rejects malformed input before it reaches a service.
	ErrValidation = APIError{Status: http.StatusBadRequest, Code: CodeValidation, Message: "validation error"}
	// ErrInternal hides unexpected failures from clients.
	ErrInternal = APIError{Status: http.StatusInternalServerError, Code: CodeInternal, Message: "internal server error"}
)

// Validation wraps err as a VALIDATION_ERROR response.
func Validation(err error) APIError {
	return ErrValidation.WithMessage(err.Error())
}

// ErrorMapper maps domain/application errors to an APIError.
type ErrorMapper func(err error) (APIError, bool)

// Match builds a mapper answering status and code whenever err wraps target.
func Match(target error, status int, code string) ErrorMapper {
	return func(err error) (APIError, bool) {
		if !errors.Is(err, target) {
			return APIError{}, false
		}
		return APIError{Status: status, Code: code, Message: err.Error()}, true
	}
}

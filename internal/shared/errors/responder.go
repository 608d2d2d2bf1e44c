package errors

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
)

// Responder writes APIError bodies, consulting its mappers in order.
type Responder struct {
	mappers []ErrorMapper
	logger  *slog.Logger
}

// NewResponder creates a responder with custom error mappers.
func NewResponder(logger *slog.Logger, mappers ...ErrorMapper) *Responder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Responder{mappers: mappers, logger: logger}
}

// AddMapper appends an error mapper to the chain.
func (r *Responder) AddMapper(mappers ...ErrorMapper) {
	r.mappers = append(r.mappers, mappers...)
}

// Respond sends the error body with its status and aborts the handler chain.
func (r *Responder) Respond(c *gin.Context, apiErr APIError) {
	c.AbortWithStatusJSON(apiErr.Status, apiErr)
}

// RespondError maps err and responds. Unmapped errors are logged and answered with 500.
func (r *Responder) RespondError(c *gin.Context, err error) {
	var apiErr APIError
	if errors.As(err, &apiErr) {
		r.Respond(c, apiErr)
		return
	}
	for _, mapper := range r.mappers {
		if mapped, ok := mapper(err); ok {
			r.Respond(c, mapped)
			return
		}
	}
	r.logger.ErrorContext(c.Request.Context(), "unhandled request error",
		slog.String("path", c.FullPath()), slog.String("error", err.Error()))
	r.Respond(c, ErrInternal)
}

// StatusFromError returns the status RespondError would use for err.
func (r *Responder) StatusFromError(err error) int {
	var apiErr APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	for _, mapper := range r.mappers {
		if mapped, ok := mapper(err); ok {
			return mapped.Status
		}
	}
	return ErrInternal.Status
}

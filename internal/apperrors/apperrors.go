// Package apperrors defines the error taxonomy the recommendation pipeline
// classifies every failure into, and maps that taxonomy onto HTTP status
// codes at the edge of the service.
package apperrors

import (
	"net/http"

	"github.com/dhartley/liftcoach/internal/errors"
)

// Sentinels classify every error the recommendation pipeline and its
// collaborators can produce. Handlers use errors.Is against these to pick a
// status code; nothing deeper in the call stack should know about HTTP.
var (
	ErrNotFound            = errors.NewSentinel("not found")
	ErrUnauthorized        = errors.NewSentinel("unauthorized")
	ErrForbidden           = errors.NewSentinel("forbidden")
	ErrConflict            = errors.NewSentinel("conflict")
	ErrValidation          = errors.NewSentinel("validation failed")
	ErrProviderUnavailable = errors.NewSentinel("ai provider unavailable")
	ErrInvalidAIResponse   = errors.NewSentinel("invalid ai response")
	ErrStorage             = errors.NewSentinel("storage error")
)

// StatusCode maps a classified error to the HTTP status code it should
// produce. Unclassified errors are treated as internal server errors.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrProviderUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrInvalidAIResponse):
		return http.StatusBadGateway
	case errors.Is(err, ErrStorage):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

package contexthelpers

import (
	"context"

	"github.com/google/uuid"
)

// IsAuthenticated reports whether the request carries a verified bearer token.
func IsAuthenticated(ctx context.Context) bool {
	isAuthenticated, ok := ctx.Value(IsAuthenticatedContextKey).(bool)
	if !ok {
		return false
	}

	return isAuthenticated
}

// AuthenticatedUserID returns the uuid of the user identified by the request's bearer token,
// or uuid.Nil if the request is unauthenticated.
func AuthenticatedUserID(ctx context.Context) uuid.UUID {
	userID, ok := ctx.Value(AuthenticatedUserIDContextKey).(uuid.UUID)
	if !ok {
		return uuid.Nil
	}

	return userID
}

// RequestID returns the request-scoped id used to correlate log lines, or "" if unset.
func RequestID(ctx context.Context) string {
	requestID, ok := ctx.Value(RequestIDContextKey).(string)
	if !ok {
		return ""
	}

	return requestID
}

package contexthelpers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// AuthenticateContext marks the request as authenticated by userID.
func AuthenticateContext(r *http.Request, userID uuid.UUID) *http.Request {
	ctx := r.Context()
	ctx = context.WithValue(ctx, IsAuthenticatedContextKey, true)
	ctx = context.WithValue(ctx, AuthenticatedUserIDContextKey, userID)
	return r.WithContext(ctx)
}

// SetRequestID stamps the request's context with its correlation id.
func SetRequestID(r *http.Request, requestID string) *http.Request {
	ctx := context.WithValue(r.Context(), RequestIDContextKey, requestID)
	return r.WithContext(ctx)
}

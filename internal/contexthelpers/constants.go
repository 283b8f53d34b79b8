package contexthelpers

type contextKey string

const IsAuthenticatedContextKey = contextKey("isAuthenticated")
const AuthenticatedUserIDContextKey = contextKey("authenticatedUserID")
const RequestIDContextKey = contextKey("requestID")

// Package auth verifies the bearer tokens issued to liftcoach clients and
// extracts the authenticated user id from them, the same role the session
// cookie played in the teacher's web application. Putting that id into the
// request context is left to the caller (cmd/api's authenticate middleware).
package auth

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/dhartley/liftcoach/internal/apperrors"
	"github.com/dhartley/liftcoach/internal/errors"
)

// Verifier validates bearer tokens signed with a shared HS256 secret and
// extracts the subject claim as the authenticated user's id.
type Verifier struct {
	secret []byte
}

// NewVerifier constructs a Verifier using secret to check token signatures.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// claims is the minimal JWT claim set liftcoach issues and expects: the
// subject identifies the user, the rest is handled by jwt.RegisteredClaims.
type claims struct {
	jwt.RegisteredClaims
}

// VerifyHeader parses the Authorization header value (expected form
// "Bearer <token>") and returns the authenticated user id.
func (v *Verifier) VerifyHeader(header string) (uuid.UUID, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return uuid.Nil, errors.Wrap(apperrors.ErrUnauthorized, "missing bearer token")
	}
	tokenString := strings.TrimPrefix(header, prefix)

	token, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return uuid.Nil, errors.Wrap(apperrors.ErrUnauthorized, "parse bearer token")
	}
	if !token.Valid {
		return uuid.Nil, errors.Wrap(apperrors.ErrUnauthorized, "invalid bearer token")
	}

	c, ok := token.Claims.(*claims)
	if !ok {
		return uuid.Nil, errors.Wrap(apperrors.ErrUnauthorized, "invalid bearer token claims")
	}

	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, errors.Wrap(apperrors.ErrUnauthorized, "invalid subject claim")
	}

	return userID, nil
}

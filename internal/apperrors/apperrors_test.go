package apperrors_test

import (
	"net/http"
	"testing"

	stderrors "errors"

	"github.com/dhartley/liftcoach/internal/apperrors"
	"github.com/dhartley/liftcoach/internal/errors"
)

func TestStatusCode_MapsEachSentinel(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperrors.ErrNotFound, http.StatusNotFound},
		{apperrors.ErrUnauthorized, http.StatusUnauthorized},
		{apperrors.ErrForbidden, http.StatusForbidden},
		{apperrors.ErrConflict, http.StatusBadRequest},
		{apperrors.ErrValidation, http.StatusBadRequest},
		{apperrors.ErrProviderUnavailable, http.StatusServiceUnavailable},
		{apperrors.ErrInvalidAIResponse, http.StatusBadGateway},
		{apperrors.ErrStorage, http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := apperrors.StatusCode(c.err); got != c.want {
			t.Errorf("StatusCode(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestStatusCode_WrappedErrorKeepsClassification(t *testing.T) {
	wrapped := errors.Wrap(apperrors.ErrNotFound, "exercise missing")
	if got := apperrors.StatusCode(wrapped); got != http.StatusNotFound {
		t.Errorf("want 404 for wrapped not-found error, got %d", got)
	}
}

func TestStatusCode_UnclassifiedErrorIsInternal(t *testing.T) {
	if got := apperrors.StatusCode(stderrors.New("boom")); got != http.StatusInternalServerError {
		t.Errorf("want 500 for unclassified error, got %d", got)
	}
}

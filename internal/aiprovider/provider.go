// Package aiprovider abstracts the remote language-model collaborator the
// rule engine falls back from: a capability to recommend the next set and to
// report its own health, selected by configuration string at startup.
package aiprovider

import (
	"context"

	apperrors "github.com/dhartley/liftcoach/internal/apperrors"
	"github.com/dhartley/liftcoach/internal/errors"
)

// Recommendation is what a Provider returns on success.
type Recommendation struct {
	SuggestedWeightKg float64
	SuggestedReps     int
	Explanation       string
	Confidence        string
	RawResponse       string
	LatencyMS         int64
	ModelUsed         string
}

// Provider is the capability every AI backend implements: recommend the next
// set, and report whether the backend is currently reachable. HealthCheck
// returns a non-nil error when it could not determine health at all (the
// backend is unimplemented, or the probe itself failed to run), distinct
// from a false result for a backend that ran the probe and got a negative
// answer.
type Provider interface {
	Recommend(ctx context.Context, prompt Prompt) (Recommendation, error)
	HealthCheck(ctx context.Context) (bool, error)
}

// Prompt is the rendered system instruction and user prompt a Provider sends
// to the model, produced by the prompt builder.
type Prompt struct {
	SystemInstruction string
	UserPrompt        string
}

// ErrNotImplemented marks providers that are wired for selection but never
// serve real recommendations.
var ErrNotImplemented = errors.NewSentinel("provider not implemented")

// New selects a Provider by name. Unknown names fail fast at startup rather
// than lazily on first use.
func New(name, apiKey, model, baseURL string) (Provider, error) {
	switch name {
	case "gemini":
		return newGeminiProvider(apiKey, model, baseURL), nil
	case "openai":
		return stubProvider{name: "openai", healthErrors: true}, nil
	case "ollama":
		return stubProvider{name: "ollama"}, nil
	default:
		return nil, errors.Wrap(apperrors.ErrValidation, "unknown ai provider: "+name)
	}
}

// stubProvider is a permanent placeholder for backends this service does not
// yet speak to. It always fails recommend; whether its health check reports
// an error or a graceful false depends on the backend, matching the ground
// truth each stub is modelled on: the OpenAI stub raises NotImplemented even
// from its health probe, while the Ollama stub treats itself as reachable
// but simply not ready, reporting unhealthy without erroring.
type stubProvider struct {
	name         string
	healthErrors bool
}

func (s stubProvider) Recommend(_ context.Context, _ Prompt) (Recommendation, error) {
	return Recommendation{}, errors.Wrap(ErrNotImplemented, s.name+" provider")
}

func (s stubProvider) HealthCheck(_ context.Context) (bool, error) {
	if s.healthErrors {
		return false, errors.Wrap(ErrNotImplemented, s.name+" provider health check")
	}
	return false, nil
}

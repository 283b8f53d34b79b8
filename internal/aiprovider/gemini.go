package aiprovider

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"

	apperrors "github.com/dhartley/liftcoach/internal/apperrors"
	"github.com/dhartley/liftcoach/internal/errors"
)

// geminiProvider talks to Gemini through its OpenAI-compatible endpoint using
// the openai-go chat-completions client; only the base URL and model name are
// Gemini-specific.
type geminiProvider struct {
	client  openai.Client
	model   string
	enabled bool
}

func newGeminiProvider(apiKey, model, baseURL string) *geminiProvider {
	if apiKey == "" {
		return &geminiProvider{enabled: false}
	}
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
	)
	return &geminiProvider{client: client, model: model, enabled: true}
}

// recommendationPayload is the exact four-field shape the model must return.
type recommendationPayload struct {
	SuggestedWeightKg json.Number `json:"suggested_weight_kg"`
	SuggestedReps     json.Number `json:"suggested_reps"`
	Explanation       string      `json:"explanation"`
	Confidence        string      `json:"confidence"`
}

func (g *geminiProvider) Recommend(ctx context.Context, prompt Prompt) (Recommendation, error) {
	if !g.enabled {
		return Recommendation{}, errors.Wrap(apperrors.ErrProviderUnavailable, "gemini api key not configured")
	}

	params := openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt.SystemInstruction),
			openai.UserMessage(prompt.UserPrompt),
		},
		Temperature: param.NewOpt(0.3),
		MaxTokens:   param.NewOpt(int64(512)),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		},
	}

	start := time.Now()
	completion, err := g.client.Chat.Completions.New(ctx, params)
	latencyMS := time.Since(start).Milliseconds()
	if err != nil {
		return Recommendation{}, errors.Wrap(apperrors.ErrProviderUnavailable, "gemini chat completion", slog.Any("error", err))
	}

	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return Recommendation{}, errors.Wrap(apperrors.ErrInvalidAIResponse, "empty gemini response body")
	}
	raw := completion.Choices[0].Message.Content

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return Recommendation{}, errors.Wrap(apperrors.ErrInvalidAIResponse, "parse gemini json body", slog.Any("error", err))
	}
	if len(fields) != 4 {
		return Recommendation{}, errors.Wrap(apperrors.ErrInvalidAIResponse, "gemini json body must have exactly four keys")
	}
	for _, key := range []string{"suggested_weight_kg", "suggested_reps", "explanation", "confidence"} {
		if _, ok := fields[key]; !ok {
			return Recommendation{}, errors.Wrap(apperrors.ErrInvalidAIResponse, "gemini json body missing "+key)
		}
	}

	var payload recommendationPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return Recommendation{}, errors.Wrap(apperrors.ErrInvalidAIResponse, "parse gemini json body", slog.Any("error", err))
	}

	weight, err := payload.SuggestedWeightKg.Float64()
	if err != nil {
		return Recommendation{}, errors.Wrap(apperrors.ErrInvalidAIResponse, "suggested_weight_kg not numeric")
	}
	reps, err := payload.SuggestedReps.Int64()
	if err != nil {
		return Recommendation{}, errors.Wrap(apperrors.ErrInvalidAIResponse, "suggested_reps not an integer")
	}
	if payload.Explanation == "" {
		return Recommendation{}, errors.Wrap(apperrors.ErrInvalidAIResponse, "explanation missing")
	}
	switch payload.Confidence {
	case "high", "medium", "low":
	default:
		return Recommendation{}, errors.Wrap(apperrors.ErrInvalidAIResponse, "confidence not in {high, medium, low}")
	}

	return Recommendation{
		SuggestedWeightKg: weight,
		SuggestedReps:     int(reps),
		Explanation:       payload.Explanation,
		Confidence:        payload.Confidence,
		RawResponse:       raw,
		LatencyMS:         latencyMS,
		ModelUsed:         g.model,
	}, nil
}

func (g *geminiProvider) HealthCheck(ctx context.Context) (bool, error) {
	if !g.enabled {
		return false, errors.Wrap(apperrors.ErrProviderUnavailable, "gemini api key not configured")
	}
	params := openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage("Reply with OK."),
		},
	}
	_, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return false, errors.Wrap(apperrors.ErrProviderUnavailable, "gemini health check", slog.Any("error", err))
	}
	return true, nil
}

package training

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dhartley/liftcoach/internal/aiprovider"
	apperrors "github.com/dhartley/liftcoach/internal/apperrors"
	"github.com/dhartley/liftcoach/internal/domain"
	"github.com/dhartley/liftcoach/internal/errors"
	"github.com/dhartley/liftcoach/internal/rules"
)

// SetCreate is the caller-supplied payload for logging one set.
type SetCreate struct {
	ExerciseID uuid.UUID
	WeightKg   float64
	Reps       int
	RPE        *float64
	IsWarmup   bool
}

// SetResult is what LogSet returns: the persisted set, and its
// recommendation, nil for warmup sets.
type SetResult struct {
	Set            domain.Set
	Recommendation *domain.Recommendation
}

// Repository is the full data-access surface the set logger needs: the read
// methods the context builder uses plus the mutations that make up the
// log-set transaction. Implementations are expected to scope every method to
// a single caller-managed transaction so reads see the set just inserted.
type Repository interface {
	Store
	InsertSet(ctx context.Context, set domain.Set) (domain.Set, error)
	InsertRecommendation(ctx context.Context, rec domain.Recommendation) (domain.Recommendation, error)
	GetSetsForWorkout(ctx context.Context, workoutID uuid.UUID) ([]domain.Set, error)
	GetSet(ctx context.Context, id uuid.UUID) (domain.Set, error)
	DeleteSet(ctx context.Context, id uuid.UUID) error
}

// LogSet orchestrates the whole log-a-set operation: ownership and lifecycle
// checks, set insertion, recommendation selection (AI, then rule-based, then
// minimal fallback), and recommendation persistence. The caller owns the
// transaction boundary: repo must be scoped to one transaction and the
// caller commits once LogSet returns a nil error. aiTimeout bounds only the
// AI call itself; exceeding it falls back to the rule engine rather than
// failing the whole request.
func LogSet(ctx context.Context, repo Repository, provider aiprovider.Provider, logger *slog.Logger, workoutID, userID uuid.UUID, in SetCreate, now time.Time, aiTimeout time.Duration) (SetResult, error) {
	workout, err := repo.GetWorkout(ctx, workoutID)
	if err != nil {
		return SetResult{}, errors.Wrap(apperrors.ErrNotFound, "workout not found")
	}
	if workout.UserID != userID {
		return SetResult{}, errors.Wrap(apperrors.ErrForbidden, "not allowed to modify this workout")
	}
	if !workout.IsActive() {
		return SetResult{}, errors.Wrap(apperrors.ErrConflict, "workout has already ended")
	}

	currentSets, err := repo.GetSetsForWorkoutAndExercise(ctx, workoutID, in.ExerciseID)
	if err != nil {
		return SetResult{}, errors.Wrap(apperrors.ErrStorage, "load current session sets")
	}

	newSet := domain.Set{
		ID:         uuid.New(),
		WorkoutID:  workoutID,
		ExerciseID: in.ExerciseID,
		SetNumber:  len(currentSets) + 1,
		WeightKg:   in.WeightKg,
		Reps:       in.Reps,
		RPE:        in.RPE,
		IsWarmup:   in.IsWarmup,
		LoggedAt:   now,
	}
	insertedSet, err := repo.InsertSet(ctx, newSet)
	if err != nil {
		return SetResult{}, errors.Wrap(apperrors.ErrStorage, "insert set")
	}

	if in.IsWarmup {
		return SetResult{Set: insertedSet}, nil
	}

	rec := selectRecommendation(ctx, repo, provider, logger, workoutID, userID, insertedSet, now, aiTimeout)
	rec.UserID = userID
	rec.WorkoutID = workoutID
	rec.ExerciseID = in.ExerciseID
	rec.SetID = uuid.NullUUID{UUID: insertedSet.ID, Valid: true}

	insertedRec, err := repo.InsertRecommendation(ctx, rec)
	if err != nil {
		return SetResult{}, errors.Wrap(apperrors.ErrStorage, "insert recommendation")
	}

	return SetResult{Set: insertedSet, Recommendation: &insertedRec}, nil
}

// selectRecommendation runs the AI provider first, falling back to the rule
// engine on any AI failure (including the AI call exceeding aiTimeout), and
// to the minimal fallback when the context itself could not be built. It
// never returns an error: a recommendation is always produced for a
// non-warmup set.
func selectRecommendation(ctx context.Context, store Store, provider aiprovider.Provider, logger *slog.Logger, workoutID, userID uuid.UUID, set domain.Set, now time.Time, aiTimeout time.Duration) domain.Recommendation {
	workoutCtx, err := BuildContext(ctx, store, workoutID, set.ExerciseID, userID, now)
	if err != nil {
		logger.WarnContext(ctx, "context build failed, using minimal fallback", errors.SlogError(err))
		weight, reps, explanation := rules.MinimalFallback(set.WeightKg, set.Reps, set.RPE)
		return domain.Recommendation{
			RecommendedWeight: weight,
			RecommendedReps:   reps,
			Explanation:       explanation,
			Confidence:        domain.ConfidenceLow,
			AIProvider:        "fallback",
			ModelUsed:         "rule-based",
			LatencyMS:         0,
			CreatedAt:         now,
		}
	}

	aiCtx, cancel := context.WithTimeout(ctx, aiTimeout)
	defer cancel()
	aiRec, err := provider.Recommend(aiCtx, BuildPrompt(workoutCtx))
	if err != nil {
		logger.WarnContext(ctx, "ai recommendation failed, using rule engine", errors.SlogError(err))
		weight, reps, explanation := rules.Recommend(workoutCtx.ToRuleContext(), set.WeightKg, set.Reps, set.RPE)
		return domain.Recommendation{
			RecommendedWeight: weight,
			RecommendedReps:   reps,
			Explanation:       explanation,
			Confidence:        domain.ConfidenceLow,
			AIProvider:        "fallback",
			ModelUsed:         "rule-based",
			LatencyMS:         0,
			CreatedAt:         now,
		}
	}

	providerTag := "ai"
	if strings.Contains(strings.ToLower(aiRec.ModelUsed), "gemini") {
		providerTag = "gemini"
	}

	return domain.Recommendation{
		RecommendedWeight: aiRec.SuggestedWeightKg,
		RecommendedReps:   aiRec.SuggestedReps,
		Explanation:       aiRec.Explanation,
		Confidence:        domain.Confidence(aiRec.Confidence),
		AIProvider:        providerTag,
		ModelUsed:         aiRec.ModelUsed,
		LatencyMS:         aiRec.LatencyMS,
		CreatedAt:         now,
	}
}

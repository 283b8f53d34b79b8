package training_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dhartley/liftcoach/internal/aiprovider"
	"github.com/dhartley/liftcoach/internal/domain"
	"github.com/dhartley/liftcoach/internal/training"
)

type fakeRepository struct {
	*fakeStore
	sets            map[uuid.UUID]domain.Set
	recommendations []domain.Recommendation
}

func newFakeRepository(store *fakeStore) *fakeRepository {
	return &fakeRepository{fakeStore: store, sets: map[uuid.UUID]domain.Set{}}
}

func (r *fakeRepository) InsertSet(_ context.Context, set domain.Set) (domain.Set, error) {
	r.sets[set.ID] = set
	r.setsByWorkout[set.WorkoutID] = append(r.setsByWorkout[set.WorkoutID], set)
	return set, nil
}

func (r *fakeRepository) InsertRecommendation(_ context.Context, rec domain.Recommendation) (domain.Recommendation, error) {
	rec.ID = uuid.New()
	r.recommendations = append(r.recommendations, rec)
	return rec, nil
}

func (r *fakeRepository) GetSetsForWorkout(_ context.Context, workoutID uuid.UUID) ([]domain.Set, error) {
	return r.setsByWorkout[workoutID], nil
}

func (r *fakeRepository) GetSet(_ context.Context, id uuid.UUID) (domain.Set, error) {
	s, ok := r.sets[id]
	if !ok {
		return domain.Set{}, errNotFound
	}
	return s, nil
}

func (r *fakeRepository) DeleteSet(_ context.Context, id uuid.UUID) error {
	delete(r.sets, id)
	return nil
}

type fakeProvider struct {
	rec aiprovider.Recommendation
	err error
}

func (p fakeProvider) Recommend(_ context.Context, _ aiprovider.Prompt) (aiprovider.Recommendation, error) {
	return p.rec, p.err
}

func (p fakeProvider) HealthCheck(_ context.Context) (bool, error) { return p.err == nil, p.err }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const testAITimeout = 5 * time.Second

func baseFixture() (*fakeRepository, uuid.UUID, uuid.UUID, uuid.UUID) {
	userID := uuid.New()
	workoutID := uuid.New()
	exerciseID := uuid.New()
	store := &fakeStore{
		exercises: map[uuid.UUID]domain.Exercise{
			exerciseID: {ID: exerciseID, Name: "Bench Press", MuscleGroup: "Chest", IsCompound: true},
		},
		workouts: map[uuid.UUID]domain.Workout{
			workoutID: {ID: workoutID, UserID: userID, StartedAt: time.Now().Add(-10 * time.Minute)},
		},
		setsByWorkout: map[uuid.UUID][]domain.Set{},
	}
	return newFakeRepository(store), userID, workoutID, exerciseID
}

func TestLogSet_WarmupSkipsRecommendation(t *testing.T) {
	repo, userID, workoutID, exerciseID := baseFixture()
	provider := fakeProvider{err: errors.New("should not be called")}

	result, err := training.LogSet(t.Context(), repo, provider, discardLogger(), workoutID, userID, training.SetCreate{
		ExerciseID: exerciseID,
		WeightKg:   40,
		Reps:       10,
		IsWarmup:   true,
	}, time.Now(), testAITimeout)
	if err != nil {
		t.Fatalf("log set: %v", err)
	}
	if result.Recommendation != nil {
		t.Errorf("want no recommendation for warmup set, got %+v", result.Recommendation)
	}
	if result.Set.SetNumber != 1 {
		t.Errorf("want set number 1, got %d", result.Set.SetNumber)
	}
}

func TestLogSet_UsesAIRecommendationOnSuccess(t *testing.T) {
	repo, userID, workoutID, exerciseID := baseFixture()
	provider := fakeProvider{rec: aiprovider.Recommendation{
		SuggestedWeightKg: 102.5,
		SuggestedReps:     5,
		Explanation:       "progress slowly",
		Confidence:        "high",
		ModelUsed:         "gemini-2.5-flash",
	}}

	result, err := training.LogSet(t.Context(), repo, provider, discardLogger(), workoutID, userID, training.SetCreate{
		ExerciseID: exerciseID,
		WeightKg:   100,
		Reps:       5,
	}, time.Now(), testAITimeout)
	if err != nil {
		t.Fatalf("log set: %v", err)
	}
	if result.Recommendation == nil {
		t.Fatal("want a recommendation")
	}
	if result.Recommendation.AIProvider != "gemini" {
		t.Errorf("want provider tag gemini, got %s", result.Recommendation.AIProvider)
	}
	if result.Recommendation.RecommendedWeight != 102.5 {
		t.Errorf("want recommended weight 102.5, got %v", result.Recommendation.RecommendedWeight)
	}
}

func TestLogSet_FallsBackToRuleEngineOnAIFailure(t *testing.T) {
	repo, userID, workoutID, exerciseID := baseFixture()
	provider := fakeProvider{err: errors.New("upstream unavailable")}

	result, err := training.LogSet(t.Context(), repo, provider, discardLogger(), workoutID, userID, training.SetCreate{
		ExerciseID: exerciseID,
		WeightKg:   100,
		Reps:       5,
	}, time.Now(), testAITimeout)
	if err != nil {
		t.Fatalf("log set: %v", err)
	}
	if result.Recommendation == nil {
		t.Fatal("want a fallback recommendation")
	}
	if result.Recommendation.AIProvider != "fallback" {
		t.Errorf("want fallback provider tag, got %s", result.Recommendation.AIProvider)
	}
	if result.Recommendation.ModelUsed != "rule-based" {
		t.Errorf("want rule-based model, got %s", result.Recommendation.ModelUsed)
	}
}

func TestLogSet_ForbiddenWhenWorkoutBelongsToAnotherUser(t *testing.T) {
	repo, _, workoutID, exerciseID := baseFixture()
	otherUserID := uuid.New()
	provider := fakeProvider{}

	_, err := training.LogSet(t.Context(), repo, provider, discardLogger(), workoutID, otherUserID, training.SetCreate{
		ExerciseID: exerciseID,
		WeightKg:   100,
		Reps:       5,
	}, time.Now(), testAITimeout)
	if err == nil {
		t.Fatal("want forbidden error, got nil")
	}
}

func TestLogSet_ConflictWhenWorkoutAlreadyEnded(t *testing.T) {
	repo, userID, workoutID, exerciseID := baseFixture()
	ended := repo.workouts[workoutID]
	endedAt := time.Now()
	ended.EndedAt = &endedAt
	repo.workouts[workoutID] = ended

	_, err := training.LogSet(t.Context(), repo, fakeProvider{}, discardLogger(), workoutID, userID, training.SetCreate{
		ExerciseID: exerciseID,
		WeightKg:   100,
		Reps:       5,
	}, time.Now(), testAITimeout)
	if err == nil {
		t.Fatal("want conflict error, got nil")
	}
}

func TestLogSet_SetNumberIncrementsWithinSession(t *testing.T) {
	repo, userID, workoutID, exerciseID := baseFixture()
	provider := fakeProvider{rec: aiprovider.Recommendation{SuggestedWeightKg: 100, SuggestedReps: 5, Confidence: "medium", ModelUsed: "gemini"}}

	for i := 1; i <= 3; i++ {
		result, err := training.LogSet(t.Context(), repo, provider, discardLogger(), workoutID, userID, training.SetCreate{
			ExerciseID: exerciseID,
			WeightKg:   100,
			Reps:       5,
		}, time.Now(), testAITimeout)
		if err != nil {
			t.Fatalf("log set %d: %v", i, err)
		}
		if result.Set.SetNumber != i {
			t.Errorf("want set number %d, got %d", i, result.Set.SetNumber)
		}
	}
}

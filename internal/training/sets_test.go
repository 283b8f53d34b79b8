package training_test

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dhartley/liftcoach/internal/domain"
	"github.com/dhartley/liftcoach/internal/training"
)

func TestListSets_ReturnsSetsInInsertionOrder(t *testing.T) {
	repo, userID, workoutID, exerciseID := baseFixture()
	for i := 1; i <= 2; i++ {
		_, err := repo.InsertSet(t.Context(), domain.Set{
			ID:         uuid.New(),
			WorkoutID:  workoutID,
			ExerciseID: exerciseID,
			SetNumber:  i,
			WeightKg:   float64(90 + i),
			Reps:       5,
			LoggedAt:   time.Now(),
		})
		if err != nil {
			t.Fatalf("insert set %d: %v", i, err)
		}
	}

	sets, err := training.ListSets(t.Context(), repo, workoutID, userID)
	if err != nil {
		t.Fatalf("list sets: %v", err)
	}
	if len(sets) != 2 {
		t.Fatalf("want 2 sets, got %d", len(sets))
	}
	if sets[0].WeightKg != 91 || sets[1].WeightKg != 92 {
		t.Errorf("want sets in insertion order, got %v, %v", sets[0].WeightKg, sets[1].WeightKg)
	}
}

func TestListSets_ForbiddenForNonOwner(t *testing.T) {
	repo, _, workoutID, _ := baseFixture()
	_, err := training.ListSets(t.Context(), repo, workoutID, uuid.New())
	if err == nil {
		t.Fatal("want forbidden error, got nil")
	}
}

func TestDeleteSet_RemovesSetForOwner(t *testing.T) {
	repo, userID, workoutID, exerciseID := baseFixture()
	inserted, err := repo.InsertSet(t.Context(), domain.Set{
		ID:         uuid.New(),
		WorkoutID:  workoutID,
		ExerciseID: exerciseID,
		SetNumber:  1,
		WeightKg:   100,
		Reps:       5,
		LoggedAt:   time.Now(),
	})
	if err != nil {
		t.Fatalf("insert set: %v", err)
	}

	if err := training.DeleteSet(t.Context(), repo, inserted.ID, userID); err != nil {
		t.Fatalf("delete set: %v", err)
	}
	if _, ok := repo.sets[inserted.ID]; ok {
		t.Error("want set removed from repository")
	}
}

func TestDeleteSet_ForbiddenWhenSetBelongsToAnotherUsersWorkout(t *testing.T) {
	repo, _, workoutID, exerciseID := baseFixture()
	inserted, err := repo.InsertSet(t.Context(), domain.Set{
		ID:         uuid.New(),
		WorkoutID:  workoutID,
		ExerciseID: exerciseID,
		SetNumber:  1,
		WeightKg:   100,
		Reps:       5,
		LoggedAt:   time.Now(),
	})
	if err != nil {
		t.Fatalf("insert set: %v", err)
	}

	err = training.DeleteSet(t.Context(), repo, inserted.ID, uuid.New())
	if err == nil {
		t.Fatal("want forbidden error, got nil")
	}
}

func TestDeleteSet_NotFoundForUnknownSet(t *testing.T) {
	repo, userID, _, _ := baseFixture()
	err := training.DeleteSet(t.Context(), repo, uuid.New(), userID)
	if err == nil {
		t.Fatal("want not found error, got nil")
	}
}

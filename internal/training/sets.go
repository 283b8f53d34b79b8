package training

import (
	"context"

	"github.com/google/uuid"

	apperrors "github.com/dhartley/liftcoach/internal/apperrors"
	"github.com/dhartley/liftcoach/internal/domain"
	"github.com/dhartley/liftcoach/internal/errors"
)

// ListSets returns every set logged for a workout, in insertion order. The
// caller must own the workout.
func ListSets(ctx context.Context, repo Repository, workoutID, userID uuid.UUID) ([]domain.Set, error) {
	workout, err := repo.GetWorkout(ctx, workoutID)
	if err != nil {
		return nil, errors.Wrap(apperrors.ErrNotFound, "workout not found")
	}
	if workout.UserID != userID {
		return nil, errors.Wrap(apperrors.ErrForbidden, "not allowed to view this workout")
	}
	sets, err := repo.GetSetsForWorkout(ctx, workoutID)
	if err != nil {
		return nil, errors.Wrap(apperrors.ErrStorage, "load sets for workout")
	}
	return sets, nil
}

// DeleteSet removes a set. The caller must own the set's workout; the
// recommendation that referenced it is left in place with set_id nulled by
// the foreign key's ON DELETE SET NULL.
func DeleteSet(ctx context.Context, repo Repository, setID, userID uuid.UUID) error {
	set, err := repo.GetSet(ctx, setID)
	if err != nil {
		return errors.Wrap(apperrors.ErrNotFound, "set not found")
	}
	workout, err := repo.GetWorkout(ctx, set.WorkoutID)
	if err != nil {
		return errors.Wrap(apperrors.ErrStorage, "load set's workout")
	}
	if workout.UserID != userID {
		return errors.Wrap(apperrors.ErrForbidden, "not allowed to delete this set")
	}
	if err := repo.DeleteSet(ctx, setID); err != nil {
		return errors.Wrap(apperrors.ErrStorage, "delete set")
	}
	return nil
}

// Package training assembles the context behind a set recommendation,
// renders it into a prompt, drives the AI provider and rule-engine fallback,
// and persists the result inside the set-logging transaction.
package training

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/dhartley/liftcoach/internal/apperrors"
	"github.com/dhartley/liftcoach/internal/domain"
	"github.com/dhartley/liftcoach/internal/errors"
	"github.com/dhartley/liftcoach/internal/rules"
)

// CurrentSet is one set already logged in the active session, as rendered
// into a recommendation context.
type CurrentSet struct {
	SetNumber int
	WeightKg  float64
	Reps      int
	RPE       *float64
}

// SessionSummary is one prior session for the same exercise: the date its
// workout started, and the sets logged in it.
type SessionSummary struct {
	Date string
	Sets []CurrentSet
}

// WorkoutContext is the immutable value the prompt builder and rule engine
// both reason over.
type WorkoutContext struct {
	ExerciseName           string
	MuscleGroup            string
	EquipmentType          string
	IsCompound             bool
	CurrentSessionSets     []CurrentSet
	RecentSessions         []SessionSummary
	Estimated1RM           *float64
	MaxWeightEver          *float64
	TotalSetsToday         int
	WorkoutDurationMinutes int
}

// ToRuleContext narrows a WorkoutContext to the fields the rule engine needs.
func (c WorkoutContext) ToRuleContext() rules.Context {
	currentSets := make([]rules.SessionSet, len(c.CurrentSessionSets))
	for i, s := range c.CurrentSessionSets {
		currentSets[i] = rules.SessionSet{WeightKg: s.WeightKg, Reps: s.Reps}
	}

	recent := make([]rules.PriorSession, len(c.RecentSessions))
	for i, s := range c.RecentSessions {
		sets := make([]rules.SessionSet, len(s.Sets))
		for j, set := range s.Sets {
			sets[j] = rules.SessionSet{WeightKg: set.WeightKg, Reps: set.Reps}
		}
		recent[i] = rules.PriorSession{Sets: sets}
	}

	duration := c.WorkoutDurationMinutes
	return rules.Context{
		IsCompound:             c.IsCompound,
		CurrentSessionSets:     currentSets,
		RecentSessions:         recent,
		Estimated1RM:           c.Estimated1RM,
		TotalSetsToday:         c.TotalSetsToday,
		WorkoutDurationMinutes: &duration,
	}
}

// Store is the read surface the context builder needs. It is satisfied by
// the sqlite repositories and by fakes in tests.
type Store interface {
	GetExercise(ctx context.Context, id uuid.UUID) (domain.Exercise, error)
	GetWorkout(ctx context.Context, id uuid.UUID) (domain.Workout, error)
	GetSetsForWorkoutAndExercise(ctx context.Context, workoutID, exerciseID uuid.UUID) ([]domain.Set, error)
	GetRecentSetsForExercise(ctx context.Context, userID, exerciseID uuid.UUID, limit int) ([]domain.Set, error)
	CountSetsInWorkout(ctx context.Context, workoutID uuid.UUID) (int, error)
	GetMaxWeightForExercise(ctx context.Context, userID, exerciseID uuid.UUID) (*float64, error)
	GetWorkoutsByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Workout, error)
}

const recentSetsLimit = 60
const maxRecentSessions = 3

// BuildContext assembles the recommendation context for the given workout,
// exercise and user. It fails NotFound if either entity is missing and
// Forbidden if the workout does not belong to the user.
func BuildContext(ctx context.Context, store Store, workoutID, exerciseID, userID uuid.UUID, now time.Time) (WorkoutContext, error) {
	exercise, err := store.GetExercise(ctx, exerciseID)
	if err != nil {
		return WorkoutContext{}, errors.Wrap(apperrors.ErrNotFound, "exercise not found")
	}

	workout, err := store.GetWorkout(ctx, workoutID)
	if err != nil {
		return WorkoutContext{}, errors.Wrap(apperrors.ErrNotFound, "workout not found")
	}
	if workout.UserID != userID {
		return WorkoutContext{}, errors.Wrap(apperrors.ErrForbidden, "workout belongs to another user")
	}

	currentSets, err := store.GetSetsForWorkoutAndExercise(ctx, workoutID, exerciseID)
	if err != nil {
		return WorkoutContext{}, errors.Wrap(apperrors.ErrStorage, "load current session sets")
	}

	recentSets, err := store.GetRecentSetsForExercise(ctx, userID, exerciseID, recentSetsLimit)
	if err != nil {
		return WorkoutContext{}, errors.Wrap(apperrors.ErrStorage, "load recent sets")
	}

	recentSessions, workoutIDsInOrder := groupByWorkoutExcluding(recentSets, workoutID, maxRecentSessions)

	workoutsByID, err := store.GetWorkoutsByID(ctx, workoutIDsInOrder)
	if err != nil {
		return WorkoutContext{}, errors.Wrap(apperrors.ErrStorage, "load session workout dates")
	}

	sessions := make([]SessionSummary, 0, len(recentSessions))
	for _, group := range recentSessions {
		date := ""
		if w, ok := workoutsByID[group.workoutID]; ok {
			date = w.StartedAt.Format("2006-01-02")
		}
		sessions = append(sessions, SessionSummary{Date: date, Sets: group.sets})
	}

	totalSetsToday, err := store.CountSetsInWorkout(ctx, workoutID)
	if err != nil {
		return WorkoutContext{}, errors.Wrap(apperrors.ErrStorage, "count sets in workout")
	}

	maxWeightEver, err := store.GetMaxWeightForExercise(ctx, userID, exerciseID)
	if err != nil {
		return WorkoutContext{}, errors.Wrap(apperrors.ErrStorage, "load max weight ever")
	}

	var estimated1RM *float64
	if len(recentSets) > 0 {
		best := 0.0
		for _, s := range recentSets {
			oneRM := s.WeightKg * (1 + float64(s.Reps)/30)
			if oneRM > best {
				best = oneRM
			}
		}
		rounded := math.Round(best*100) / 100
		estimated1RM = &rounded
	}

	durationMinutes := int(math.Max(0, now.Sub(workout.StartedAt).Minutes()))

	return WorkoutContext{
		ExerciseName:           exercise.Name,
		MuscleGroup:            exercise.MuscleGroup,
		EquipmentType:          exercise.EquipmentType,
		IsCompound:             exercise.IsCompound,
		CurrentSessionSets:     toCurrentSets(currentSets),
		RecentSessions:         sessions,
		Estimated1RM:           estimated1RM,
		MaxWeightEver:          maxWeightEver,
		TotalSetsToday:         totalSetsToday,
		WorkoutDurationMinutes: durationMinutes,
	}, nil
}

func toCurrentSets(sets []domain.Set) []CurrentSet {
	out := make([]CurrentSet, len(sets))
	for i, s := range sets {
		out[i] = CurrentSet{SetNumber: s.SetNumber, WeightKg: s.WeightKg, Reps: s.Reps, RPE: s.RPE}
	}
	return out
}

type sessionGroup struct {
	workoutID uuid.UUID
	sets      []CurrentSet
}

// groupByWorkoutExcluding groups sets (already ordered by logged_at DESC) by
// workout id, preserving first-seen order, excluding the current workout,
// and keeping at most limit groups.
func groupByWorkoutExcluding(sets []domain.Set, excludeWorkoutID uuid.UUID, limit int) ([]sessionGroup, []uuid.UUID) {
	var groups []sessionGroup
	index := map[uuid.UUID]int{}
	var order []uuid.UUID

	for _, s := range sets {
		if s.WorkoutID == excludeWorkoutID {
			continue
		}
		i, ok := index[s.WorkoutID]
		if !ok {
			if len(groups) >= limit {
				continue
			}
			index[s.WorkoutID] = len(groups)
			groups = append(groups, sessionGroup{workoutID: s.WorkoutID})
			order = append(order, s.WorkoutID)
			i = len(groups) - 1
		}
		groups[i].sets = append(groups[i].sets, CurrentSet{
			SetNumber: s.SetNumber,
			WeightKg:  s.WeightKg,
			Reps:      s.Reps,
			RPE:       s.RPE,
		})
	}

	return groups, order
}

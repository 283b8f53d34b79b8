// Package domain holds the entities shared across the recommendation
// pipeline and its repositories: users, exercises, workouts, sets, and the
// recommendations logged alongside them.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// ExerciseCategory classifies an exercise by the body split it belongs to.
type ExerciseCategory string

const (
	CategoryUpper    ExerciseCategory = "upper"
	CategoryLower    ExerciseCategory = "lower"
	CategoryFullBody ExerciseCategory = "full_body"
)

// Confidence is the AI provider's (or rule engine's) self-reported confidence
// in a recommendation.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// User is an account that owns workouts. Registration and password hashing
// happen outside the recommendation pipeline; HashedPW and Username exist
// here only so the repository layer can satisfy the users table's own
// uniqueness constraints.
type User struct {
	ID        uuid.UUID
	Email     string
	Username  string
	HashedPW  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Exercise is a named movement, e.g. "Barbell Back Squat". Global exercises
// (IsGlobal true) have no CreatedBy; user-defined ones do.
type Exercise struct {
	ID            uuid.UUID
	Name          string
	MuscleGroup   string
	EquipmentType string
	IsCompound    bool
	IsGlobal      bool
	CreatedBy     uuid.NullUUID
	CreatedAt     time.Time
}

// Workout is a single training session belonging to a user.
type Workout struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	Notes     string
	StartedAt time.Time
	EndedAt   *time.Time
	CreatedAt time.Time
}

// IsActive reports whether the workout has not yet been ended.
func (w Workout) IsActive() bool {
	return w.EndedAt == nil
}

// Set is one completed or warmup set of an exercise within a workout.
type Set struct {
	ID         uuid.UUID
	WorkoutID  uuid.UUID
	ExerciseID uuid.UUID
	SetNumber  int
	WeightKg   float64
	Reps       int
	RPE        *float64
	IsWarmup   bool
	LoggedAt   time.Time
}

// Recommendation is the suggestion produced for the set that should follow
// the one just logged. SetID is nulled out (not deleted) when its triggering
// set is removed.
type Recommendation struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	WorkoutID       uuid.UUID
	ExerciseID      uuid.UUID
	SetID           uuid.NullUUID
	RecommendedWeight float64
	RecommendedReps   int
	Explanation     string
	Confidence      Confidence
	AIProvider      string
	ModelUsed       string
	LatencyMS       int64
	WasFollowed     *bool
	CreatedAt       time.Time
}

package main

import (
	"time"

	"github.com/google/uuid"

	"github.com/dhartley/liftcoach/internal/domain"
)

// setCreateRequest is the POST /sets request body.
type setCreateRequest struct {
	ExerciseID uuid.UUID `json:"exercise_id" validate:"required"`
	WeightKg   float64   `json:"weight_kg" validate:"gte=0"`
	Reps       int       `json:"reps" validate:"required,min=1"`
	RPE        *float64  `json:"rpe,omitempty" validate:"omitempty,gte=1,lte=10"`
	IsWarmup   bool      `json:"is_warmup"`
}

type setResponse struct {
	ID         uuid.UUID `json:"id"`
	WorkoutID  uuid.UUID `json:"workout_id"`
	ExerciseID uuid.UUID `json:"exercise_id"`
	SetNumber  int       `json:"set_number"`
	WeightKg   float64   `json:"weight_kg"`
	Reps       int       `json:"reps"`
	RPE        *float64  `json:"rpe,omitempty"`
	IsWarmup   bool      `json:"is_warmup"`
	LoggedAt   time.Time `json:"logged_at"`
}

func newSetResponse(s domain.Set) setResponse {
	return setResponse{
		ID:         s.ID,
		WorkoutID:  s.WorkoutID,
		ExerciseID: s.ExerciseID,
		SetNumber:  s.SetNumber,
		WeightKg:   s.WeightKg,
		Reps:       s.Reps,
		RPE:        s.RPE,
		IsWarmup:   s.IsWarmup,
		LoggedAt:   s.LoggedAt,
	}
}

type recommendationResponse struct {
	ID                uuid.UUID `json:"id"`
	RecommendedWeight float64   `json:"recommended_weight_kg"`
	RecommendedReps   int       `json:"recommended_reps"`
	Explanation       string    `json:"explanation"`
	Confidence        string    `json:"confidence"`
	AIProvider        string    `json:"ai_provider"`
	ModelUsed         string    `json:"model_used"`
	LatencyMS         int64     `json:"latency_ms"`
}

func newRecommendationResponse(rec domain.Recommendation) recommendationResponse {
	return recommendationResponse{
		ID:                rec.ID,
		RecommendedWeight: rec.RecommendedWeight,
		RecommendedReps:   rec.RecommendedReps,
		Explanation:       rec.Explanation,
		Confidence:        string(rec.Confidence),
		AIProvider:        rec.AIProvider,
		ModelUsed:         rec.ModelUsed,
		LatencyMS:         rec.LatencyMS,
	}
}

type logSetResponse struct {
	Set            setResponse             `json:"set"`
	Recommendation *recommendationResponse `json:"recommendation"`
}

type workoutResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

func newWorkoutResponse(w domain.Workout) workoutResponse {
	return workoutResponse{ID: w.ID, Name: w.Name, Notes: w.Notes, StartedAt: w.StartedAt, EndedAt: w.EndedAt}
}

type workoutCreateRequest struct {
	Name  string `json:"name,omitempty"`
	Notes string `json:"notes,omitempty"`
}

type exerciseResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	MuscleGroup   string    `json:"muscle_group"`
	EquipmentType string    `json:"equipment_type,omitempty"`
	IsCompound    bool      `json:"is_compound"`
	IsGlobal      bool      `json:"is_global"`
}

func newExerciseResponse(e domain.Exercise) exerciseResponse {
	return exerciseResponse{
		ID:            e.ID,
		Name:          e.Name,
		MuscleGroup:   e.MuscleGroup,
		EquipmentType: e.EquipmentType,
		IsCompound:    e.IsCompound,
		IsGlobal:      e.IsGlobal,
	}
}

type exerciseCreateRequest struct {
	Name          string `json:"name" validate:"required"`
	MuscleGroup   string `json:"muscle_group" validate:"required"`
	EquipmentType string `json:"equipment_type,omitempty"`
	IsCompound    bool   `json:"is_compound"`
}

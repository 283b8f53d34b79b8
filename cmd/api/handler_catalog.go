package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dhartley/liftcoach/internal/apperrors"
	"github.com/dhartley/liftcoach/internal/contexthelpers"
	"github.com/dhartley/liftcoach/internal/domain"
	"github.com/dhartley/liftcoach/internal/errors"
)

// Thin CRUD handlers over the catalog repository. None of these carry
// recommendation logic; they exist so the service can create the workouts
// and exercises the recommendation pipeline needs to run against.

func (app *application) handleListExercises(w http.ResponseWriter, r *http.Request) {
	userID := contexthelpers.AuthenticatedUserID(r.Context())
	exercises, err := app.catalog.ListExercises(r.Context(), userID)
	if err != nil {
		app.writeError(w, r, errors.Wrap(apperrors.ErrStorage, "list exercises"))
		return
	}
	out := make([]exerciseResponse, len(exercises))
	for i, e := range exercises {
		out[i] = newExerciseResponse(e)
	}
	writeJSON(w, http.StatusOK, out)
}

func (app *application) handleCreateExercise(w http.ResponseWriter, r *http.Request) {
	var req exerciseCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		app.writeError(w, r, errors.Wrap(apperrors.ErrValidation, "malformed request body"))
		return
	}
	if err := app.validator.Struct(&req); err != nil {
		app.writeError(w, r, errors.Wrap(apperrors.ErrValidation, "invalid exercise"))
		return
	}

	userID := contexthelpers.AuthenticatedUserID(r.Context())
	created, err := app.catalog.CreateExercise(r.Context(), domain.Exercise{
		Name:          req.Name,
		MuscleGroup:   req.MuscleGroup,
		EquipmentType: req.EquipmentType,
		IsCompound:    req.IsCompound,
		CreatedBy:     uuid.NullUUID{UUID: userID, Valid: true},
		CreatedAt:     time.Now(),
	})
	if err != nil {
		app.writeError(w, r, errors.Wrap(apperrors.ErrStorage, "create exercise"))
		return
	}
	writeJSON(w, http.StatusCreated, newExerciseResponse(created))
}

func (app *application) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	userID := contexthelpers.AuthenticatedUserID(r.Context())
	workouts, err := app.catalog.ListWorkouts(r.Context(), userID)
	if err != nil {
		app.writeError(w, r, errors.Wrap(apperrors.ErrStorage, "list workouts"))
		return
	}
	out := make([]workoutResponse, len(workouts))
	for i, wk := range workouts {
		out[i] = newWorkoutResponse(wk)
	}
	writeJSON(w, http.StatusOK, out)
}

func (app *application) handleCreateWorkout(w http.ResponseWriter, r *http.Request) {
	var req workoutCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		app.writeError(w, r, errors.Wrap(apperrors.ErrValidation, "malformed request body"))
		return
	}

	userID := contexthelpers.AuthenticatedUserID(r.Context())
	now := time.Now()
	created, err := app.catalog.CreateWorkout(r.Context(), domain.Workout{
		UserID:    userID,
		Name:      req.Name,
		Notes:     req.Notes,
		StartedAt: now,
		CreatedAt: now,
	})
	if err != nil {
		app.writeError(w, r, errors.Wrap(apperrors.ErrStorage, "create workout"))
		return
	}
	writeJSON(w, http.StatusCreated, newWorkoutResponse(created))
}

func (app *application) handleEndWorkout(w http.ResponseWriter, r *http.Request) {
	workoutID, err := uuid.Parse(chi.URLParam(r, "workoutID"))
	if err != nil {
		app.writeError(w, r, errors.Wrap(apperrors.ErrValidation, "invalid workout id"))
		return
	}

	userID := contexthelpers.AuthenticatedUserID(r.Context())
	workout, err := app.catalog.GetWorkout(r.Context(), workoutID)
	if err != nil {
		app.writeError(w, r, errors.Wrap(apperrors.ErrNotFound, "workout not found"))
		return
	}
	if workout.UserID != userID {
		app.writeError(w, r, errors.Wrap(apperrors.ErrForbidden, "not allowed to modify this workout"))
		return
	}

	if err = app.catalog.EndWorkout(r.Context(), workoutID, time.Now()); err != nil {
		app.writeError(w, r, errors.Wrap(apperrors.ErrStorage, "end workout"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dhartley/liftcoach/internal/apperrors"
	"github.com/dhartley/liftcoach/internal/contexthelpers"
	"github.com/dhartley/liftcoach/internal/errors"
	"github.com/dhartley/liftcoach/internal/sqlite"
	"github.com/dhartley/liftcoach/internal/training"
)

func (app *application) handleLogSet(w http.ResponseWriter, r *http.Request) {
	workoutID, err := uuid.Parse(chi.URLParam(r, "workoutID"))
	if err != nil {
		app.writeError(w, r, errors.Wrap(apperrors.ErrValidation, "invalid workout id"))
		return
	}

	var req setCreateRequest
	if err = decodeJSON(r, &req); err != nil {
		app.writeError(w, r, errors.Wrap(apperrors.ErrValidation, "malformed request body"))
		return
	}
	if err = app.validator.Struct(&req); err != nil {
		app.writeError(w, r, errors.Wrap(apperrors.ErrValidation, "invalid set", errors.SlogError(err)))
		return
	}

	userID := contexthelpers.AuthenticatedUserID(r.Context())

	var result training.SetResult
	err = app.db.WithTrainingTx(r.Context(), func(repo *sqlite.TrainingRepository) error {
		var txErr error
		result, txErr = training.LogSet(r.Context(), repo, app.aiProvider, app.logger, workoutID, userID, training.SetCreate{
			ExerciseID: req.ExerciseID,
			WeightKg:   req.WeightKg,
			Reps:       req.Reps,
			RPE:        req.RPE,
			IsWarmup:   req.IsWarmup,
		}, time.Now(), app.aiTimeout)
		return txErr
	})
	if err != nil {
		app.writeError(w, r, err)
		return
	}

	resp := logSetResponse{Set: newSetResponse(result.Set)}
	if result.Recommendation != nil {
		rec := newRecommendationResponse(*result.Recommendation)
		resp.Recommendation = &rec
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (app *application) handleListSets(w http.ResponseWriter, r *http.Request) {
	workoutID, err := uuid.Parse(chi.URLParam(r, "workoutID"))
	if err != nil {
		app.writeError(w, r, errors.Wrap(apperrors.ErrValidation, "invalid workout id"))
		return
	}
	userID := contexthelpers.AuthenticatedUserID(r.Context())

	var sets []setResponse
	err = app.db.WithTrainingTx(r.Context(), func(repo *sqlite.TrainingRepository) error {
		loaded, listErr := training.ListSets(r.Context(), repo, workoutID, userID)
		if listErr != nil {
			return listErr
		}
		sets = make([]setResponse, len(loaded))
		for i, s := range loaded {
			sets[i] = newSetResponse(s)
		}
		return nil
	})
	if err != nil {
		app.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sets)
}

func (app *application) handleDeleteSet(w http.ResponseWriter, r *http.Request) {
	setID, err := uuid.Parse(chi.URLParam(r, "setID"))
	if err != nil {
		app.writeError(w, r, errors.Wrap(apperrors.ErrValidation, "invalid set id"))
		return
	}
	userID := contexthelpers.AuthenticatedUserID(r.Context())

	err = app.db.WithTrainingTx(r.Context(), func(repo *sqlite.TrainingRepository) error {
		return training.DeleteSet(r.Context(), repo, setID, userID)
	})
	if err != nil {
		app.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dhartley/liftcoach/internal/domain"
)

const timeLayout = "2006-01-02T15:04:05.999999999Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

// TrainingRepository implements training.Repository against a single
// transaction, so every read inside a log-set request sees the set it just
// inserted.
type TrainingRepository struct {
	tx *sql.Tx
}

// WithTrainingTx opens a read-write transaction, runs fn against a
// TrainingRepository scoped to it, and commits on success or rolls back on
// any error fn returns. This is the single transaction spanning ownership
// check, set insertion, context build, AI call, and recommendation
// insertion that the log-set operation requires.
func (db *Database) WithTrainingTx(ctx context.Context, fn func(*TrainingRepository) error) (err error) {
	tx, err := db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			db.logger.LogAttrs(ctx, slog.LevelError, "rollback training transaction", slog.Any("error", rollbackErr))
		}
	}()

	if err = fn(&TrainingRepository{tx: tx}); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *TrainingRepository) GetExercise(ctx context.Context, id uuid.UUID) (domain.Exercise, error) {
	var (
		e             domain.Exercise
		equipmentType sql.NullString
		createdBy     sql.NullString
		createdAtStr  string
	)
	err := r.tx.QueryRowContext(ctx, `
		SELECT id, name, muscle_group, equipment_type, is_compound, is_global, created_by, created_at
		FROM exercises WHERE id = ?`, id.String()).Scan(
		&e.ID, &e.Name, &e.MuscleGroup, &equipmentType, &e.IsCompound, &e.IsGlobal, &createdBy, &createdAtStr)
	if err != nil {
		return domain.Exercise{}, fmt.Errorf("query exercise: %w", err)
	}
	e.EquipmentType = equipmentType.String
	if createdBy.Valid {
		parsed, parseErr := uuid.Parse(createdBy.String)
		if parseErr != nil {
			return domain.Exercise{}, fmt.Errorf("parse created_by: %w", parseErr)
		}
		e.CreatedBy = uuid.NullUUID{UUID: parsed, Valid: true}
	}
	if e.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return domain.Exercise{}, fmt.Errorf("parse created_at: %w", err)
	}
	return e, nil
}

func (r *TrainingRepository) GetWorkout(ctx context.Context, id uuid.UUID) (domain.Workout, error) {
	var (
		w            domain.Workout
		name         sql.NullString
		notes        sql.NullString
		startedAtStr string
		endedAtStr   sql.NullString
		createdAtStr string
	)
	err := r.tx.QueryRowContext(ctx, `
		SELECT id, user_id, name, notes, started_at, ended_at, created_at
		FROM workouts WHERE id = ?`, id.String()).Scan(
		&w.ID, &w.UserID, &name, &notes, &startedAtStr, &endedAtStr, &createdAtStr)
	if err != nil {
		return domain.Workout{}, fmt.Errorf("query workout: %w", err)
	}
	w.Name = name.String
	w.Notes = notes.String
	if w.StartedAt, err = parseTime(startedAtStr); err != nil {
		return domain.Workout{}, fmt.Errorf("parse started_at: %w", err)
	}
	if endedAtStr.Valid {
		ended, parseErr := parseTime(endedAtStr.String)
		if parseErr != nil {
			return domain.Workout{}, fmt.Errorf("parse ended_at: %w", parseErr)
		}
		w.EndedAt = &ended
	}
	if w.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return domain.Workout{}, fmt.Errorf("parse created_at: %w", err)
	}
	return w, nil
}

func (r *TrainingRepository) GetWorkoutsByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Workout, error) {
	result := make(map[uuid.UUID]domain.Workout, len(ids))
	for _, id := range ids {
		w, err := r.GetWorkout(ctx, id)
		if err != nil {
			return nil, err
		}
		result[id] = w
	}
	return result, nil
}

func (r *TrainingRepository) GetSetsForWorkoutAndExercise(ctx context.Context, workoutID, exerciseID uuid.UUID) ([]domain.Set, error) {
	return r.querySets(ctx, `
		SELECT id, workout_id, exercise_id, set_number, weight_kg, reps, rpe, is_warmup, logged_at
		FROM sets WHERE workout_id = ? AND exercise_id = ?
		ORDER BY set_number`, workoutID.String(), exerciseID.String())
}

func (r *TrainingRepository) GetSetsForWorkout(ctx context.Context, workoutID uuid.UUID) ([]domain.Set, error) {
	return r.querySets(ctx, `
		SELECT id, workout_id, exercise_id, set_number, weight_kg, reps, rpe, is_warmup, logged_at
		FROM sets WHERE workout_id = ?
		ORDER BY logged_at`, workoutID.String())
}

func (r *TrainingRepository) GetRecentSetsForExercise(ctx context.Context, userID, exerciseID uuid.UUID, limit int) ([]domain.Set, error) {
	return r.querySets(ctx, `
		SELECT id, workout_id, exercise_id, set_number, weight_kg, reps, rpe, is_warmup, logged_at
		FROM sets WHERE user_id = ? AND exercise_id = ?
		ORDER BY logged_at DESC
		LIMIT ?`, userID.String(), exerciseID.String(), limit)
}

func (r *TrainingRepository) querySets(ctx context.Context, query string, args ...any) (_ []domain.Set, err error) {
	rows, err := r.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sets: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var sets []domain.Set
	for rows.Next() {
		var (
			s           domain.Set
			rpe         sql.NullFloat64
			loggedAtStr string
		)
		if err = rows.Scan(&s.ID, &s.WorkoutID, &s.ExerciseID, &s.SetNumber, &s.WeightKg, &s.Reps, &rpe, &s.IsWarmup, &loggedAtStr); err != nil {
			return nil, fmt.Errorf("scan set: %w", err)
		}
		if rpe.Valid {
			s.RPE = &rpe.Float64
		}
		if s.LoggedAt, err = parseTime(loggedAtStr); err != nil {
			return nil, fmt.Errorf("parse logged_at: %w", err)
		}
		sets = append(sets, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return sets, nil
}

func (r *TrainingRepository) CountSetsInWorkout(ctx context.Context, workoutID uuid.UUID) (int, error) {
	var count int
	err := r.tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM sets WHERE workout_id = ?`, workoutID.String()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count sets in workout: %w", err)
	}
	return count, nil
}

func (r *TrainingRepository) GetMaxWeightForExercise(ctx context.Context, userID, exerciseID uuid.UUID) (*float64, error) {
	var max sql.NullFloat64
	err := r.tx.QueryRowContext(ctx, `
		SELECT MAX(weight_kg) FROM sets WHERE user_id = ? AND exercise_id = ?`,
		userID.String(), exerciseID.String()).Scan(&max)
	if err != nil {
		return nil, fmt.Errorf("max weight for exercise: %w", err)
	}
	if !max.Valid {
		return nil, nil //nolint:nilnil // no sets logged yet is a legitimate "no max" result.
	}
	return &max.Float64, nil
}

func (r *TrainingRepository) InsertSet(ctx context.Context, s domain.Set) (domain.Set, error) {
	var rpe any
	if s.RPE != nil {
		rpe = *s.RPE
	}
	loggedAt := formatTime(s.LoggedAt)
	_, err := r.tx.ExecContext(ctx, `
		INSERT INTO sets (id, workout_id, exercise_id, user_id, set_number, weight_kg, reps, rpe, is_warmup, logged_at)
		SELECT ?, ?, ?, user_id, ?, ?, ?, ?, ?, ?
		FROM workouts WHERE id = ?`,
		s.ID.String(), s.WorkoutID.String(), s.ExerciseID.String(),
		s.SetNumber, s.WeightKg, s.Reps, rpe, s.IsWarmup, loggedAt, s.WorkoutID.String())
	if err != nil {
		return domain.Set{}, fmt.Errorf("insert set: %w", err)
	}
	s.LoggedAt, _ = parseTime(loggedAt)
	return s, nil
}

func (r *TrainingRepository) GetSet(ctx context.Context, id uuid.UUID) (domain.Set, error) {
	sets, err := r.querySets(ctx, `
		SELECT id, workout_id, exercise_id, set_number, weight_kg, reps, rpe, is_warmup, logged_at
		FROM sets WHERE id = ?`, id.String())
	if err != nil {
		return domain.Set{}, err
	}
	if len(sets) == 0 {
		return domain.Set{}, sql.ErrNoRows
	}
	return sets[0], nil
}

func (r *TrainingRepository) DeleteSet(ctx context.Context, id uuid.UUID) error {
	_, err := r.tx.ExecContext(ctx, `DELETE FROM sets WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete set: %w", err)
	}
	return nil
}

func (r *TrainingRepository) InsertRecommendation(ctx context.Context, rec domain.Recommendation) (domain.Recommendation, error) {
	rec.ID = uuid.New()
	var setID any
	if rec.SetID.Valid {
		setID = rec.SetID.UUID.String()
	}
	createdAt := formatTime(rec.CreatedAt)
	_, err := r.tx.ExecContext(ctx, `
		INSERT INTO recommendations (
			id, user_id, workout_id, exercise_id, set_id,
			recommended_weight, recommended_reps, explanation, confidence,
			ai_provider, model_used, latency_ms, was_followed, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL, ?)`,
		rec.ID.String(), rec.UserID.String(), rec.WorkoutID.String(), rec.ExerciseID.String(), setID,
		rec.RecommendedWeight, rec.RecommendedReps, rec.Explanation, string(rec.Confidence),
		rec.AIProvider, rec.ModelUsed, rec.LatencyMS, createdAt)
	if err != nil {
		return domain.Recommendation{}, fmt.Errorf("insert recommendation: %w", err)
	}
	rec.CreatedAt, _ = parseTime(createdAt)
	return rec, nil
}

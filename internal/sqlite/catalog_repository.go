package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dhartley/liftcoach/internal/domain"
)

// CatalogRepository handles the non-core collaborator reads and writes
// outside the set-logging transaction: listing exercises, and creating and
// closing workouts. Each method runs against the shared pools rather than a
// caller-managed transaction, since none of these operations need to read
// their own writes alongside anything else.
type CatalogRepository struct {
	db *Database
}

// NewCatalogRepository wraps db for exercise and workout CRUD.
func NewCatalogRepository(db *Database) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListExercises returns every exercise visible to userID: the global
// catalog plus any exercises userID created.
func (r *CatalogRepository) ListExercises(ctx context.Context, userID uuid.UUID) ([]domain.Exercise, error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, name, muscle_group, equipment_type, is_compound, is_global, created_by, created_at
		FROM exercises WHERE is_global = 1 OR created_by = ?
		ORDER BY name`, userID.String())
	if err != nil {
		return nil, fmt.Errorf("query exercises: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only cursor, nothing to roll back.

	var exercises []domain.Exercise
	for rows.Next() {
		e, scanErr := scanExercise(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		exercises = append(exercises, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return exercises, nil
}

func scanExercise(row interface {
	Scan(dest ...any) error
}) (domain.Exercise, error) {
	var (
		e             domain.Exercise
		equipmentType sql.NullString
		createdBy     sql.NullString
		createdAtStr  string
	)
	if err := row.Scan(&e.ID, &e.Name, &e.MuscleGroup, &equipmentType, &e.IsCompound, &e.IsGlobal, &createdBy, &createdAtStr); err != nil {
		return domain.Exercise{}, fmt.Errorf("scan exercise: %w", err)
	}
	e.EquipmentType = equipmentType.String
	if createdBy.Valid {
		parsed, err := uuid.Parse(createdBy.String)
		if err != nil {
			return domain.Exercise{}, fmt.Errorf("parse created_by: %w", err)
		}
		e.CreatedBy = uuid.NullUUID{UUID: parsed, Valid: true}
	}
	createdAt, err := parseTime(createdAtStr)
	if err != nil {
		return domain.Exercise{}, fmt.Errorf("parse created_at: %w", err)
	}
	e.CreatedAt = createdAt
	return e, nil
}

// CreateExercise inserts a user-owned exercise into the catalog.
func (r *CatalogRepository) CreateExercise(ctx context.Context, e domain.Exercise) (domain.Exercise, error) {
	e.ID = uuid.New()
	createdAt := formatTime(e.CreatedAt)
	_, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO exercises (id, name, muscle_group, equipment_type, is_compound, is_global, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, 0, ?, ?)`,
		e.ID.String(), e.Name, e.MuscleGroup, e.EquipmentType, e.IsCompound, e.CreatedBy.UUID.String(), createdAt)
	if err != nil {
		return domain.Exercise{}, fmt.Errorf("insert exercise: %w", err)
	}
	e.CreatedAt, _ = parseTime(createdAt)
	return e, nil
}

// CreateWorkout starts a new, still-active workout for a user.
func (r *CatalogRepository) CreateWorkout(ctx context.Context, w domain.Workout) (domain.Workout, error) {
	w.ID = uuid.New()
	startedAt := formatTime(w.StartedAt)
	createdAt := formatTime(w.CreatedAt)
	_, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO workouts (id, user_id, name, notes, started_at, ended_at, created_at)
		VALUES (?, ?, ?, ?, ?, NULL, ?)`,
		w.ID.String(), w.UserID.String(), w.Name, w.Notes, startedAt, createdAt)
	if err != nil {
		return domain.Workout{}, fmt.Errorf("insert workout: %w", err)
	}
	w.StartedAt, _ = parseTime(startedAt)
	w.CreatedAt, _ = parseTime(createdAt)
	return w, nil
}

// EndWorkout marks a workout as finished at endedAt.
func (r *CatalogRepository) EndWorkout(ctx context.Context, workoutID uuid.UUID, endedAt time.Time) error {
	_, err := r.db.ReadWrite.ExecContext(ctx, `
		UPDATE workouts SET ended_at = ? WHERE id = ?`,
		formatTime(endedAt), workoutID.String())
	if err != nil {
		return fmt.Errorf("end workout: %w", err)
	}
	return nil
}

// GetWorkout loads a single workout by id.
func (r *CatalogRepository) GetWorkout(ctx context.Context, id uuid.UUID) (domain.Workout, error) {
	var (
		w            domain.Workout
		name         sql.NullString
		notes        sql.NullString
		startedAtStr string
		endedAtStr   sql.NullString
		createdAtStr string
	)
	err := r.db.ReadOnly.QueryRowContext(ctx, `
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

// ListWorkouts returns every workout belonging to userID, most recent first.
func (r *CatalogRepository) ListWorkouts(ctx context.Context, userID uuid.UUID) ([]domain.Workout, error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, user_id, name, notes, started_at, ended_at, created_at
		FROM workouts WHERE user_id = ?
		ORDER BY started_at DESC`, userID.String())
	if err != nil {
		return nil, fmt.Errorf("query workouts: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only cursor, nothing to roll back.

	var workouts []domain.Workout
	for rows.Next() {
		var (
			w            domain.Workout
			name         sql.NullString
			notes        sql.NullString
			startedAtStr string
			endedAtStr   sql.NullString
			createdAtStr string
		)
		if err = rows.Scan(&w.ID, &w.UserID, &name, &notes, &startedAtStr, &endedAtStr, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scan workout: %w", err)
		}
		w.Name = name.String
		w.Notes = notes.String
		if w.StartedAt, err = parseTime(startedAtStr); err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		if endedAtStr.Valid {
			ended, parseErr := parseTime(endedAtStr.String)
			if parseErr != nil {
				return nil, fmt.Errorf("parse ended_at: %w", parseErr)
			}
			w.EndedAt = &ended
		}
		if w.CreatedAt, err = parseTime(createdAtStr); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		workouts = append(workouts, w)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return workouts, nil
}

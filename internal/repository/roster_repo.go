package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"activityhub/internal/database"
	"activityhub/internal/models"
)

// RosterRepository writes the students, classes and activities that attempts
// refer to. Full management of these lives outside this service; the methods
// here exist for seeding and for existence checks.
type RosterRepository struct {
	db database.DBTX
}

// NewRosterRepository creates a new roster repository
func NewRosterRepository(db database.DBTX) *RosterRepository {
	return &RosterRepository{db: db}
}

// CreateStudent inserts a student and returns its ID
func (r *RosterRepository) CreateStudent(ctx context.Context, name string) (int64, error) {
	id, err := r.db.ExecReturningID(ctx, "INSERT INTO students (name) VALUES (?)", name)
	if err != nil {
		return 0, fmt.Errorf("failed to create student: %w", err)
	}
	return id, nil
}

// CreateClass inserts a class and returns its ID
func (r *RosterRepository) CreateClass(ctx context.Context, name string) (int64, error) {
	id, err := r.db.ExecReturningID(ctx, "INSERT INTO classes (name) VALUES (?)", name)
	if err != nil {
		return 0, fmt.Errorf("failed to create class: %w", err)
	}
	return id, nil
}

// CreateActivity inserts an activity of the given kind and returns its ID
func (r *RosterRepository) CreateActivity(ctx context.Context, title string, kind models.ActivityKind) (int64, error) {
	id, err := r.db.ExecReturningID(ctx, "INSERT INTO activities (title, kind) VALUES (?, ?)", title, string(kind))
	if err != nil {
		return 0, fmt.Errorf("failed to create activity: %w", err)
	}
	return id, nil
}

// CreateActivityOption inserts a multiple-choice option and returns its ID
func (r *RosterRepository) CreateActivityOption(ctx context.Context, opt *models.ActivityOption) (int64, error) {
	id, err := r.db.ExecReturningID(ctx,
		"INSERT INTO activity_options (activity_id, label, is_correct) VALUES (?, ?, ?)",
		opt.ActivityID, opt.Label, opt.IsCorrect)
	if err != nil {
		return 0, fmt.Errorf("failed to create activity option: %w", err)
	}
	opt.ID = id
	return id, nil
}

// ActivityKind returns the kind of an activity, or ErrNotFound
func (r *RosterRepository) ActivityKind(ctx context.Context, activityID int64) (models.ActivityKind, error) {
	var kind string
	err := r.db.QueryRowContext(ctx, "SELECT kind FROM activities WHERE id = ?", activityID).Scan(&kind)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to get activity: %w", err)
	}
	return models.ActivityKind(kind), nil
}

// StudentExists reports whether a student with the given ID exists
func (r *RosterRepository) StudentExists(ctx context.Context, studentID int64) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM students WHERE id = ?", studentID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check student: %w", err)
	}
	return count > 0, nil
}

// ClassExists reports whether a class with the given ID exists
func (r *RosterRepository) ClassExists(ctx context.Context, classID int64) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM classes WHERE id = ?", classID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check class: %w", err)
	}
	return count > 0, nil
}

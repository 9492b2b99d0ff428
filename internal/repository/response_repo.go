package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"activityhub/internal/database"
	"activityhub/internal/models"
)

var (
	// ErrNotFound is returned when a requested row does not exist
	ErrNotFound = errors.New("not found")
	// ErrAlreadyAnswered is returned when a plugged attempt already has a selection
	ErrAlreadyAnswered = errors.New("attempt already answered")
)

// ResponseRepository reads and writes graded responses and plugged attempts
type ResponseRepository struct {
	db database.DBTX
}

// NewResponseRepository creates a new response repository
func NewResponseRepository(db database.DBTX) *ResponseRepository {
	return &ResponseRepository{db: db}
}

// whereClause collects AND-ed conditions and their arguments
type whereClause struct {
	conditions []string
	args       []any
}

func (w *whereClause) add(condition string, args ...any) {
	w.conditions = append(w.conditions, condition)
	w.args = append(w.args, args...)
}

func (w *whereClause) String() string {
	if len(w.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conditions, " AND ")
}

func (r *ResponseRepository) pluggedWhere(filter models.PluggedFilter) *whereClause {
	w := &whereClause{}
	w.add("student_id = ?", filter.StudentID)
	if filter.ActivityID != nil {
		w.add("activity_id = ?", *filter.ActivityID)
	}
	if filter.ClassID != nil {
		w.add("class_id = ?", *filter.ClassID)
	}
	return w
}

// CountGraded counts graded responses matching the filter. With CorrectOnly
// the count is restricted to responses with a positive score or a linked
// option flagged correct.
func (r *ResponseRepository) CountGraded(ctx context.Context, filter models.GradedFilter) (int64, error) {
	var query strings.Builder
	query.WriteString("SELECT COUNT(*) FROM responses r")

	w := &whereClause{}
	w.add("r.student_id = ?", filter.StudentID)
	if filter.ActivityID != nil {
		w.add("r.activity_id = ?", *filter.ActivityID)
	}
	if filter.CorrectOnly {
		query.WriteString(" LEFT JOIN activity_options o ON o.id = r.option_id")
		w.add(fmt.Sprintf("(r.score > 0 OR o.is_correct = %s)", r.db.GetDialect().BoolValue(true)))
	}
	query.WriteString(w.String())

	var count int64
	if err := r.db.QueryRowContext(ctx, query.String(), w.args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count graded responses: %w", err)
	}
	return count, nil
}

// CountPlugged counts plugged attempts matching the filter. With
// PositiveScoreOnly only attempts scored above zero are counted.
func (r *ResponseRepository) CountPlugged(ctx context.Context, filter models.PluggedFilter) (int64, error) {
	w := r.pluggedWhere(filter)
	if filter.PositiveScoreOnly {
		w.add("score > 0")
	}

	var count int64
	query := "SELECT COUNT(*) FROM plugged_attempts" + w.String()
	if err := r.db.QueryRowContext(ctx, query, w.args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count plugged attempts: %w", err)
	}
	return count, nil
}

// ScanPluggedCandidates returns one page of answered plugged attempts that
// were not scored above zero, in id order. Only the values needed to decide
// correctness are selected. A page shorter than limit is the last one.
func (r *ResponseRepository) ScanPluggedCandidates(ctx context.Context, filter models.PluggedFilter, offset, limit int) ([]models.PluggedCandidate, error) {
	w := r.pluggedWhere(filter)
	w.add("(score IS NULL OR score <= 0)")
	w.add("selected_value IS NOT NULL")

	query := "SELECT selected_value, correct_value, score FROM plugged_attempts" +
		w.String() + " ORDER BY id LIMIT ? OFFSET ?"
	args := append(w.args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to scan plugged attempts: %w", err)
	}
	defer rows.Close()

	candidates := make([]models.PluggedCandidate, 0, limit)
	for rows.Next() {
		var c models.PluggedCandidate
		var score sql.NullFloat64
		if err := rows.Scan(&c.SelectedValue, &c.CorrectValue, &score); err != nil {
			return nil, fmt.Errorf("failed to read plugged attempt: %w", err)
		}
		if score.Valid {
			c.Score = &score.Float64
		}
		candidates = append(candidates, c)
	}

	return candidates, rows.Err()
}

// CreateGradedResponse stores a graded response and returns its ID
func (r *ResponseRepository) CreateGradedResponse(ctx context.Context, resp *models.GradedResponse) (int64, error) {
	query := `
		INSERT INTO responses (student_id, activity_id, answer, score, option_id, feedback)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(ctx, query,
		resp.StudentID, resp.ActivityID, resp.Answer, resp.Score, resp.OptionID, resp.Feedback)
	if err != nil {
		return 0, fmt.Errorf("failed to create graded response: %w", err)
	}
	resp.ID = id
	return id, nil
}

// CreatePluggedAttempt stores a new plugged attempt and returns its ID
func (r *ResponseRepository) CreatePluggedAttempt(ctx context.Context, attempt *models.PluggedAttempt) (int64, error) {
	query := `
		INSERT INTO plugged_attempts (student_id, activity_id, class_id, correct_value, selected_value, score)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(ctx, query,
		attempt.StudentID, attempt.ActivityID, attempt.ClassID,
		attempt.CorrectValue, attempt.SelectedValue, attempt.Score)
	if err != nil {
		return 0, fmt.Errorf("failed to create plugged attempt: %w", err)
	}
	attempt.ID = id
	return id, nil
}

// GetPluggedAttempt retrieves a plugged attempt by ID
func (r *ResponseRepository) GetPluggedAttempt(ctx context.Context, id int64) (*models.PluggedAttempt, error) {
	query := `
		SELECT id, student_id, activity_id, class_id, correct_value, selected_value, score, created_at
		FROM plugged_attempts
		WHERE id = ?
	`

	attempt := &models.PluggedAttempt{}
	var classID sql.NullInt64
	var score sql.NullFloat64

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&attempt.ID,
		&attempt.StudentID,
		&attempt.ActivityID,
		&classID,
		&attempt.CorrectValue,
		&attempt.SelectedValue,
		&score,
		&attempt.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plugged attempt: %w", err)
	}

	if classID.Valid {
		attempt.ClassID = &classID.Int64
	}
	if score.Valid {
		attempt.Score = &score.Float64
	}

	return attempt, nil
}

// RecordPluggedAnswer stores the student's selection. An attempt can be
// answered only once.
func (r *ResponseRepository) RecordPluggedAnswer(ctx context.Context, id int64, selected any) error {
	query := "UPDATE plugged_attempts SET selected_value = ? WHERE id = ? AND selected_value IS NULL"
	result, err := r.db.ExecContext(ctx, query, selected, id)
	if err != nil {
		return fmt.Errorf("failed to record answer: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to record answer: %w", err)
	}
	if affected == 1 {
		return nil
	}

	if _, err := r.GetPluggedAttempt(ctx, id); err != nil {
		return err
	}
	return ErrAlreadyAnswered
}

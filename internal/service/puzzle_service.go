package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"activityhub/internal/models"
	"activityhub/internal/puzzle"
	"activityhub/internal/repository"
	"activityhub/internal/scoring"
)

// AttemptStore persists plugged attempts
type AttemptStore interface {
	CreatePluggedAttempt(ctx context.Context, attempt *models.PluggedAttempt) (int64, error)
	GetPluggedAttempt(ctx context.Context, id int64) (*models.PluggedAttempt, error)
	RecordPluggedAnswer(ctx context.Context, id int64, selected any) error
}

// Roster answers existence questions about students, classes and activities
type Roster interface {
	StudentExists(ctx context.Context, studentID int64) (bool, error)
	ClassExists(ctx context.Context, classID int64) (bool, error)
	ActivityKind(ctx context.Context, activityID int64) (models.ActivityKind, error)
}

// StartPuzzleRequest asks for a new counting-game puzzle
type StartPuzzleRequest struct {
	StudentID  int64  `json:"studentId" validate:"required,gt=0"`
	ActivityID int64  `json:"activityId" validate:"required,gt=0"`
	ClassID    *int64 `json:"classId,omitempty" validate:"omitempty,gt=0"`
	Cards      int    `json:"cards,omitempty" validate:"omitempty,min=1,max=10"`
}

// PuzzleStart is the puzzle handed to the student
type PuzzleStart struct {
	AttemptID int64   `json:"attemptId"`
	Target    int64   `json:"target"`
	Cards     []int64 `json:"cards"`
}

// PuzzleService runs the plugged binary counting game
type PuzzleService struct {
	attempts AttemptStore
	roster   Roster
	log      *zap.Logger
}

// NewPuzzleService creates a new puzzle service
func NewPuzzleService(attempts AttemptStore, roster Roster, log *zap.Logger) *PuzzleService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PuzzleService{
		attempts: attempts,
		roster:   roster,
		log:      log,
	}
}

// Start generates a puzzle and records it as an unanswered attempt
func (s *PuzzleService) Start(ctx context.Context, req StartPuzzleRequest) (*PuzzleStart, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if req.Cards == 0 {
		req.Cards = puzzle.DefaultCards
	}

	if err := s.checkRoster(ctx, req); err != nil {
		return nil, err
	}

	p, err := puzzle.Generate(req.Cards)
	if err != nil {
		return nil, fmt.Errorf("failed to generate puzzle: %w", err)
	}

	attempt := &models.PluggedAttempt{
		StudentID:    req.StudentID,
		ActivityID:   req.ActivityID,
		ClassID:      req.ClassID,
		CorrectValue: p.Target,
	}
	if _, err := s.attempts.CreatePluggedAttempt(ctx, attempt); err != nil {
		return nil, err
	}

	s.log.Info("puzzle started",
		zap.Int64("attempt_id", attempt.ID),
		zap.Int64("student_id", req.StudentID),
		zap.Int64("activity_id", req.ActivityID),
		zap.Int("cards", req.Cards),
	)

	return &PuzzleStart{
		AttemptID: attempt.ID,
		Target:    p.Target,
		Cards:     p.Cards,
	}, nil
}

func (s *PuzzleService) checkRoster(ctx context.Context, req StartPuzzleRequest) error {
	exists, err := s.roster.StudentExists(ctx, req.StudentID)
	if err != nil {
		return err
	}
	if !exists {
		return NewArgumentError("studentId", "does not exist")
	}

	kind, err := s.roster.ActivityKind(ctx, req.ActivityID)
	if errors.Is(err, repository.ErrNotFound) {
		return NewArgumentError("activityId", "does not exist")
	}
	if err != nil {
		return err
	}
	if kind != models.ActivityPlugged {
		return NewArgumentError("activityId", "must be a plugged activity")
	}

	if req.ClassID != nil {
		exists, err := s.roster.ClassExists(ctx, *req.ClassID)
		if err != nil {
			return err
		}
		if !exists {
			return NewArgumentError("classId", "does not exist")
		}
	}

	return nil
}

// Answer records the student's selection and reports whether it matches the
// target. The selection is stored in canonical form.
func (s *PuzzleService) Answer(ctx context.Context, attemptID int64, selected any) (bool, error) {
	if attemptID <= 0 {
		return false, NewArgumentError("attemptId", "must be a positive integer")
	}
	value, ok := scoring.Canonical(selected)
	if !ok || value == "" {
		return false, NewArgumentError("selectedValue", "is required")
	}

	attempt, err := s.attempts.GetPluggedAttempt(ctx, attemptID)
	if err != nil {
		return false, err
	}
	if attempt.Answered() {
		return false, repository.ErrAlreadyAnswered
	}

	if err := s.attempts.RecordPluggedAnswer(ctx, attemptID, value); err != nil {
		return false, err
	}

	correct := scoring.PluggedCorrect(attempt.Score, value, attempt.CorrectValue)

	s.log.Info("puzzle answered",
		zap.Int64("attempt_id", attemptID),
		zap.Int64("student_id", attempt.StudentID),
		zap.Bool("correct", correct),
	)

	return correct, nil
}

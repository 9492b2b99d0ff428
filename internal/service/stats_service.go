package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"activityhub/internal/models"
	"activityhub/internal/scoring"
)

const (
	DefaultStoreTimeout = 5 * time.Second
	DefaultScanPageSize = 1000
)

// ResponseStore is the read side of attempt storage the aggregator depends on
type ResponseStore interface {
	CountGraded(ctx context.Context, filter models.GradedFilter) (int64, error)
	CountPlugged(ctx context.Context, filter models.PluggedFilter) (int64, error)
	ScanPluggedCandidates(ctx context.Context, filter models.PluggedFilter, offset, limit int) ([]models.PluggedCandidate, error)
}

// StatsOptions tunes store access. Zero values fall back to the defaults.
type StatsOptions struct {
	// Timeout bounds each individual store operation
	Timeout time.Duration
	// PageSize is the batch size of the plugged candidate scan
	PageSize int
}

// StatsService computes attempt statistics across graded responses and
// plugged attempts.
type StatsService struct {
	store    ResponseStore
	timeout  time.Duration
	pageSize int
	log      *zap.Logger
}

// NewStatsService creates a new stats service
func NewStatsService(store ResponseStore, opts StatsOptions, log *zap.Logger) *StatsService {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultStoreTimeout
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultScanPageSize
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &StatsService{
		store:    store,
		timeout:  opts.Timeout,
		pageSize: opts.PageSize,
		log:      log,
	}
}

// ComputeStats returns the total and correct attempt counts for a student.
// Any store failure aborts the computation; no partial result is returned.
func (s *StatsService) ComputeStats(ctx context.Context, filter models.StatsFilter) (*models.AggregateResult, error) {
	if err := validateStruct(filter); err != nil {
		return nil, err
	}

	graded, err := s.gradedStats(ctx, filter)
	if err != nil {
		return nil, err
	}

	plugged, err := s.pluggedStats(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := &models.AggregateResult{}
	result.Add(graded)
	result.Add(plugged)

	s.log.Debug("stats computed",
		zap.Int64("student_id", filter.StudentID),
		zap.Int64("graded_total", graded.TotalAttempts),
		zap.Int64("graded_correct", graded.Correct),
		zap.Int64("plugged_total", plugged.TotalAttempts),
		zap.Int64("plugged_correct", plugged.Correct),
		zap.Float64("accuracy", result.Accuracy()),
	)

	return result, nil
}

// gradedStats counts graded responses entirely in the store
func (s *StatsService) gradedStats(ctx context.Context, filter models.StatsFilter) (models.AggregateResult, error) {
	total, err := withTimeout(ctx, s.timeout, "count graded responses", func(ctx context.Context) (int64, error) {
		return s.store.CountGraded(ctx, filter.Graded(false))
	})
	if err != nil {
		return models.AggregateResult{}, err
	}

	correct, err := withTimeout(ctx, s.timeout, "count correct graded responses", func(ctx context.Context) (int64, error) {
		return s.store.CountGraded(ctx, filter.Graded(true))
	})
	if err != nil {
		return models.AggregateResult{}, err
	}

	return models.AggregateResult{TotalAttempts: total, Correct: correct}, nil
}

// pluggedStats counts plugged attempts. Attempts scored above zero are
// counted by the store; the rest are decided here by comparing values.
// The candidate scan excludes positively scored attempts, so the two
// correct counts never overlap.
func (s *StatsService) pluggedStats(ctx context.Context, filter models.StatsFilter) (models.AggregateResult, error) {
	total, err := withTimeout(ctx, s.timeout, "count plugged attempts", func(ctx context.Context) (int64, error) {
		return s.store.CountPlugged(ctx, filter.Plugged(false))
	})
	if err != nil {
		return models.AggregateResult{}, err
	}

	byScore, err := withTimeout(ctx, s.timeout, "count scored plugged attempts", func(ctx context.Context) (int64, error) {
		return s.store.CountPlugged(ctx, filter.Plugged(true))
	})
	if err != nil {
		return models.AggregateResult{}, err
	}

	byMatch, err := s.countMatches(ctx, filter.Plugged(false))
	if err != nil {
		return models.AggregateResult{}, err
	}

	return models.AggregateResult{TotalAttempts: total, Correct: byScore + byMatch}, nil
}

// countMatches pages through unscored, answered attempts and counts those
// whose selection equals the target.
func (s *StatsService) countMatches(ctx context.Context, filter models.PluggedFilter) (int64, error) {
	var matches int64

	for offset := 0; ; offset += s.pageSize {
		page, err := withTimeout(ctx, s.timeout, "scan plugged attempts", func(ctx context.Context) ([]models.PluggedCandidate, error) {
			return s.store.ScanPluggedCandidates(ctx, filter, offset, s.pageSize)
		})
		if err != nil {
			return 0, err
		}

		for _, c := range page {
			// already counted by score
			if scoring.PositiveScore(c.Score) {
				continue
			}
			if scoring.ValuesMatch(c.SelectedValue, c.CorrectValue) {
				matches++
			}
		}

		if len(page) < s.pageSize {
			return matches, nil
		}
	}
}

// withTimeout runs one store operation under its own deadline. The result is
// abandoned once the deadline passes, even if op ignores its context.
func withTimeout[T any](ctx context.Context, timeout time.Duration, op string, fn func(context.Context) (T, error)) (T, error) {
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		value T
		err   error
	}
	done := make(chan outcome, 1)

	go func() {
		value, err := fn(opCtx)
		done <- outcome{value: value, err: err}
	}()

	var zero T
	select {
	case out := <-done:
		if out.err != nil {
			return zero, classify(op, out.err)
		}
		return out.value, nil
	case <-opCtx.Done():
		return zero, classify(op, opCtx.Err())
	}
}

func classify(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", op, ErrUpstreamTimeout, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrUpstreamFailure, err)
}

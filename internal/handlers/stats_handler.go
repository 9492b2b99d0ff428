package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"activityhub/internal/models"
	"activityhub/internal/service"
)

// StatsComputer computes attempt statistics
type StatsComputer interface {
	ComputeStats(ctx context.Context, filter models.StatsFilter) (*models.AggregateResult, error)
}

// StatsHandler serves student statistics
type StatsHandler struct {
	stats StatsComputer
	log   *zap.Logger
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(stats StatsComputer, log *zap.Logger) *StatsHandler {
	return &StatsHandler{
		stats: stats,
		log:   log,
	}
}

// GetStats handles GET /api/stats?studentId=&activityId=&classId=
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	h.serve(w, r, query.Get("studentId"), query.Get("activityId"), query.Get("classId"))
}

// GetStudentStats handles GET /api/students/{studentId}/stats
func (h *StatsHandler) GetStudentStats(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	h.serve(w, r, r.PathValue("studentId"), query.Get("activityId"), query.Get("classId"))
}

func (h *StatsHandler) serve(w http.ResponseWriter, r *http.Request, studentID, activityID, classID string) {
	log := requestLogger(h.log, r)

	filter, err := parseStatsFilter(studentID, activityID, classID)
	if err != nil {
		respondWithError(w, log, http.StatusBadRequest, err.Error(), "rejected stats request", err)
		return
	}

	result, err := h.stats.ComputeStats(r.Context(), filter)
	if err != nil {
		var argErr *service.ArgumentError
		switch {
		case errors.As(err, &argErr):
			respondWithError(w, log, http.StatusBadRequest, argErr.Error(), "rejected stats request", err)
		case errors.Is(err, service.ErrInvalidArgument):
			respondWithError(w, log, http.StatusBadRequest, "invalid argument", "rejected stats request", err)
		default:
			respondWithError(w, log, http.StatusInternalServerError, ErrStatsFailed,
				"stats computation failed for student "+strconv.FormatInt(filter.StudentID, 10), err)
		}
		return
	}

	respondJSON(w, log, http.StatusOK, result)
}

// parseStatsFilter converts raw identifiers into a filter. Range checks are
// left to the service; only non-integral values are rejected here.
func parseStatsFilter(studentID, activityID, classID string) (models.StatsFilter, error) {
	var filter models.StatsFilter

	studentID = strings.TrimSpace(studentID)
	if studentID != "" {
		id, err := strconv.ParseInt(studentID, 10, 64)
		if err != nil {
			return filter, service.NewArgumentError("studentId", "must be a positive integer")
		}
		filter.StudentID = id
	}

	var err error
	if filter.ActivityID, err = parseOptionalID("activityId", activityID); err != nil {
		return filter, err
	}
	if filter.ClassID, err = parseOptionalID("classId", classID); err != nil {
		return filter, err
	}

	return filter, nil
}

func parseOptionalID(field, raw string) (*int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, service.NewArgumentError(field, "must be a positive integer")
	}
	return &id, nil
}

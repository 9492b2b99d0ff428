package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"activityhub/internal/repository"
	"activityhub/internal/service"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 16

// PuzzleRunner starts and answers plugged puzzles
type PuzzleRunner interface {
	Start(ctx context.Context, req service.StartPuzzleRequest) (*service.PuzzleStart, error)
	Answer(ctx context.Context, attemptID int64, selected any) (bool, error)
}

// PuzzleHandler handles the plugged counting game
type PuzzleHandler struct {
	puzzles PuzzleRunner
	log     *zap.Logger
}

// NewPuzzleHandler creates a new puzzle handler
func NewPuzzleHandler(puzzles PuzzleRunner, log *zap.Logger) *PuzzleHandler {
	return &PuzzleHandler{
		puzzles: puzzles,
		log:     log,
	}
}

type answerRequest struct {
	SelectedValue any `json:"selectedValue"`
}

type answerResponse struct {
	Correct bool `json:"correct"`
}

// StartAttempt handles POST /api/plugged/attempts
func (h *PuzzleHandler) StartAttempt(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(h.log, r)

	var req service.StartPuzzleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, log, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}

	start, err := h.puzzles.Start(r.Context(), req)
	if err != nil {
		h.respondWithServiceError(w, log, ErrPuzzleStartFailed, err)
		return
	}

	respondJSON(w, log, http.StatusCreated, start)
}

// AnswerAttempt handles POST /api/plugged/attempts/{id}/answer
func (h *PuzzleHandler) AnswerAttempt(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(h.log, r)

	attemptID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondWithError(w, log, http.StatusBadRequest, "attemptId must be a positive integer", "", err)
		return
	}

	var req answerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, log, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}

	selected := req.SelectedValue
	// json.Number keeps the digits the client sent
	if n, ok := selected.(json.Number); ok {
		selected = n.String()
	}

	correct, err := h.puzzles.Answer(r.Context(), attemptID, selected)
	if err != nil {
		h.respondWithServiceError(w, log, ErrPuzzleAnswerFailed, err)
		return
	}

	respondJSON(w, log, http.StatusOK, answerResponse{Correct: correct})
}

func (h *PuzzleHandler) respondWithServiceError(w http.ResponseWriter, log *zap.Logger, failMsg string, err error) {
	var argErr *service.ArgumentError
	switch {
	case errors.As(err, &argErr):
		respondWithError(w, log, http.StatusBadRequest, argErr.Error(), "rejected puzzle request", err)
	case errors.Is(err, repository.ErrNotFound):
		respondWithError(w, log, http.StatusNotFound, ErrAttemptNotFound, "", err)
	case errors.Is(err, repository.ErrAlreadyAnswered):
		respondWithError(w, log, http.StatusConflict, ErrAttemptAnswered, "", err)
	default:
		respondWithError(w, log, http.StatusInternalServerError, failMsg, "", err)
	}
}

// decodeJSON reads a single JSON object, keeping numbers as json.Number
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

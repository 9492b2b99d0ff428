package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"activityhub/internal/repository"
	"activityhub/internal/service"
)

type fakePuzzles struct {
	start     *service.PuzzleStart
	startReq  service.StartPuzzleRequest
	answerErr error
	correct   bool
	attemptID int64
	selected  any
}

func (f *fakePuzzles) Start(ctx context.Context, req service.StartPuzzleRequest) (*service.PuzzleStart, error) {
	f.startReq = req
	if req.StudentID <= 0 {
		return nil, service.NewArgumentError("studentId", "must be a positive integer")
	}
	return f.start, nil
}

func (f *fakePuzzles) Answer(ctx context.Context, attemptID int64, selected any) (bool, error) {
	f.attemptID = attemptID
	f.selected = selected
	return f.correct, f.answerErr
}

func puzzleRouter(p PuzzleRunner) http.Handler {
	return Router{
		Stats:   NewStatsHandler(&fakeStats{}, zap.NewNop()),
		Puzzles: NewPuzzleHandler(p, zap.NewNop()),
	}.Handler(zap.NewNop())
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestStartAttempt(t *testing.T) {
	p := &fakePuzzles{start: &service.PuzzleStart{AttemptID: 11, Target: 13, Cards: []int64{8, 4, 2, 1}}}

	rec := post(t, puzzleRouter(p), "/api/plugged/attempts", `{"studentId":4,"activityId":2,"classId":3,"cards":4}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"attemptId":11,"target":13,"cards":[8,4,2,1]}`, rec.Body.String())
	assert.Equal(t, int64(4), p.startReq.StudentID)
	require.NotNil(t, p.startReq.ClassID)
	assert.Equal(t, int64(3), *p.startReq.ClassID)
	assert.Equal(t, 4, p.startReq.Cards)
}

func TestStartAttemptBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "malformed", body: `{"studentId":`, want: ErrInvalidJSON},
		{name: "unknown field", body: `{"studentId":1,"activityId":1,"bogus":true}`, want: ErrInvalidJSON},
		{name: "validation", body: `{"activityId":1}`, want: "studentId must be a positive integer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, puzzleRouter(&fakePuzzles{}), "/api/plugged/attempts", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"error":%q}`, tt.want), rec.Body.String())
		})
	}
}

func TestAnswerAttempt(t *testing.T) {
	p := &fakePuzzles{correct: true}

	rec := post(t, puzzleRouter(p), "/api/plugged/attempts/7/answer", `{"selectedValue":13}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"correct":true}`, rec.Body.String())
	assert.Equal(t, int64(7), p.attemptID)
	assert.Equal(t, "13", p.selected)
}

func TestAnswerAttemptErrors(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		err      error
		wantCode int
	}{
		{name: "bad id", path: "/api/plugged/attempts/seven/answer", wantCode: http.StatusBadRequest},
		{name: "missing attempt", path: "/api/plugged/attempts/7/answer", err: repository.ErrNotFound, wantCode: http.StatusNotFound},
		{name: "answered twice", path: "/api/plugged/attempts/7/answer", err: repository.ErrAlreadyAnswered, wantCode: http.StatusConflict},
		{name: "empty selection", path: "/api/plugged/attempts/7/answer", err: service.NewArgumentError("selectedValue", "is required"), wantCode: http.StatusBadRequest},
		{name: "store failure", path: "/api/plugged/attempts/7/answer", err: fmt.Errorf("failed to record answer: %w", context.Canceled), wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, puzzleRouter(&fakePuzzles{answerErr: tt.err}), tt.path, `{"selectedValue":"3"}`)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.NotContains(t, rec.Body.String(), "context canceled")
		})
	}
}

package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"activityhub/internal/security"
)

// Router groups the handlers the HTTP server exposes
type Router struct {
	Stats     *StatsHandler
	Puzzles   *PuzzleHandler
	Health    *HealthHandler
	RateLimit func(http.Handler) http.Handler
	ClientIPs *security.ClientIPResolver
}

// Handler builds the route table. API routes go through the rate limiter
// when one is configured; every route is logged.
func (rt Router) Handler(log *zap.Logger) http.Handler {
	limit := rt.RateLimit
	if limit == nil {
		limit = func(next http.Handler) http.Handler { return next }
	}

	api := http.NewServeMux()
	api.HandleFunc("GET /api/stats", rt.Stats.GetStats)
	api.HandleFunc("GET /api/students/{studentId}/stats", rt.Stats.GetStudentStats)
	api.HandleFunc("POST /api/plugged/attempts", rt.Puzzles.StartAttempt)
	api.HandleFunc("POST /api/plugged/attempts/{id}/answer", rt.Puzzles.AnswerAttempt)

	mux := http.NewServeMux()
	mux.Handle("/api/", limit(api))
	if rt.Health != nil {
		mux.HandleFunc("GET /healthz", rt.Health.Health)
	}

	return Logging(log, rt.ClientIPs)(mux)
}

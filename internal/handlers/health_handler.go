package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Pinger reports whether the database is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports service liveness
type HealthHandler struct {
	db  Pinger
	log *zap.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db Pinger, log *zap.Logger) *HealthHandler {
	return &HealthHandler{db: db, log: log}
}

// Health handles GET /healthz
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		respondWithError(w, h.log, http.StatusServiceUnavailable, "database unavailable", "health check failed", err)
		return
	}

	respondJSON(w, h.log, http.StatusOK, map[string]string{"status": "ok"})
}

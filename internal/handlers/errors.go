package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

type errorBody struct {
	Error string `json:"error"`
}

// respondWithError writes {"error": userMsg}. err is logged, never sent.
func respondWithError(w http.ResponseWriter, log *zap.Logger, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		if status >= http.StatusInternalServerError {
			log.Error(logMsg, zap.Int("status", status), zap.Error(err))
		} else {
			log.Warn(logMsg, zap.Int("status", status), zap.Error(err))
		}
	}

	respondJSON(w, log, status, errorBody{Error: userMsg})
}

func respondJSON(w http.ResponseWriter, log *zap.Logger, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Warn("failed to write response", zap.Error(err))
	}
}

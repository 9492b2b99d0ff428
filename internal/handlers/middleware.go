package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"activityhub/internal/security"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const RequestIDContextKey ContextKey = "request_id"

// statusRecorder remembers the status code written by the wrapped handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

const maxRequestIDLen = 64

// validRequestID accepts short IDs of letters, digits, '.', '_' and '-'
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '.', c == '_', c == '-':
		default:
			return false
		}
	}
	return true
}

// Logging middleware tags each request with an ID and logs it once served.
// An incoming X-Request-ID is reused only if validRequestID accepts it.
// ips resolves the logged client address.
func Logging(log *zap.Logger, ips *security.ClientIPResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get(RequestIDHeader)
			if !validRequestID(requestID) {
				requestID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, requestID)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			ctx := context.WithValue(r.Context(), RequestIDContextKey, requestID)
			next.ServeHTTP(rec, r.WithContext(ctx))

			level := zapcore.DebugLevel
			switch {
			case rec.status >= http.StatusInternalServerError:
				level = zapcore.ErrorLevel
			case rec.status >= http.StatusBadRequest:
				level = zapcore.WarnLevel
			}

			log.Check(level, "request").Write(
				zap.String("request_id", requestID),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("latency", time.Since(start)),
				zap.String("client_ip", ips.ClientIP(r)),
			)
		})
	}
}

// GetRequestID retrieves the request ID set by Logging
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDContextKey).(string)
	return id
}

// requestLogger returns log annotated with the request ID, if any
func requestLogger(log *zap.Logger, r *http.Request) *zap.Logger {
	if id := GetRequestID(r.Context()); id != "" {
		return log.With(zap.String("request_id", id))
	}
	return log
}

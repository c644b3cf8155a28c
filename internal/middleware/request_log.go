package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"starships-server/internal/shared/errors"
	"starships-server/internal/shared/response"

	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// RequestLogger tags each request with an id, recovers panics as 500s and writes one
// access log line per request.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, requestID)

			reqLogger := logger.With(
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
			)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			defer func() {
				if p := recover(); p != nil {
					if p == http.ErrAbortHandler {
						panic(p)
					}
					response.Error(rec, r, reqLogger, errors.WrapInternal("unexpected failure", fmt.Errorf("panic: %v", p)))
				}
				reqLogger.Info("Request completed",
					"status", rec.status,
					"duration_ms", time.Since(start).Milliseconds())
			}()

			next.ServeHTTP(rec, r)
		})
	}
}

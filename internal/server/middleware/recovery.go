package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/brandscope/brandscope/internal/metrics"
)

// Recovery converts handler panics into the standard error envelope instead
// of a dropped connection.
func Recovery(log *zap.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					m.RecordPanic()
					if log != nil {
						log.Error("panic in http handler",
							zap.Any("panic", rec),
							zap.String("path", r.URL.Path),
							zap.String("request_id", GetRequestID(r.Context())),
							zap.ByteString("stack", debug.Stack()))
					}

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]any{
						"success": false,
						"error":   "Internal Server Error",
						"details": "An unexpected error occurred. Please check server logs.",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

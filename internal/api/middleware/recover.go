package middleware

import (
	"net/http"

	"github.com/esuka/transfer-backend/internal/api/respond"
	"go.uber.org/zap"
)

// RecoverMiddleware converts panics into generic 500 responses and logs stack context.
func RecoverMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rec),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
						zap.String("trace_id", TraceIDFromContext(r.Context())),
					)

					respond.Error(w, http.StatusInternalServerError, "unexpected server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

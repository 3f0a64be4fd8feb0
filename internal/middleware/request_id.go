package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/visitswap/visitswap-api/internal/pkg/logger"
)

// RequestID adds a unique request ID to each request and attaches a
// request-scoped logger carrying it to the context
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set("X-Request-ID", requestID)
		r.Header.Set("X-Request-ID", requestID)

		l := logger.FromContext(r.Context()).With().Str("request_id", requestID).Logger()
		next.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context(), &l)))
	})
}

package errorhandler

import (
	"context"
	"net/http"

	"github.com/visitswap/visitswap-api/internal/pkg/logger"
	"github.com/visitswap/visitswap-api/internal/pkg/response"
)

// HandleError logs the underlying error with the request-scoped logger and
// writes a response that carries only the public code and message.
func HandleError(ctx context.Context, w http.ResponseWriter, status int, code, message string, err error) {
	event := logger.FromContext(ctx).Error().
		Str("error_code", code).
		Str("error_message", message).
		Int("status_code", status)

	if err != nil {
		event = event.Err(err)
	}

	event.Msg("Request error")

	response.Error(w, status, code, message)
}

// Internal logs err and answers with the generic 500 envelope.
func Internal(ctx context.Context, w http.ResponseWriter, err error) {
	HandleError(ctx, w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", err)
}

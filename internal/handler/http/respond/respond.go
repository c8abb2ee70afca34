// Package respond provides utilities for sending HTTP responses in JSON format.
// It includes error handling with sanitization to prevent leaking sensitive information.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/masx-ai/flashpoint-pipeline/internal/apperr"
)

// JSON writes a JSON response with the given status code and data.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// Log the error but cannot send error response as headers already sent
			slog.Default().Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}

// Error writes a JSON error response with the given status code and error message.
func Error(w http.ResponseWriter, code int, err error) {
	JSON(w, code, map[string]string{"error": err.Error()})
}

// SafeErrorV2 writes the right HTTP status and a client-safe message for any
// error, per spec §7's control-plane propagation policy. If err is (or
// wraps) an *apperr.AppError, its Kind maps to a status code and its UserMsg
// is returned verbatim; the underlying cause is logged, sanitized, but never
// sent to the client. Any other error is funneled through the global
// handler shape: {detail, type:"internal_error"}, HTTP 500.
func SafeErrorV2(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}

	var appErr *apperr.AppError
	if errors.As(err, &appErr) {
		if appErr.Err != nil {
			logger := slog.Default()
			logger.Error("application error",
				slog.String("kind", string(appErr.Kind)),
				slog.String("user_message", appErr.UserMsg),
				slog.Any("error", SanitizeError(appErr.Err)))
		}
		JSON(w, appErr.HTTPStatus(), map[string]string{"detail": appErr.UserMsg, "type": string(appErr.Kind)})
		return
	}

	logger := slog.Default()
	logger.Error("internal server error", slog.Any("error", SanitizeError(err)))
	JSON(w, http.StatusInternalServerError, map[string]string{"detail": "internal error", "type": "internal_error"})
}

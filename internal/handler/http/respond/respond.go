// Package respond writes JSON responses and sanitized JSON errors.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"lima-segura/internal/domain/entity"
)

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// headers are already sent
			slog.Default().Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}

// safePhrases mark error messages that are written for API clients.
var safePhrases = []string{
	"required",
	"invalid",
	"not found",
	"must be",
	"cannot be",
	"too long",
	"unknown",
}

// SafeError writes err as {"error": msg}. Messages of 5xx errors and of
// errors not recognized as client-facing are replaced by "internal server
// error" and logged with credentials masked.
func SafeError(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}

	if code < 500 && isSafe(err) {
		JSON(w, code, map[string]string{"error": err.Error()})
		return
	}

	slog.Default().Error("internal server error",
		slog.String("status", http.StatusText(code)),
		slog.Int("code", code),
		slog.String("error", SanitizeError(err)))
	JSON(w, code, map[string]string{"error": "internal server error"})
}

func isSafe(err error) bool {
	var vErr *entity.ValidationError
	if errors.As(err, &vErr) || errors.Is(err, entity.ErrNotFound) || errors.Is(err, entity.ErrInvalidInput) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, phrase := range safePhrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}

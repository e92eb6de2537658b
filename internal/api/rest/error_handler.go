package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/SriRamz25/payshield/internal/domain/errors"
)

// writeError renders any error as the uniform JSON envelope. AppErrors
// keep their code and status; everything else becomes a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := "INTERNAL_ERROR"
	message := "An internal error occurred"
	status := http.StatusInternalServerError

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		code = appErr.Code
		message = appErr.Message
		status = appErr.StatusCode
	}

	if status >= 500 {
		slog.ErrorContext(r.Context(), "request failed",
			"code", code,
			"path", r.URL.Path,
			"error", err,
		)
	}

	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{
		Code:      code,
		Message:   message,
		RequestID: requestIDFrom(r.Context()),
	}})
}

// writeValidationError renders a 400 with the given code and message.
func writeValidationError(w http.ResponseWriter, r *http.Request, code, message string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: ErrorDetail{
		Code:      code,
		Message:   message,
		RequestID: requestIDFrom(r.Context()),
	}})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/ims-chat/internal/apperror"
)

// StatusResponse is the success envelope every write endpoint returns.
// The shape is part of the client contract: {"status":"ok"}.
type StatusResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the error envelope. Every failure, whatever the status
// code, has the same two fields so clients parse one shape.
type ErrorResponse struct {
	Status  string `json:"status"`  // always "error"
	Error   string `json:"error"`   // machine-readable class, e.g. "validation_error"
	Message string `json:"message"` // human-readable description
}

// statusOK is shared by all success acknowledgments.
var statusOK = StatusResponse{Status: "ok"}

// writeJSON sends data with the given status code. Headers must be set
// before the first body write, hence the fixed order here.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already gone; logging is all that's left.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error onto an HTTP response. This is the single
// place where the apperror taxonomy meets status codes:
//
//	ErrValidation → 400 validation_error
//	ErrDecode     → 400 decode_error
//	ErrNotFound   → 404 not_found
//	anything else → 500 internal_error (details logged, never leaked)
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrDecode):
			status = http.StatusBadRequest
			errorType = "decode_error"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		}

		writeJSON(w, status, ErrorResponse{
			Status:  "error",
			Error:   errorType,
			Message: appErr.Message,
		})
		return
	}

	// Unknown error: the raw message may contain SQL or file paths, so the
	// client gets a generic body. The middleware has already logged the 500.
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Status:  "error",
		Error:   "internal_error",
		Message: "an internal error occurred",
	})
}

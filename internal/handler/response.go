package handler

// RESPONSE HELPERS:
// These functions standardise how we send JSON responses and errors.
//
// ENVELOPE FORMAT:
// Every response from our API shares one shape, success or failure:
//   {"success": true,  "data": {...}, "message": "optional note"}
//   {"success": false, "message": "what went wrong", "error": "detail"}
//
// The frontend checks `success` first and never has to guess which fields
// exist — the same parsing code handles a 200, a 404, and a 500.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/specia/specia-server/internal/apperror"
	"github.com/specia/specia-server/internal/pagination"
)

// envelope is the uniform response body. Data and Message are omitted when
// empty so simple acknowledgements stay small.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// writeJSON sends a JSON body with the given status code.
//
// HEADER ORDER MATTERS:
// You MUST set headers and status code BEFORE writing the body.
// Once you call w.Write() (which Encode does internally), the headers are sent.
// Any header changes after that are silently ignored.
func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		// Headers are already sent — we can only log it.
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeData sends a success envelope carrying data.
func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

// writeMessage sends a success envelope carrying data plus a human-readable
// note (used after writes, where the frontend shows a toast).
func writeMessage(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, envelope{Success: true, Data: data, Message: message})
}

// listPayload is the uniform shape of every paged list response: the items
// plus the pagination block the frontend's pager component reads.
type listPayload[T any] struct {
	Items      []T             `json:"items"`
	Pagination pagination.Meta `json:"pagination"`
}

// writeError maps a domain error to the appropriate HTTP status code and sends it.
//
// This is where domain errors (from the service layer) get translated to
// HTTP. The service layer returns apperror.ErrValidation, apperror.ErrNotFound,
// etc. without knowing about status codes; this function maps those to 400,
// 404, and so on.
//
// errors.Is() walks the entire wrap chain, so a service error like
//
//	fmt.Errorf("creating record: %w", apperror.ValidationFailed(...))
//
// still matches ErrValidation here.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
		}

		writeJSON(w, status, envelope{Success: false, Message: appErr.Message})
		return
	}

	// Unknown error — return a generic 500.
	// NEVER expose internal error details to the client: the raw message
	// might contain SQL or file paths. Log it instead.
	slog.Error("unhandled error in request", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, envelope{
		Success: false,
		Message: "An internal error occurred",
		Error:   "internal_error",
	})
}

// decodeBody reads a JSON request body into dst, rejecting malformed JSON
// with a 400-mapped validation error.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.ValidationFailed("body", "invalid JSON body")
	}
	return nil
}

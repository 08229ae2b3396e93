package handler

// RESPONSE HELPERS:
// These functions standardise how we read JSON requests and send JSON
// responses and errors.
//
//   decodeJSON(w, r, logger, &req)  → false means an error was already written
//   writeJSON(w, http.StatusOK, v)
//   writeError(w, logger, err)
//
// CONSISTENT ERROR FORMAT:
// Every error response from the API has the same shape:
//   {"error": "conflict", "detail": "A user with this email already exists."}
//
// Validation failures also name the offending field:
//   {"error": "validation_error", "detail": "...", "field": "full_name"}
//
// The web frontend shows `detail` to the user as-is.

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/sakif/aicademy-auth/internal/apperror"
)

// maxBodyBytes caps every JSON request body (1 MiB).
const maxBodyBytes = 1 << 20

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error  string `json:"error"`           // Machine-readable error type (e.g., "not_found")
	Detail string `json:"detail"`          // Human-readable description
	Field  string `json:"field,omitempty"` // Set for validation errors
}

// writeJSON sends a JSON response with the given status code.
//
// HEADER ORDER MATTERS:
// Headers and status code must be set BEFORE writing the body. Once the
// encoder writes, the headers are on the wire and later changes are ignored.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent, so all we can do is log it.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to the appropriate HTTP status code and sends it.
//
// ERROR MAPPING:
//
//	apperror.ErrValidation   → 422 validation_error
//	apperror.ErrInvalidID    → 400 invalid_id
//	apperror.ErrUnauthorized → 401 unauthorized
//	apperror.ErrNotFound     → 404 not_found
//	apperror.ErrConflict     → 409 conflict
//	anything else            → 500 internal_error (cause logged, never returned)
//
// errors.As walks the chain through any fmt.Errorf("...: %w") wrapping the
// service added, so the mapping holds however deep the AppError sits.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var appErr *apperror.AppError

	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusUnprocessableEntity // 422
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrInvalidID):
			status = http.StatusBadRequest // 400
			errorType = "invalid_id"
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized // 401
			errorType = "unauthorized"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound // 404
			errorType = "not_found"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict // 409
			errorType = "conflict"
		}

		resp := ErrorResponse{Error: errorType, Detail: appErr.Message}
		if status == http.StatusUnprocessableEntity {
			resp.Field = appErr.Field
		}
		writeJSON(w, status, resp)
		return
	}

	// Unknown error: the raw message might contain SQL or file paths.
	logger.Error("unhandled error", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:  "internal_error",
		Detail: "An internal error occurred.",
	})
}

// decodeJSON reads the request body into dst.
//
// Unknown fields are ignored. A body that is not JSON, has a value of the
// wrong type, or exceeds maxBodyBytes is a validation failure (422). The
// error response is written here; callers just return when ok is false.
func decodeJSON(w http.ResponseWriter, r *http.Request, logger *slog.Logger, dst interface{}) (ok bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.Debug("rejected request body", slog.String("error", err.Error()))
		writeError(w, logger, bodyError(err))
		return false
	}
	return true
}

// bodyError turns a json decoding failure into a validation AppError.
func bodyError(err error) *apperror.AppError {
	var (
		typeErr   *json.UnmarshalTypeError
		maxErr    *http.MaxBytesError
		syntaxErr *json.SyntaxError
	)

	switch {
	case errors.As(err, &maxErr):
		return apperror.ValidationFailed("body",
			fmt.Sprintf("Request body must not exceed %d bytes.", maxErr.Limit))
	case errors.As(err, &typeErr) && typeErr.Field == "":
		return apperror.ValidationFailed("body", "Request body must be a JSON object.")
	case errors.As(err, &typeErr):
		return apperror.ValidationFailed(typeErr.Field,
			fmt.Sprintf("%s must be a %s.", typeErr.Field, typeErr.Type))
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return apperror.ValidationFailed("body", "Request body is not valid JSON.")
	case errors.Is(err, io.EOF):
		return apperror.ValidationFailed("body", "Request body is required.")
	default:
		return apperror.ValidationFailed("body", "Request body is not valid JSON.")
	}
}

// requireField reports a missing JSON field. Request structs use pointer
// fields so that "absent" and "empty string" can be told apart.
func requireField(field string, value *string) error {
	if value == nil {
		return apperror.ValidationFailed(field, fmt.Sprintf("%s is required.", field))
	}
	return nil
}

package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/macaria/backend/internal/domain"
	"github.com/macaria/backend/internal/mediator"
)

// ErrorDetail is the body of every error response.
type ErrorDetail struct {
	Code    string                `json:"code"`
	Message string                `json:"message"`
	Fields  []mediator.FieldError `json:"fields,omitempty"`
}

// ErrorResponse wraps ErrorDetail the way the frontend expects it.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// writeError maps a dispatch error onto an HTTP status and body.
// Validation failures carry their field errors; internal failures are logged
// with their full cause chain and surface only a generic message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *mediator.ValidationError
	switch {
	case errors.As(err, &vErr):
		s.writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: ErrorDetail{
			Code:    "validation_error",
			Message: "validation failed",
			Fields:  vErr.Fields,
		}})
	case errors.Is(err, domain.ErrValidation):
		s.writeJSON(w, http.StatusUnprocessableEntity, validationBody(err))
	case errors.Is(err, domain.ErrNotFound):
		s.writeJSON(w, http.StatusNotFound, notFoundBody(unwrapMessage(err)))
	case errors.Is(err, domain.ErrConflict):
		s.writeJSON(w, http.StatusConflict, ErrorResponse{Error: ErrorDetail{
			Code: "conflict", Message: unwrapMessage(err),
		}})
	case errors.Is(err, domain.ErrUnauthorized):
		s.writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: ErrorDetail{
			Code: "unauthorized", Message: "invalid credentials",
		}})
	default:
		s.log.ErrorContext(r.Context(), "handler: internal error",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		s.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: ErrorDetail{
			Code: "internal_error", Message: "internal server error",
		}})
	}
}

// notFoundBody returns an ErrorResponse for a missing resource.
func notFoundBody(message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "not_found", Message: message}}
}

// validationBody returns an ErrorResponse for a domain validation failure.
// The message is extracted from the wrapped domain.ErrValidation error.
func validationBody(err error) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "validation_error", Message: unwrapMessage(err)}}
}

// requestBody returns an ErrorResponse for a bad request rejected before
// reaching the dispatcher (e.g. missing or malformed body).
func requestBody(message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "validation_error", Message: message}}
}

// unwrapMessage strips the "pkg.Type.Method: " call-site prefixes that every
// layer adds, leaving the human-readable tail.
// e.g. "notes.Commands.SaveNote: repo.NoteRepo.Delete: not found" → "not found"
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for {
		idx := strings.Index(msg, ": ")
		if idx < 0 {
			return msg
		}
		prefix := msg[:idx]
		// Call-site prefixes are dotted identifiers with no spaces.
		if strings.ContainsAny(prefix, " \t") || !strings.Contains(prefix, ".") {
			return msg
		}
		msg = msg[idx+2:]
	}
}

package api

import (
	"encoding/json"
	"net/http"

	"github.com/nerrad567/vixio-core/internal/story"
)

// Error is the body of every error response.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`

	// Legacy is the short error name older clients switch on.
	Legacy  string                  `json:"error,omitempty"`
	Detail  string                  `json:"detail,omitempty"`
	Errors  []string                `json:"errors,omitempty"`
	Details []story.ValidationError `json:"details,omitempty"`
}

// Error codes.
const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeNotFound     = "not_found"
	ErrCodeUnauthorized = "unauthorised"
	ErrCodeInternal     = "internal_error"
	ErrCodeValidation   = "validation_error"
	ErrCodeUpstream     = "upstream_error"
	ErrCodeUnavailable  = "unavailable"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, e Error) {
	writeJSON(w, e.Status, e)
}

func writeBadRequest(w http.ResponseWriter, legacy, message string) {
	writeError(w, Error{Status: http.StatusBadRequest, Code: ErrCodeBadRequest, Message: message, Legacy: legacy})
}

func writeNotFound(w http.ResponseWriter, legacy, message string) {
	writeError(w, Error{Status: http.StatusNotFound, Code: ErrCodeNotFound, Message: message, Legacy: legacy})
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	writeError(w, Error{Status: http.StatusUnauthorized, Code: ErrCodeUnauthorized, Message: message, Legacy: "unauthorized"})
}

func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, Error{Status: http.StatusInternalServerError, Code: ErrCodeInternal, Message: message, Legacy: "internal_error"})
}

// writeValidationFailed writes the 400 body for a story that failed
// validation.
func writeValidationFailed(w http.ResponseWriter, errs []story.ValidationError) {
	writeError(w, Error{
		Status:  http.StatusBadRequest,
		Code:    ErrCodeValidation,
		Message: "story failed validation",
		Legacy:  "validation_failed",
		Errors:  story.Messages(errs),
		Details: errs,
	})
}

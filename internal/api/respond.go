package api

import (
	"encoding/json"
	"net/http"

	"shareit/internal/apperr"
)

// errorResponse is the wire shape of every error body.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps the error taxonomy onto HTTP statuses. Unclassified errors
// surface as 500 without leaking the internal message.
func writeError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)

	var statusCode int
	switch kind {
	case apperr.KindNotFound:
		statusCode = http.StatusNotFound
	case apperr.KindAccessDenied:
		statusCode = http.StatusForbidden
	case apperr.KindValidation:
		statusCode = http.StatusBadRequest
	case apperr.KindConflict:
		statusCode = http.StatusConflict
	default:
		statusCode = http.StatusInternalServerError
	}

	message := err.Error()
	if kind == apperr.KindInternal {
		message = "internal server error"
	}

	writeJSON(w, statusCode, errorResponse{
		Error:   kind.Category(),
		Message: message,
	})
}

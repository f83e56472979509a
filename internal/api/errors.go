package api

import (
	"encoding/json"
	"net/http"
)

// Default descriptions for error responses without a custom one.
const (
	defaultBadRequestDescription   = "The request could not be understood by the server due to malformed syntax."
	defaultUnauthorizedDescription = "The request requires user authentication."
	defaultNotFoundDescription     = "The requested resource could not be found."
)

// ErrorContent carries the details of an error response.
type ErrorContent struct {
	// Status code
	Code int `json:"code"`

	// Error reason
	Reason string `json:"reason"`

	// Error message
	Description string `json:"description"`
}

// ErrorResponse is the envelope for all error responses.
type ErrorResponse struct {
	Error ErrorContent `json:"error"`
}

// OkResponse tells the client a command completed.
type OkResponse struct {
	// Status code
	Code int `json:"code"`

	// Description message
	Message string `json:"message"`
}

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeOk writes a 200 response with a completion message.
func writeOk(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, OkResponse{
		Code:    http.StatusOK,
		Message: message,
	})
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, description string) {
	writeJSON(w, status, ErrorResponse{
		Error: ErrorContent{
			Code:        status,
			Reason:      http.StatusText(status),
			Description: description,
		},
	})
}

// writeBadRequest writes a 400 error response.
// An empty description falls back to the default message.
func writeBadRequest(w http.ResponseWriter, description string) {
	if description == "" {
		description = defaultBadRequestDescription
	}
	writeError(w, http.StatusBadRequest, description)
}

// writeUnauthorized writes a 401 error response.
func writeUnauthorized(w http.ResponseWriter, description string) {
	if description == "" {
		description = defaultUnauthorizedDescription
	}
	writeError(w, http.StatusUnauthorized, description)
}

// writeNotFound writes a 404 error response.
func writeNotFound(w http.ResponseWriter, description string) {
	if description == "" {
		description = defaultNotFoundDescription
	}
	writeError(w, http.StatusNotFound, description)
}

// writeInternalError writes a 500 error response.
func writeInternalError(w http.ResponseWriter, description string) {
	writeError(w, http.StatusInternalServerError, description)
}

// writeServiceUnavailable writes a 503 error response. The description
// tells why the device is busy.
func writeServiceUnavailable(w http.ResponseWriter, description string) {
	writeError(w, http.StatusServiceUnavailable, description)
}

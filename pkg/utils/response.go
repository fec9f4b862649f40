// Package utils holds the JSON response helpers shared by every handler.
package utils

import (
	"encoding/json"
	"log"
	"net/http"
)

// errorBody is the error envelope every endpoint returns on failure.
// The terminal client decodes exactly this shape when surfacing backend
// errors, so the field name is part of the API contract.
type errorBody struct {
	Error string `json:"error"`
}

// RespondJSON writes payload as JSON with the given status. Encoding
// failures are logged; the status line has already been sent by then.
func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[http] failed to encode response: %v", err)
	}
}

// RespondError writes the error envelope with the given status.
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, errorBody{Error: message})
}

// Package httpx holds small HTTP response helpers shared by handlers.
package httpx

import (
	"encoding/json"
	"log"
	"net/http"
)

// ErrorResponse is the JSON error envelope every handler uses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// JSON writes payload as a JSON response with the given status code.
// Encoding failures are logged; the status line has already gone out by
// then, so the client sees a truncated body rather than a second status.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("httpx: encode response: %v", err)
	}
}

// JSONError writes the standard error envelope.
func JSONError(w http.ResponseWriter, status int, msg string, details any) {
	JSON(w, status, ErrorResponse{Error: msg, Details: details})
}

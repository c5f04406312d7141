// Package respond centralizes JSON response writing so every handler
// produces the same body shapes.
package respond

import (
	"encoding/json"
	"log"
	"net/http"
)

// FieldError is one entry in a validation failure response.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// JSON writes payload with the given status.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[HTTP] failed to encode response: %v", err)
	}
}

// Error writes a {"message": ...} body with the given status.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"message": message})
}

// ValidationErrors writes the standard 400 body carrying field-level errors.
func ValidationErrors(w http.ResponseWriter, errs []FieldError) {
	JSON(w, http.StatusBadRequest, map[string]any{
		"message": "Validation errors",
		"errors":  errs,
	})
}

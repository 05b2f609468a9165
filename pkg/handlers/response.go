package handlers

import (
	"encoding/json"
	"net/http"
)

// envelope is the server's uniform response shape.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// WriteData writes a success envelope around data.
func WriteData(w http.ResponseWriter, statusCode int, data any) error {
	return WriteJSON(w, statusCode, envelope{Success: true, Data: data})
}

// ErrorResponse writes a failure envelope and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, envelope{Success: false, Error: message})
}

package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// envelope is the JSON wrapper every API response uses
type envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
}

func writeSuccess(w http.ResponseWriter, data any, message string) {
	writeEnvelope(w, http.StatusOK, envelope{
		Success: true,
		Data:    data,
		Message: message,
	})
}

func writeError(w http.ResponseWriter, status int, errMessage string) {
	writeEnvelope(w, status, envelope{
		Success: false,
		Error:   errMessage,
	})
}

func writeEnvelope(w http.ResponseWriter, status int, env envelope) {
	env.Timestamp = time.Now().UTC().Format(time.RFC3339)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}

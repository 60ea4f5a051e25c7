package handlers

import (
	"encoding/json"
	"net/http"
)

// BatchAccepted is the response to a successful upload.
type BatchAccepted struct {
	JobID    string `json:"job_id"`
	Filename string `json:"filename"`
	CardKind string `json:"card_kind"`
}

// ConvertAccepted is the response to a successful table conversion.
type ConvertAccepted struct {
	ArtifactID string `json:"artifact_id"`
	Name       string `json:"name"`
}

// SessionCleared reports what a session wipe removed.
type SessionCleared struct {
	ArtifactsRemoved int `json:"artifacts_removed"`
	JobsRemoved      int `json:"jobs_removed"`
}

// errorResponse is the uniform error body.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

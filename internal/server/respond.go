package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// errorEnvelope is the failure payload every endpoint returns.
type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger().Warn("failed to encode response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, errName, details string) {
	s.respondJSON(w, status, errorEnvelope{Success: false, Error: errName, Details: details})
}

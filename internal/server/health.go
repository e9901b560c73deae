package server

import (
	"net/http"
	"time"
)

type healthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

type probeResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// handleHealth reports aggregate service health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{
		"sessions": "healthy",
		"analyzer": "healthy",
	}
	status := "healthy"
	if s.sessions == nil {
		checks["sessions"] = "unhealthy"
		status = "unhealthy"
	}
	if s.analyzer == nil {
		checks["analyzer"] = "unhealthy"
		status = "unhealthy"
	}

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	s.respondJSON(w, code, healthResponse{
		Status:    status,
		Version:   AppVersion,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}

// handleLiveness always succeeds while the process serves requests.
func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, probeResponse{Status: "alive", Timestamp: time.Now().UTC()})
}

// handleReadiness succeeds once the pipeline collaborators are wired.
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	if s.analyzer == nil || s.sessions == nil {
		s.respondJSON(w, http.StatusServiceUnavailable, probeResponse{Status: "not ready", Timestamp: time.Now().UTC()})
		return
	}
	s.respondJSON(w, http.StatusOK, probeResponse{Status: "ready", Timestamp: time.Now().UTC()})
}

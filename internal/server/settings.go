package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	servermw "github.com/brandscope/brandscope/internal/server/middleware"
)

// settingsRequest uses pointer fields so "absent" and "set to empty" are
// distinguishable: an empty string clears that key's override.
type settingsRequest struct {
	OpenAIKey *string `json:"openai_key"`
	SearchKey *string `json:"search_key"`
}

type settingsStatusResponse struct {
	Success      bool `json:"success"`
	OpenAIKeySet bool `json:"openai_key_set"`
	SearchKeySet bool `json:"search_key_set"`
}

// handleGetSettings reports whether session credential overrides are set,
// never the key material itself.
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	if s.sessions == nil {
		s.respondError(w, http.StatusServiceUnavailable, "Service Initialization Error",
			"The session store is unavailable.")
		return
	}

	sessionID := servermw.GetSessionID(r.Context())
	creds, err := s.sessions.GetCredentials(r.Context(), sessionID)
	if err != nil {
		s.logger().Error("failed to load session credentials", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "Internal Server Error",
			"Failed to load session settings.")
		return
	}

	s.respondJSON(w, http.StatusOK, settingsStatusResponse{
		Success:      true,
		OpenAIKeySet: creds.OpenAIKey != "",
		SearchKeySet: creds.SearchKey != "",
	})
}

// handlePostSettings stores per-session credential overrides.
func (s *Server) handlePostSettings(w http.ResponseWriter, r *http.Request) {
	if s.sessions == nil {
		s.respondError(w, http.StatusServiceUnavailable, "Service Initialization Error",
			"The session store is unavailable.")
		return
	}

	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid Request", "Invalid request format.")
		return
	}

	sessionID := servermw.GetSessionID(r.Context())
	creds, err := s.sessions.GetCredentials(r.Context(), sessionID)
	if err != nil {
		s.logger().Error("failed to load session credentials", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "Internal Server Error",
			"Failed to load session settings.")
		return
	}

	if req.OpenAIKey != nil {
		creds.OpenAIKey = *req.OpenAIKey
	}
	if req.SearchKey != nil {
		creds.SearchKey = *req.SearchKey
	}

	if err := s.sessions.PutCredentials(r.Context(), sessionID, creds); err != nil {
		s.logger().Error("failed to store session credentials", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "Internal Server Error",
			"Failed to save session settings.")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Settings saved successfully.",
	})
}

package server

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/brandscope/brandscope/internal/agent"
	"github.com/brandscope/brandscope/internal/core/engine"
	servermw "github.com/brandscope/brandscope/internal/server/middleware"
)

type qaResponse struct {
	Success bool   `json:"success"`
	Answer  string `json:"answer"`
}

// handleQA answers a follow-up question from the session's stored analysis
// context.
func (s *Server) handleQA(w http.ResponseWriter, r *http.Request) {
	question := r.FormValue("question")
	if question == "" {
		s.respondError(w, http.StatusBadRequest, "Missing Input", "No question provided in the request.")
		return
	}

	if s.analyzer == nil {
		s.respondError(w, http.StatusServiceUnavailable, "Service Initialization Error",
			"The question answering service failed to initialize or is unavailable.")
		return
	}

	sessionID := servermw.GetSessionID(r.Context())
	answer, err := s.analyzer.Answer(r.Context(), sessionID, question)
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrMissingQuestion):
			s.respondError(w, http.StatusBadRequest, "Missing Input", "No question provided in the request.")
		case errors.Is(err, agent.ErrMissingContext):
			s.respondError(w, http.StatusBadRequest, "Missing Context",
				"Please perform an initial analysis first before asking follow-up questions.")
		case errors.Is(err, engine.ErrNotReady):
			s.respondError(w, http.StatusServiceUnavailable, "Service Initialization Error",
				"The question answering service failed to initialize or is unavailable.")
		default:
			s.logger().Error("qa request failed", zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, "QA Processing Error", err.Error())
		}
		return
	}

	s.respondJSON(w, http.StatusOK, qaResponse{Success: true, Answer: answer})
}

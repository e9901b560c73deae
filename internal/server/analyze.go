package server

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/brandscope/brandscope/internal/core/engine"
	servermw "github.com/brandscope/brandscope/internal/server/middleware"
)

type analyzeResponse struct {
	Success bool `json:"success"`
	*engine.Analysis
}

// handleAnalyze runs the full pipeline for the posted brand name.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	brandName := r.FormValue("brand_name")
	if brandName == "" {
		s.respondError(w, http.StatusBadRequest, "Missing Input", "Please enter a brand name to analyze.")
		return
	}

	if s.analyzer == nil {
		s.respondError(w, http.StatusServiceUnavailable, "Service Initialization Error",
			"Core analysis components failed to initialize. Please check server logs.")
		return
	}

	sessionID := servermw.GetSessionID(r.Context())
	result, err := s.analyzer.Analyze(r.Context(), sessionID, brandName)
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrMissingBrand):
			s.respondError(w, http.StatusBadRequest, "Missing Input", "Please enter a brand name to analyze.")
		case errors.Is(err, engine.ErrNotReady):
			s.respondError(w, http.StatusServiceUnavailable, "Service Initialization Error", err.Error())
		case errors.Is(err, engine.ErrResearchFailed):
			s.logger().Error("market research aborted", zap.String("brand", brandName), zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, "Market Research Failed", err.Error())
		default:
			s.logger().Error("analyze request failed", zap.String("brand", brandName), zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, "Internal Server Error",
				"An unexpected error occurred while analyzing the brand name.")
		}
		return
	}

	s.respondJSON(w, http.StatusOK, analyzeResponse{Success: true, Analysis: result})
}

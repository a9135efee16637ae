package api

import (
	"net/http"

	"github.com/dgallion1/careermap/internal/profile"
)

func (s *Server) handleAnalysisStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"profile":     s.orchestrator.DefaultProfile().Name,
		"queue_depth": s.orchestrator.QueueDepth(),
		"stats":       s.orchestrator.LatencyStats(),
	})
}

func (s *Server) handleProfiles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"default":  s.orchestrator.DefaultProfile().Name,
		"profiles": profile.Names(),
		"publish":  s.orchestrator.PublishEnabled(),
	})
}

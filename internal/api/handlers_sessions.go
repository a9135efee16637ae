package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/careermap/internal/export"
	"github.com/dgallion1/careermap/internal/model"
	"github.com/dgallion1/careermap/internal/pipeline"
)

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*pipeline.Session, bool) {
	sess, err := s.orchestrator.Session(chi.URLParam(r, "sessionID"))
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return nil, false
	}
	return sess, true
}

func (s *Server) handleSessionStatus(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleSessionResult(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	res, ok := sess.Result()
	if !ok {
		jsonError(w, pipeline.ErrNoResult.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": sess.ID,
		"status":     sess.Snapshot().Status,
		"stats":      sess.Stats(),
		"result":     res,
	})
}

func (s *Server) handleUpdateNode(w http.ResponseWriter, r *http.Request) {
	var patch model.NodePatch
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64*1024)).Decode(&patch); err != nil {
		jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}
	res, err := s.orchestrator.UpdateNode(chi.URLParam(r, "sessionID"), chi.URLParam(r, "nodeID"), patch)
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	res, ok := sess.Result()
	if !ok {
		jsonError(w, pipeline.ErrNoResult.Error(), http.StatusConflict)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.FileName()))
	if err := export.Write(w, format, res, s.now()); err != nil {
		s.log.Error("export failed", "session_id", sess.ID, "format", format, "error", err)
	}
}

func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	stats, err := s.orchestrator.Publish(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": chi.URLParam(r, "sessionID"),
		"published":  stats,
	})
}

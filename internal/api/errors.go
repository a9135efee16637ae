package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dgallion1/careermap/internal/analyzer"
	"github.com/dgallion1/careermap/internal/export"
	"github.com/dgallion1/careermap/internal/pathstore"
	"github.com/dgallion1/careermap/internal/pipeline"
	"github.com/dgallion1/careermap/internal/profile"
)

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, pipeline.ErrSessionNotFound), errors.Is(err, analyzer.ErrNodeNotFound):
		return http.StatusNotFound
	case errors.Is(err, pipeline.ErrSessionBusy), errors.Is(err, pipeline.ErrNoResult):
		return http.StatusConflict
	case errors.Is(err, pipeline.ErrQueueFull), errors.Is(err, pipeline.ErrStopped):
		return http.StatusServiceUnavailable
	case errors.Is(err, pipeline.ErrPublishDisabled):
		return http.StatusNotImplemented
	case errors.Is(err, analyzer.ErrInvalidPatch), errors.Is(err, profile.ErrUnknownProfile), errors.Is(err, export.ErrUnknownFormat):
		return http.StatusBadRequest
	case pathstore.IsRetryable(err):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

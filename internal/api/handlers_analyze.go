package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/careermap/internal/demo"
	"github.com/dgallion1/careermap/internal/ingest"
	"github.com/dgallion1/careermap/internal/model"
	"github.com/dgallion1/careermap/internal/pipeline"
)

// analyzeRequest is the JSON form of POST /api/analyze. Multipart uploads
// carry the same options as form fields next to "files".
type analyzeRequest struct {
	Documents []model.ProcessedDocument `json:"documents" validate:"dive"`
	Profile   string                    `json:"profile" validate:"omitempty,oneof=standard simple smart"`
	Publish   bool                      `json:"publish"`
}

// submission is a decoded upload of either form.
type submission struct {
	files []ingest.File
	req   analyzeRequest
}

func (sub submission) count() int {
	return len(sub.files) + len(sub.req.Documents)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	sub, ok := s.readSubmission(w, r)
	if !ok {
		return
	}
	if sub.count() == 0 {
		jsonError(w, "at least one file or document is required", http.StatusBadRequest)
		return
	}

	sess, err := s.orchestrator.NewSession(sub.req.Profile, sub.req.Publish)
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}
	s.submit(w, sess, sub)
}

func (s *Server) handleAddDocuments(w http.ResponseWriter, r *http.Request) {
	sess, err := s.orchestrator.Session(chi.URLParam(r, "sessionID"))
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}
	sub, ok := s.readSubmission(w, r)
	if !ok {
		return
	}
	if sub.count() == 0 {
		jsonError(w, "at least one file or document is required", http.StatusBadRequest)
		return
	}
	if total := sess.Snapshot().Progress.FilesTotal + sub.count(); total > s.cfg.MaxFilesPerSession {
		jsonError(w, fmt.Sprintf("session would hold %d files, max is %d", total, s.cfg.MaxFilesPerSession), http.StatusRequestEntityTooLarge)
		return
	}
	s.submit(w, sess, sub)
}

func (s *Server) handleDemo(w http.ResponseWriter, r *http.Request) {
	sess, err := s.orchestrator.NewSession("", false)
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}
	s.submit(w, sess, submission{req: analyzeRequest{Documents: demo.Documents(s.now())}})
}

func (s *Server) submit(w http.ResponseWriter, sess *pipeline.Session, sub submission) {
	if err := s.orchestrator.Submit(sess, sub.files, sub.req.Documents); err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}
	snap := sess.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"session_id": snap.ID,
		"status":     snap.Status,
		"profile":    snap.Profile,
		"poll_url":   fmt.Sprintf("/api/sessions/%s", snap.ID),
	})
}

// readSubmission decodes a multipart upload or a JSON body. It writes the
// error response itself and reports false when the request is unusable.
func (s *Server) readSubmission(w http.ResponseWriter, r *http.Request) (submission, bool) {
	limit := s.cfg.MaxUploadBytes*int64(s.cfg.MaxFilesPerSession) + 1024*1024 // extra 1MB for form overhead
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	var (
		sub submission
		err error
	)
	switch mediaType {
	case "multipart/form-data":
		sub, err = s.readMultipart(r)
	case "application/json":
		err = json.NewDecoder(r.Body).Decode(&sub.req)
		if err != nil {
			err = fmt.Errorf("invalid JSON body: %w", err)
		}
	default:
		jsonError(w, "expected multipart/form-data or application/json", http.StatusUnsupportedMediaType)
		return sub, false
	}
	if err != nil {
		code := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || errors.Is(err, errFileTooLarge) {
			code = http.StatusRequestEntityTooLarge
		}
		jsonError(w, err.Error(), code)
		return sub, false
	}

	if err := s.validate.Struct(sub.req); err != nil {
		jsonError(w, "invalid request: "+err.Error(), http.StatusBadRequest)
		return sub, false
	}
	if sub.count() > s.cfg.MaxFilesPerSession {
		jsonError(w, fmt.Sprintf("too many files (%d), max is %d", sub.count(), s.cfg.MaxFilesPerSession), http.StatusRequestEntityTooLarge)
		return sub, false
	}
	for i := range sub.req.Documents {
		sub.req.Documents[i].FileName = sanitizeFilename(sub.req.Documents[i].FileName)
		if sub.req.Documents[i].Metadata.ExtractedDate.IsZero() {
			sub.req.Documents[i].Metadata.ExtractedDate = s.now()
		}
	}
	return sub, true
}

var errFileTooLarge = errors.New("file exceeds max size")

func (s *Server) readMultipart(r *http.Request) (submission, error) {
	var sub submission
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return sub, fmt.Errorf("invalid multipart form: %w", err)
	}
	defer r.MultipartForm.RemoveAll()

	sub.req.Profile = r.FormValue("profile")
	if v := r.FormValue("publish"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return sub, fmt.Errorf("invalid publish flag %q", v)
		}
		sub.req.Publish = b
	}

	for _, fh := range r.MultipartForm.File["files"] {
		filename := sanitizeFilename(fh.Filename)
		if !ingest.IsSupportedExtension(filename) {
			return sub, fmt.Errorf("unsupported file type: %s", filepath.Ext(filename))
		}
		f, err := fh.Open()
		if err != nil {
			return sub, fmt.Errorf("open %s: %w", filename, err)
		}
		data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
		f.Close()
		if err != nil {
			return sub, fmt.Errorf("read %s: %w", filename, err)
		}
		if int64(len(data)) > s.cfg.MaxUploadBytes {
			return sub, fmt.Errorf("%w: %s (%d bytes)", errFileTooLarge, filename, s.cfg.MaxUploadBytes)
		}
		sub.files = append(sub.files, ingest.File{Name: filename, Data: data})
	}
	return sub, nil
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}

package pipeline

import (
	"errors"
	"sync"
	"time"

	"github.com/dgallion1/careermap/internal/analyzer"
	"github.com/dgallion1/careermap/internal/ingest"
	"github.com/dgallion1/careermap/internal/model"
	"github.com/dgallion1/careermap/internal/pathstore"
	"github.com/dgallion1/careermap/internal/profile"
)

var (
	ErrQueueFull       = errors.New("session queue is full")
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionBusy     = errors.New("session is still processing")
	ErrNoResult        = errors.New("session has no result yet")
	ErrPublishDisabled = errors.New("pathstore publishing is not configured")
	ErrStopped         = errors.New("pipeline is shutting down")
)

// SessionStatus represents the state of an analysis session.
type SessionStatus string

const (
	StatusCreated    SessionStatus = "created"
	StatusQueued     SessionStatus = "queued"
	StatusIngesting  SessionStatus = "ingesting"
	StatusAnalyzing  SessionStatus = "analyzing"
	StatusPublishing SessionStatus = "publishing"
	StatusCompleted  SessionStatus = "completed"
	StatusEmpty      SessionStatus = "empty"
	StatusPartial    SessionStatus = "partial"
	StatusFailed     SessionStatus = "failed"
)

// Busy reports whether a worker still owns the session.
func (s SessionStatus) Busy() bool {
	switch s {
	case StatusQueued, StatusIngesting, StatusAnalyzing, StatusPublishing:
		return true
	}
	return false
}

// User-facing messages for sessions that produced nothing.
const (
	NoDocumentsMessage = "No documents could be processed. Please check your files and try again."
	EmptyResultMessage = "No career insights could be extracted from your documents. Try uploading documents with more explicit career information (CVs, job descriptions, project reports, etc.)."
)

// Session tracks the documents, result and state of one analysis.
// Documents accumulate across uploads; each upload re-analyzes all of them.
type Session struct {
	mu sync.Mutex

	ID      string `json:"session_id"`
	Profile string `json:"profile"`
	Publish bool   `json:"publish"`

	Status  SessionStatus `json:"status"`
	Phase   string        `json:"phase"`
	Message string        `json:"message,omitempty"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	profile      profile.Profile
	pendingFiles []ingest.File
	pendingDocs  []model.ProcessedDocument
	docs         []model.ProcessedDocument
	hashes       map[string]bool
	result       *model.AnalysisResult
	stats        analyzer.Stats
	published    *pathstore.PublishStats
	errors       []string
}

// Progress tracks processing progress.
type Progress struct {
	FilesTotal     int      `json:"files_total"`
	FilesProcessed int      `json:"files_processed"`
	Documents      int      `json:"documents"`
	Nodes          int      `json:"nodes"`
	Connections    int      `json:"connections"`
	Errors         []string `json:"errors"`
}

// NewSession creates an idle session analyzed with p.
func NewSession(id string, p profile.Profile, publish bool) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		Profile:   p.Name,
		Publish:   publish,
		Status:    StatusCreated,
		Phase:     "created",
		CreatedAt: now,
		UpdatedAt: now,
		profile:   p,
		hashes:    make(map[string]bool),
	}
}

// SessionStore is a thread-safe in-memory session registry with TTL eviction.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

func (s *SessionStore) Put(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
}

func (s *SessionStore) Get(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[id]
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Cleanup removes sessions idle for longer than the TTL.
func (s *SessionStore) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	removed := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := now.Sub(sess.UpdatedAt)
		sess.mu.Unlock()
		if idle > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// SetStatus updates session status atomically.
func (s *Session) SetStatus(status SessionStatus, phase string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Status = status
	s.Phase = phase
	s.UpdatedAt = time.Now()
}

// AddError records an error.
func (s *Session) AddError(err string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, err)
	s.Progress.Errors = s.errors
	s.UpdatedAt = time.Now()
}

// SetMessage sets the user-facing message shown with the status.
func (s *Session) SetMessage(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Message = msg
	s.UpdatedAt = time.Now()
}

// enqueue adds uploads and already-extracted documents for the next run
// and marks the session queued. It fails while a worker owns the session.
func (s *Session) enqueue(files []ingest.File, docs []model.ProcessedDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Status.Busy() {
		return ErrSessionBusy
	}
	s.pendingFiles = append(s.pendingFiles, files...)
	s.pendingDocs = append(s.pendingDocs, docs...)
	s.Progress.FilesTotal += len(files) + len(docs)
	s.Status = StatusQueued
	s.Phase = "queued"
	s.Message = ""
	s.UpdatedAt = time.Now()
	return nil
}

// takePending hands the queued input to a worker.
func (s *Session) takePending() ([]ingest.File, []model.ProcessedDocument) {
	s.mu.Lock()
	defer s.mu.Unlock()
	files, docs := s.pendingFiles, s.pendingDocs
	s.pendingFiles, s.pendingDocs = nil, nil
	return files, docs
}

// addDocuments appends docs whose content the session has not seen yet and
// returns how many were added.
func (s *Session) addDocuments(docs []model.ProcessedDocument) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	added := 0
	for _, d := range docs {
		h := ingest.ContentHashHex([]byte(d.Content))
		if s.hashes[h] {
			continue
		}
		s.hashes[h] = true
		s.docs = append(s.docs, d)
		added++
	}
	s.Progress.Documents = len(s.docs)
	s.UpdatedAt = time.Now()
	return added
}

// markProcessed counts input items a worker has finished with.
func (s *Session) markProcessed(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Progress.FilesProcessed += n
	s.UpdatedAt = time.Now()
}

// Documents returns a copy of the session's documents.
func (s *Session) Documents() []model.ProcessedDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.ProcessedDocument(nil), s.docs...)
}

func (s *Session) setResult(res model.AnalysisResult, stats analyzer.Stats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = &res
	s.stats = stats
	s.published = nil
	s.Progress.Nodes = len(res.Nodes)
	s.Progress.Connections = len(res.Edges())
	s.UpdatedAt = time.Now()
}

// Result returns a copy of the latest result.
func (s *Session) Result() (model.AnalysisResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return model.AnalysisResult{}, false
	}
	return s.result.Clone(), true
}

// Stats returns the summary of the latest analysis run.
func (s *Session) Stats() analyzer.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// UpdateResult replaces the result with fn applied to it. It fails while a
// worker owns the session.
func (s *Session) UpdateResult(fn func(model.AnalysisResult) (model.AnalysisResult, error)) (model.AnalysisResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Status.Busy() {
		return model.AnalysisResult{}, ErrSessionBusy
	}
	if s.result == nil {
		return model.AnalysisResult{}, ErrNoResult
	}
	res, err := fn(s.result.Clone())
	if err != nil {
		return model.AnalysisResult{}, err
	}
	s.result = &res
	s.published = nil
	s.Progress.Nodes = len(res.Nodes)
	s.Progress.Connections = len(res.Edges())
	s.UpdatedAt = time.Now()
	return res.Clone(), nil
}

func (s *Session) setPublished(ps pathstore.PublishStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.published = &ps
	s.UpdatedAt = time.Now()
}

// SessionSnapshot is a read-only, JSON-safe copy of session state.
type SessionSnapshot struct {
	ID        string                  `json:"session_id"`
	Profile   string                  `json:"profile"`
	Publish   bool                    `json:"publish"`
	Status    SessionStatus           `json:"status"`
	Phase     string                  `json:"phase"`
	Message   string                  `json:"message,omitempty"`
	Progress  Progress                `json:"progress"`
	Published *pathstore.PublishStats `json:"published,omitempty"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the session state.
func (s *Session) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	errs := append([]string{}, s.Progress.Errors...)
	snap := SessionSnapshot{
		ID:        s.ID,
		Profile:   s.Profile,
		Publish:   s.Publish,
		Status:    s.Status,
		Phase:     s.Phase,
		Message:   s.Message,
		Progress:  s.Progress,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	snap.Progress.Errors = errs
	if s.published != nil {
		ps := *s.published
		snap.Published = &ps
	}
	return snap
}

package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/careermap/internal/analyzer"
	"github.com/dgallion1/careermap/internal/config"
	"github.com/dgallion1/careermap/internal/ingest"
	"github.com/dgallion1/careermap/internal/metrics"
	"github.com/dgallion1/careermap/internal/model"
	"github.com/dgallion1/careermap/internal/pathstore"
	"github.com/dgallion1/careermap/internal/profile"
)

// Orchestrator manages analysis sessions and the workers that run them.
type Orchestrator struct {
	sessions  *SessionStore
	queue     chan *Session
	publisher *pathstore.Publisher
	metrics   *metrics.Collector
	latency   *metrics.Latency
	log       *slog.Logger
	cfg       config.Config
	profile   profile.Profile

	mu      sync.Mutex
	stopped bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewOrchestrator creates the pipeline. publisher may be nil when
// publishing is not configured. The default profile is cfg.AnalyzerProfile,
// a preset name or a YAML file.
func NewOrchestrator(cfg config.Config, publisher *pathstore.Publisher, m *metrics.Collector, log *slog.Logger) (*Orchestrator, error) {
	p, err := profile.Load(cfg.AnalyzerProfile)
	if err != nil {
		return nil, fmt.Errorf("analyzer profile: %w", err)
	}
	return &Orchestrator{
		sessions:  NewSessionStore(cfg.SessionTTL),
		queue:     make(chan *Session, cfg.MaxQueueSize),
		publisher: publisher,
		metrics:   m,
		latency:   metrics.NewLatency(time.Hour),
		log:       log,
		cfg:       cfg,
		profile:   p,
	}, nil
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	opts := ingest.Options{FallbackPdftotext: o.cfg.PDFFallbackPdftotext}
	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(opts, o.publisher, o.metrics, o.latency, o.log)
			for {
				select {
				case <-workerCtx.Done():
					return
				case sess := <-o.queue:
					o.metrics.SetQueueDepth(len(o.queue))
					w.Process(workerCtx, sess)
				}
			}
		}()
	}

	// Start session store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				if n := o.sessions.Cleanup(); n > 0 {
					o.log.Debug("expired sessions removed", "count", n)
				}
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline. Submit fails with ErrStopped
// afterwards; sessions still queued are not processed.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	o.stopped = true
	o.mu.Unlock()
	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()
}

// NewSession registers an empty session. profileName selects a preset; an
// empty name uses the default profile.
func (o *Orchestrator) NewSession(profileName string, publish bool) (*Session, error) {
	p := o.profile
	if profileName != "" {
		var err error
		if p, err = profile.Preset(profileName); err != nil {
			return nil, err
		}
	}
	if publish && o.publisher == nil {
		return nil, ErrPublishDisabled
	}
	sess := NewSession(uuid.NewString(), p, publish)
	o.sessions.Put(sess)
	return sess, nil
}

// Submit queues files and documents for analysis in sess. The session's
// existing documents are analyzed again together with the new ones.
func (o *Orchestrator) Submit(sess *Session, files []ingest.File, docs []model.ProcessedDocument) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopped {
		return ErrStopped
	}
	if err := sess.enqueue(files, docs); err != nil {
		return err
	}
	select {
	case o.queue <- sess:
		o.metrics.SetQueueDepth(len(o.queue))
		return nil
	default:
		sess.takePending()
		sess.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("%w (%d)", ErrQueueFull, o.cfg.MaxQueueSize)
	}
}

// Session returns a session by ID.
func (o *Orchestrator) Session(id string) (*Session, error) {
	sess := o.sessions.Get(id)
	if sess == nil {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// UpdateNode applies patch to one node of a finished session.
func (o *Orchestrator) UpdateNode(sessionID, nodeID string, patch model.NodePatch) (model.AnalysisResult, error) {
	sess, err := o.Session(sessionID)
	if err != nil {
		return model.AnalysisResult{}, err
	}
	return sess.UpdateResult(func(res model.AnalysisResult) (model.AnalysisResult, error) {
		return analyzer.UpdateNode(res, nodeID, patch)
	})
}

// Publish pushes the session's current result to pathstore.
func (o *Orchestrator) Publish(ctx context.Context, sessionID string) (pathstore.PublishStats, error) {
	if o.publisher == nil {
		return pathstore.PublishStats{}, ErrPublishDisabled
	}
	sess, err := o.Session(sessionID)
	if err != nil {
		return pathstore.PublishStats{}, err
	}
	if sess.Snapshot().Status.Busy() {
		return pathstore.PublishStats{}, ErrSessionBusy
	}
	res, ok := sess.Result()
	if !ok {
		return pathstore.PublishStats{}, ErrNoResult
	}
	stats, err := o.publisher.Publish(ctx, sess.ID, res)
	o.metrics.ObservePublish(err)
	if err != nil {
		return stats, err
	}
	sess.setPublished(stats)
	return stats, nil
}

// PublishEnabled reports whether a pathstore publisher is configured.
func (o *Orchestrator) PublishEnabled() bool {
	return o.publisher != nil
}

// DefaultProfile returns the profile used when a session names none.
func (o *Orchestrator) DefaultProfile() profile.Profile {
	return o.profile
}

// LatencyStats returns rolling analysis latency percentiles.
func (o *Orchestrator) LatencyStats() metrics.Snapshot {
	return o.latency.Snapshot()
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

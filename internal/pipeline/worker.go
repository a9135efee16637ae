package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/careermap/internal/analyzer"
	"github.com/dgallion1/careermap/internal/ingest"
	"github.com/dgallion1/careermap/internal/metrics"
	"github.com/dgallion1/careermap/internal/model"
	"github.com/dgallion1/careermap/internal/pathstore"
)

// Worker processes a single session run.
type Worker struct {
	ingestOpts ingest.Options
	publisher  *pathstore.Publisher
	metrics    *metrics.Collector
	latency    *metrics.Latency
	log        *slog.Logger
}

func NewWorker(opts ingest.Options, publisher *pathstore.Publisher, m *metrics.Collector, latency *metrics.Latency, log *slog.Logger) *Worker {
	return &Worker{
		ingestOpts: opts,
		publisher:  publisher,
		metrics:    m,
		latency:    latency,
		log:        log,
	}
}

// Process ingests the session's pending input, analyzes every document the
// session holds and optionally publishes the result.
func (w *Worker) Process(ctx context.Context, sess *Session) {
	log := w.log.With("session_id", sess.ID, "profile", sess.Profile)
	start := time.Now()

	// Phase 1: Ingest
	sess.SetStatus(StatusIngesting, "ingesting")
	files, docs := sess.takePending()
	processed, failed := ingest.ProcessMany(ctx, files, w.ingestOpts, log)
	for _, f := range failed {
		sess.AddError(fmt.Sprintf("%s: %s", f.Name, f.Err))
	}
	w.metrics.ObserveDocuments(len(processed)+len(docs), len(failed))
	sess.markProcessed(len(files) + len(docs))

	added := sess.addDocuments(append(docs, processed...))
	all := sess.Documents()
	log.Info("documents ingested", "added", added, "failed", len(failed), "total", len(all))

	if len(all) == 0 {
		sess.SetMessage(NoDocumentsMessage)
		sess.SetStatus(StatusFailed, "ingesting")
		w.metrics.ObserveAnalysis(string(StatusFailed), time.Since(start), nil)
		return
	}

	// Phase 2: Analyze
	sess.SetStatus(StatusAnalyzing, "analyzing")
	a := analyzer.New(sess.profile, analyzer.WithLogger(log))
	var (
		res   model.AnalysisResult
		stats analyzer.Stats
		err   error
	)
	if prev, ok := sess.Result(); ok {
		res, stats, err = a.Reanalyze(ctx, all, prev)
	} else {
		res, stats, err = a.AnalyzeWithStats(ctx, all)
	}
	if err != nil {
		log.Error("analysis failed", "error", err)
		sess.AddError(fmt.Sprintf("analyze: %s", err))
		sess.SetStatus(StatusFailed, "analyzing")
		w.metrics.ObserveAnalysis(string(StatusFailed), time.Since(start), nil)
		return
	}
	sess.setResult(res, stats)
	w.latency.Record(stats.Duration, stats.Nodes)

	if len(res.Nodes) == 0 {
		log.Info("no career insights found")
		sess.SetMessage(EmptyResultMessage)
		sess.SetStatus(StatusEmpty, "done")
		w.metrics.ObserveAnalysis(string(StatusEmpty), time.Since(start), nil)
		return
	}

	// Phase 3: Publish
	status := StatusCompleted
	if sess.Publish && w.publisher != nil {
		sess.SetStatus(StatusPublishing, "publishing")
		ps, err := w.publisher.Publish(ctx, sess.ID, res)
		w.metrics.ObservePublish(err)
		if err != nil {
			log.Error("publish failed", "error", err)
			sess.AddError(fmt.Sprintf("publish: %s", err))
			status = StatusPartial
		} else {
			sess.setPublished(ps)
		}
	}

	sess.SetStatus(status, "done")
	w.metrics.ObserveAnalysis(string(status), time.Since(start), res.CountByType())
}

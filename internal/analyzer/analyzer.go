// Package analyzer turns processed documents into a career graph: typed,
// dated, positioned and connected nodes plus a chronological timeline.
package analyzer

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/careermap/internal/classify"
	"github.com/dgallion1/careermap/internal/model"
	"github.com/dgallion1/careermap/internal/profile"
	"github.com/dgallion1/careermap/internal/segment"
)

var (
	// ErrNodeNotFound is returned by UpdateNode for an unknown id.
	ErrNodeNotFound = errors.New("node not found")
	// ErrInvalidPatch is returned by UpdateNode for an empty or malformed patch.
	ErrInvalidPatch = errors.New("invalid node patch")
)

// Analyzer runs the extraction pipeline with one profile. It holds no
// per-run state and is safe for concurrent use.
type Analyzer struct {
	profile profile.Profile
	set     *classify.Set
	log     *slog.Logger
	workers int
	newID   func() string
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger. The default discards output.
func WithLogger(log *slog.Logger) Option {
	return func(a *Analyzer) { a.log = log }
}

// WithWorkers bounds per-document classification parallelism.
func WithWorkers(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.workers = n
		}
	}
}

// WithIDGenerator replaces the random node id generator.
func WithIDGenerator(f func() string) Option {
	return func(a *Analyzer) {
		if f != nil {
			a.newID = f
		}
	}
}

// New creates an analyzer for p.
func New(p profile.Profile, opts ...Option) *Analyzer {
	a := &Analyzer{
		profile: p,
		set:     classify.NewSet(p),
		log:     slog.New(slog.DiscardHandler),
		workers: p.Workers,
		newID:   uuid.NewString,
	}
	if a.workers <= 0 {
		a.workers = runtime.GOMAXPROCS(0)
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Profile returns the profile the analyzer was built with.
func (a *Analyzer) Profile() profile.Profile {
	return a.profile
}

// Stats summarizes one run.
type Stats struct {
	Profile    string        `json:"profile"`
	Documents  int           `json:"documents"`
	Segments   int           `json:"segments"`
	Truncated  bool          `json:"truncated"`
	Candidates int           `json:"candidates"`
	Nodes      int           `json:"nodes"`
	Merged     int           `json:"merged"`
	Edges      int           `json:"edges"`
	Events     int           `json:"events"`
	Duration   time.Duration `json:"duration"`
}

// hit is an accepted candidate with the segment it came from.
type hit struct {
	seg  segment.Segment
	cand classify.Candidate
}

// Analyze extracts the career graph from docs. An empty document list or
// documents without recognizable content give an empty result, not an error.
// The only error is cancellation of ctx.
func (a *Analyzer) Analyze(ctx context.Context, docs []model.ProcessedDocument) (model.AnalysisResult, error) {
	res, _, err := a.AnalyzeWithStats(ctx, docs)
	return res, err
}

// AnalyzeWithStats is Analyze plus a summary of the run.
func (a *Analyzer) AnalyzeWithStats(ctx context.Context, docs []model.ProcessedDocument) (model.AnalysisResult, Stats, error) {
	return a.run(ctx, docs, nil)
}

// Reanalyze runs the pipeline again and carries node ids, user positions
// and user edits over from prev. Nodes of prev that are no longer found are
// kept.
func (a *Analyzer) Reanalyze(ctx context.Context, docs []model.ProcessedDocument, prev model.AnalysisResult) (model.AnalysisResult, Stats, error) {
	return a.run(ctx, docs, &prev)
}

func (a *Analyzer) run(ctx context.Context, docs []model.ProcessedDocument, prev *model.AnalysisResult) (model.AnalysisResult, Stats, error) {
	start := time.Now()
	stats := Stats{Profile: a.profile.Name, Documents: len(docs)}

	segs, truncated := a.normalize(docs)
	stats.Truncated = truncated
	for _, s := range segs {
		stats.Segments += len(s)
	}

	hits, err := a.classify(ctx, segs)
	if err != nil {
		return model.NewResult(), stats, err
	}
	stats.Candidates = len(hits)
	hits = suppressCoveredLines(hits)

	groups := a.merge(hits)
	stats.Merged = len(hits) - len(groups)

	res := model.NewResult()
	for _, g := range groups {
		res.Nodes = append(res.Nodes, g.node)
	}
	stats.Edges = connect(res.Nodes, groups, a.profile.AdjacencyMonths)

	if prev != nil {
		res.Nodes = reconcile(res.Nodes, prev.Nodes, a.profile.MergeSimilarity)
	}

	res.Timeline = BuildTimeline(res.Nodes)
	Layout(res.Nodes, a.profile.Layout)
	if n := res.DropDanglingConnections(); n > 0 {
		a.log.Warn("dropped dangling connections", "count", n)
	}

	stats.Nodes = len(res.Nodes)
	stats.Events = len(res.Timeline.Events)
	stats.Duration = time.Since(start)
	a.log.Info("analysis complete",
		"profile", stats.Profile,
		"documents", stats.Documents,
		"segments", stats.Segments,
		"candidates", stats.Candidates,
		"nodes", stats.Nodes,
		"merged", stats.Merged,
		"edges", stats.Edges,
		"duration_ms", stats.Duration.Milliseconds(),
	)
	return res, stats, nil
}

// normalize segments every document within the profile's segment budget.
// Documents past the budget contribute nothing.
func (a *Analyzer) normalize(docs []model.ProcessedDocument) ([][]segment.Segment, bool) {
	out := make([][]segment.Segment, len(docs))
	remaining := a.profile.MaxSegments
	for i, doc := range docs {
		if remaining <= 0 {
			a.log.Warn("segment budget exhausted", "skipped_from", doc.FileName, "budget", a.profile.MaxSegments)
			return out, true
		}
		segs, cut := segment.Normalize(doc, i, segment.Config{
			MaxSegments:      remaining,
			MaxSegmentLength: a.profile.MaxSegmentLength,
		})
		out[i] = segs
		remaining -= len(segs)
		if cut {
			a.log.Warn("segment budget exhausted", "truncated", doc.FileName, "budget", a.profile.MaxSegments)
			return out, true
		}
	}
	return out, false
}

// classify scores each document's segments in parallel. Every goroutine
// writes only its own slot, and the flattened result is in document then
// segment order regardless of scheduling.
func (a *Analyzer) classify(ctx context.Context, segs [][]segment.Segment) ([]hit, error) {
	perDoc := make([][]hit, len(segs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i := range segs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var hits []hit
			for _, seg := range segs[i] {
				for _, c := range a.set.Classify(seg) {
					hits = append(hits, hit{seg: seg, cand: c})
				}
			}
			perDoc[i] = hits
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var out []hit
	for _, h := range perDoc {
		out = append(out, h...)
	}
	return out, nil
}

// suppressCoveredLines drops a line candidate when a sentence candidate of
// the same type covers its line, keeping the fuller sentence.
func suppressCoveredLines(hits []hit) []hit {
	type key struct {
		doc  int
		typ  model.NodeType
		line int
	}
	covered := make(map[key]bool)
	for _, h := range hits {
		if h.seg.Kind != segment.KindSentence {
			continue
		}
		for l := h.seg.FirstLine; l <= h.seg.LastLine; l++ {
			covered[key{h.seg.DocIndex, h.cand.Type, l}] = true
		}
	}
	if len(covered) == 0 {
		return hits
	}
	out := hits[:0:0]
	for _, h := range hits {
		if h.seg.Kind == segment.KindLine && covered[key{h.seg.DocIndex, h.cand.Type, h.seg.FirstLine}] {
			continue
		}
		out = append(out, h)
	}
	return out
}

package metrics

import (
	"slices"
	"sync"
	"time"
)

type run struct {
	at       time.Time
	duration time.Duration
	nodes    int
}

// Snapshot aggregates the analysis runs inside the window.
type Snapshot struct {
	Count    int     `json:"count"`
	MinMs    int64   `json:"min_ms"`
	MaxMs    int64   `json:"max_ms"`
	AvgMs    float64 `json:"avg_ms"`
	P50Ms    float64 `json:"p50_ms"`
	P95Ms    float64 `json:"p95_ms"`
	P99Ms    float64 `json:"p99_ms"`
	AvgNodes float64 `json:"avg_nodes"`
	Window   string  `json:"window"`
}

// Latency keeps analysis durations for a rolling window.
type Latency struct {
	mu     sync.Mutex
	runs   []run
	window time.Duration
	now    func() time.Time
}

func NewLatency(window time.Duration) *Latency {
	if window <= 0 {
		window = time.Hour
	}
	return &Latency{
		runs:   make([]run, 0, 256),
		window: window,
		now:    time.Now,
	}
}

// Record adds one analysis run that produced nodes nodes.
func (l *Latency) Record(d time.Duration, nodes int) {
	if d < 0 {
		d = 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.pruneLocked(now)
	l.runs = append(l.runs, run{at: now, duration: d, nodes: nodes})
}

func (l *Latency) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pruneLocked(l.now())
	snap := Snapshot{Window: l.window.String()}
	if len(l.runs) == 0 {
		return snap
	}

	ms := make([]int64, len(l.runs))
	var sum int64
	var nodes int
	for i, r := range l.runs {
		ms[i] = r.duration.Milliseconds()
		sum += ms[i]
		nodes += r.nodes
	}
	slices.Sort(ms)

	n := float64(len(ms))
	snap.Count = len(ms)
	snap.MinMs = ms[0]
	snap.MaxMs = ms[len(ms)-1]
	snap.AvgMs = float64(sum) / n
	snap.P50Ms = percentile(ms, 50)
	snap.P95Ms = percentile(ms, 95)
	snap.P99Ms = percentile(ms, 99)
	snap.AvgNodes = float64(nodes) / n
	return snap
}

// pruneLocked drops runs older than the window. Runs are appended in time
// order, so the expired ones form a prefix.
func (l *Latency) pruneLocked(now time.Time) {
	cutoff := now.Add(-l.window)
	i := 0
	for i < len(l.runs) && l.runs[i].at.Before(cutoff) {
		i++
	}
	if i > 0 {
		l.runs = append(l.runs[:0], l.runs[i:]...)
	}
}

// percentile interpolates linearly between the closest ranks.
func percentile(sorted []int64, pct float64) float64 {
	switch {
	case len(sorted) == 0:
		return 0
	case pct <= 0:
		return float64(sorted[0])
	case pct >= 100:
		return float64(sorted[len(sorted)-1])
	}

	idx := float64(len(sorted)-1) * pct / 100
	lower := int(idx)
	if lower+1 >= len(sorted) {
		return float64(sorted[lower])
	}
	lo, hi := float64(sorted[lower]), float64(sorted[lower+1])
	return lo + (hi-lo)*(idx-float64(lower))
}

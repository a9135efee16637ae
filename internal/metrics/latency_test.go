package metrics

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestLatency(window time.Duration) (*Latency, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
	l := NewLatency(window)
	l.now = clock.now
	return l, clock
}

func TestLatencySnapshotPercentiles(t *testing.T) {
	l, _ := newTestLatency(time.Hour)
	for i := 1; i <= 5; i++ {
		l.Record(time.Duration(i*100)*time.Millisecond, i*2)
	}

	snap := l.Snapshot()
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.MinMs != 100 || snap.MaxMs != 500 {
		t.Fatalf("expected min=100 max=500, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Ms)
	}
	if snap.P95Ms != 480 {
		t.Fatalf("expected p95=480, got %f", snap.P95Ms)
	}
	if snap.P99Ms != 496 {
		t.Fatalf("expected p99=496, got %f", snap.P99Ms)
	}
	if snap.AvgNodes != 6 {
		t.Fatalf("expected avg nodes=6, got %f", snap.AvgNodes)
	}
	if snap.Window != "1h0m0s" {
		t.Fatalf("expected window 1h0m0s, got %q", snap.Window)
	}
}

func TestLatencyPrunesExpiredRuns(t *testing.T) {
	l, clock := newTestLatency(10 * time.Minute)
	l.Record(100*time.Millisecond, 1)
	clock.t = clock.t.Add(11 * time.Minute)

	if snap := l.Snapshot(); snap.Count != 0 {
		t.Fatalf("expected count=0 after prune, got %d", snap.Count)
	}

	l.Record(200*time.Millisecond, 1)
	snap := l.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected count=1 for fresh run, got %d", snap.Count)
	}
	if snap.MinMs != 200 || snap.MaxMs != 200 {
		t.Fatalf("expected min=max=200, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
}

func TestLatencyRecordClampsNegativeDuration(t *testing.T) {
	l, _ := newTestLatency(time.Hour)
	l.Record(-10*time.Millisecond, 0)
	snap := l.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected count=1, got %d", snap.Count)
	}
	if snap.MinMs != 0 || snap.MaxMs != 0 {
		t.Fatalf("expected clamped duration=0, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
}

func TestLatencyEmpty(t *testing.T) {
	l, _ := newTestLatency(0)
	snap := l.Snapshot()
	if snap.Count != 0 || snap.P99Ms != 0 {
		t.Fatalf("expected zero snapshot, got %+v", snap)
	}
}

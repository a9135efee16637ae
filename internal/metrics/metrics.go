// Package metrics exposes Prometheus collectors for the service and a rolling
// latency window for the analysis stats endpoint.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dgallion1/careermap/internal/model"
)

// Collector holds all Prometheus metrics for the service. Each collector owns
// its registry so tests can build as many as they like. A nil *Collector is
// valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	Analyses         *prometheus.CounterVec
	AnalysisDuration prometheus.Histogram
	NodesExtracted   *prometheus.CounterVec
	Documents        *prometheus.CounterVec
	QueueDepth       prometheus.Gauge
	Publishes        *prometheus.CounterVec
}

// NewCollector creates a collector with metrics under namespace.
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		Analyses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "analyses_total",
				Help:      "Analysis sessions finished, by final status",
			},
			[]string{"status"},
		),
		AnalysisDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "analysis_duration_seconds",
				Help:      "Time spent in the analysis pipeline",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
		),
		NodesExtracted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "nodes_extracted_total",
				Help:      "Nodes produced by analysis, by type",
			},
			[]string{"type"},
		),
		Documents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "documents_total",
				Help:      "Uploaded documents, by ingestion outcome",
			},
			[]string{"outcome"},
		),
		QueueDepth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "queue_depth",
				Help:      "Sessions waiting for a worker",
			},
		),
		Publishes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "publishes_total",
				Help:      "Pathstore publish attempts, by status",
			},
			[]string{"status"},
		),
	}

	c.registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.Analyses,
		c.AnalysisDuration,
		c.NodesExtracted,
		c.Documents,
		c.QueueDepth,
		c.Publishes,
		collectors.NewGoCollector(),
	)
	return c
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records one served request.
func (c *Collector) ObserveHTTP(method, route string, status int, d time.Duration) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveAnalysis records a finished analysis and the node types it produced.
func (c *Collector) ObserveAnalysis(status string, d time.Duration, counts map[model.NodeType]int) {
	if c == nil {
		return
	}
	c.Analyses.WithLabelValues(status).Inc()
	c.AnalysisDuration.Observe(d.Seconds())
	for t, n := range counts {
		c.NodesExtracted.WithLabelValues(string(t)).Add(float64(n))
	}
}

// ObserveDocuments records ingestion outcomes for one batch.
func (c *Collector) ObserveDocuments(ok, failed int) {
	if c == nil {
		return
	}
	c.Documents.WithLabelValues("ok").Add(float64(ok))
	c.Documents.WithLabelValues("failed").Add(float64(failed))
}

// SetQueueDepth reports the current queue length.
func (c *Collector) SetQueueDepth(n int) {
	if c == nil {
		return
	}
	c.QueueDepth.Set(float64(n))
}

// ObservePublish records a publish attempt.
func (c *Collector) ObservePublish(err error) {
	if c == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.Publishes.WithLabelValues(status).Inc()
}

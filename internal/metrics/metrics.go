// Package metrics provides Prometheus metrics for the verification engine
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for verification runs
type Metrics struct {
	// Run metrics
	RunsTotal   *prometheus.CounterVec
	RunDuration prometheus.Histogram

	// Matching metrics
	ContextsMatched    prometheus.Counter
	ContextsMissing    prometheus.Counter
	ContextsUnexpected prometheus.Counter

	// Report metrics
	MismatchesTotal     *prometheus.CounterVec
	SignaturesTruncated prometheus.Counter
}

// New creates and registers all metrics with the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stylecheck_verification_runs_total",
			Help: "Total verification runs by terminal status",
		}, []string{"status"}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "stylecheck_verification_run_duration_seconds",
			Help:    "Wall-clock duration of verification runs",
			Buckets: prometheus.DefBuckets,
		}),
		ContextsMatched: factory.NewCounter(prometheus.CounterOpts{
			Name: "stylecheck_contexts_matched_total",
			Help: "Template contexts paired with a document context",
		}),
		ContextsMissing: factory.NewCounter(prometheus.CounterOpts{
			Name: "stylecheck_contexts_missing_total",
			Help: "Template contexts with no document counterpart",
		}),
		ContextsUnexpected: factory.NewCounter(prometheus.CounterOpts{
			Name: "stylecheck_contexts_unexpected_total",
			Help: "Document contexts with no template counterpart",
		}),
		MismatchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stylecheck_mismatches_total",
			Help: "Reported mismatches by severity",
		}, []string{"severity"}),
		SignaturesTruncated: factory.NewCounter(prometheus.CounterOpts{
			Name: "stylecheck_signatures_truncated_total",
			Help: "Style signatures that hit the length cap",
		}),
	}
}

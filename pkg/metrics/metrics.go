// Package metrics provides Prometheus instruments for the reconciler.
//
// A *Metrics value is safe to use when nil; every recording method is a
// no-op on a nil receiver, so callers never need to guard instrumentation.
//
// Usage:
//
//	reg := prometheus.NewRegistry()
//	m := metrics.New(metrics.WithNamespace("app"), metrics.WithRegistry(reg))
//	c := diff.NewContainer(root, diff.WithMetrics(m))
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures the instruments.
type Config struct {
	// Namespace is the metric namespace (default: "reconcile").
	Namespace string

	// Subsystem is the metric subsystem (default: "").
	Subsystem string

	// ConstLabels are labels added to all metrics.
	ConstLabels prometheus.Labels

	// DiffBuckets are the histogram buckets for diff duration, in seconds.
	DiffBuckets []float64

	// Registry is the Prometheus registerer to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures metrics.
type Option func(*Config)

// WithNamespace sets the metric namespace.
func WithNamespace(ns string) Option {
	return func(c *Config) {
		c.Namespace = ns
	}
}

// WithSubsystem sets the metric subsystem.
func WithSubsystem(sub string) Option {
	return func(c *Config) {
		c.Subsystem = sub
	}
}

// WithConstLabels adds constant labels to all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithDiffBuckets sets the histogram buckets for diff duration.
func WithDiffBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.DiffBuckets = buckets
	}
}

// WithRegistry sets the Prometheus registerer.
func WithRegistry(reg prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = reg
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "reconcile",
		// Diff passes are in-memory walks, far below request latencies.
		DiffBuckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05, .1},
		Registry:    prometheus.DefaultRegisterer,
	}
}

// Metrics holds the reconciler instruments.
type Metrics struct {
	diffs        *prometheus.CounterVec
	diffDuration prometheus.Histogram
	journalOps   *prometheus.CounterVec
	commits      prometheus.Counter
	cleanups     prometheus.Counter
	renders      *prometheus.CounterVec
}

// New creates and registers the instruments. Registering twice against the
// same registry panics, as with any Prometheus collector.
func New(opts ...Option) *Metrics {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		diffs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   config.Namespace,
				Subsystem:   config.Subsystem,
				Name:        "diff_total",
				Help:        "Total number of diff passes by result",
				ConstLabels: config.ConstLabels,
			},
			[]string{"result"},
		),
		diffDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace:   config.Namespace,
				Subsystem:   config.Subsystem,
				Name:        "diff_duration_seconds",
				Help:        "Time from diff start until the pass drained",
				ConstLabels: config.ConstLabels,
				Buckets:     config.DiffBuckets,
			},
		),
		journalOps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   config.Namespace,
				Subsystem:   config.Subsystem,
				Name:        "journal_ops_total",
				Help:        "Total number of committed journal operations by opcode",
				ConstLabels: config.ConstLabels,
			},
			[]string{"op"},
		),
		commits: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace:   config.Namespace,
				Subsystem:   config.Subsystem,
				Name:        "commits_total",
				Help:        "Total number of journal commits",
				ConstLabels: config.ConstLabels,
			},
		),
		cleanups: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace:   config.Namespace,
				Subsystem:   config.Subsystem,
				Name:        "cleanup_nodes_total",
				Help:        "Total number of discarded nodes handed to cleanup",
				ConstLabels: config.ConstLabels,
			},
		),
		renders: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   config.Namespace,
				Subsystem:   config.Subsystem,
				Name:        "component_renders_total",
				Help:        "Total number of component renders by kind",
				ConstLabels: config.ConstLabels,
			},
			[]string{"kind"},
		),
	}
}

// ObserveDiff records a finished diff pass. result is "sync", "pending" or
// "rejected".
func (m *Metrics) ObserveDiff(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.diffs.WithLabelValues(result).Inc()
	m.diffDuration.Observe(d.Seconds())
}

// RecordOps adds n committed operations of kind op.
func (m *Metrics) RecordOps(op string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.journalOps.WithLabelValues(op).Add(float64(n))
}

// RecordCommit records one journal commit.
func (m *Metrics) RecordCommit() {
	if m == nil {
		return
	}
	m.commits.Inc()
}

// RecordCleanup records n nodes handed to cleanup.
func (m *Metrics) RecordCleanup(n int) {
	if m == nil || n == 0 {
		return
	}
	m.cleanups.Add(float64(n))
}

// RecordRender records a component render. kind is "stateful" or "inline".
func (m *Metrics) RecordRender(kind string) {
	if m == nil {
		return
	}
	m.renders.WithLabelValues(kind).Inc()
}

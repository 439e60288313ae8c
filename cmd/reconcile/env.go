package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"

	"github.com/vango-dev/reconcile/internal/config"
	"github.com/vango-dev/reconcile/internal/fixture"
	"github.com/vango-dev/reconcile/pkg/diff"
	"github.com/vango-dev/reconcile/pkg/dom"
	"github.com/vango-dev/reconcile/pkg/journal"
	"github.com/vango-dev/reconcile/pkg/metrics"
	"github.com/vango-dev/reconcile/pkg/scheduler"
)

type globalOptions struct {
	configPath string
	logLevel   string
	noColor    bool
}

// env is everything a command needs to run fixtures.
type env struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	source   fixture.Source
}

func loadEnv(opts *globalOptions, stderr io.Writer) (*env, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFile(opts.configPath)
	} else {
		cfg, err = config.LoadFromWorkingDir()
	}
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &env{
		cfg:      cfg,
		logger:   cfg.NewLogger(stderr),
		registry: prometheus.NewRegistry(),
		source:   fixture.FromConfig(cfg),
	}
	if cfg.Metrics.Enabled {
		e.metrics = metrics.New(
			metrics.WithNamespace(cfg.Metrics.Namespace),
			metrics.WithRegistry(e.registry),
		)
	}
	return e, nil
}

// container creates a container over body.
func (e *env) container(body *dom.Element, extra ...diff.Option) *diff.Container {
	opts := []diff.Option{
		diff.WithLogger(e.logger.With("component", "reconcile")),
		diff.WithMetrics(e.metrics),
		diff.WithRuntime(scheduler.New(e.logger)),
	}
	if e.cfg.Tracing.Enabled {
		opts = append(opts, diff.WithTracer(otel.Tracer(e.cfg.Tracing.Tracer)))
	}
	return diff.NewContainer(body, append(opts, extra...)...)
}

func newBody() *dom.Element {
	return dom.NewDocument().CreateElement("body")
}

// step diffs tree i of doc into c. The journal is left uncommitted.
func step(ctx context.Context, c *diff.Container, doc *fixture.Document, i int, timeout time.Duration) error {
	tree, err := doc.Tree(i)
	if err != nil {
		return err
	}
	fut := c.Diff(ctx, tree, nil)
	if fut == nil {
		return nil
	}
	wctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if _, err := fut.Wait(wctx); err != nil {
		c.Discard()
		return err
	}
	return nil
}

// describe renders the pending journal of c as frame seq.
func describe(c *diff.Container, seq uint64) string {
	frame, err := journal.Decode(journal.Encode(seq, c.Journal()))
	if err != nil {
		return err.Error()
	}
	return frame.String()
}

package diff

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/reconcile/pkg/async"
	"github.com/vango-dev/reconcile/pkg/dom"
	"github.com/vango-dev/reconcile/pkg/journal"
	"github.com/vango-dev/reconcile/pkg/metrics"
	"github.com/vango-dev/reconcile/pkg/vnode"
)

const defaultTracerName = "reconcile"

// CommitObserver is notified before a journal is replayed. The journal must
// not be modified.
type CommitObserver interface {
	ObserveCommit(seq uint64, j *journal.Journal)
}

// AppliedObserver is implemented by commit observers that also want to know
// when a journal has been replayed. ObserveApplied runs on the committing
// goroutine, so the persistent tree and the surface may be read.
type AppliedObserver interface {
	ObserveApplied(seq uint64)
}

// Container owns a persistent tree, the journal that edits it and the
// collaborators a diff needs.
//
// A Container is not safe for concurrent use. Diff, the continuations of the
// future it returns, and Commit must be serialized by the caller.
type Container struct {
	doc     *dom.Document
	root    *vnode.VNode
	journal *journal.Journal

	scheduler ComponentScheduler
	executor  ComponentExecutor
	cleaner   Cleaner
	tracker   SignalTracker
	resolve   vnode.Resolver

	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
	observers []CommitObserver

	seq         uint64
	unprojected []*vnode.VNode
}

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Container) {
		c.logger = l
	}
}

// WithMetrics sets the Prometheus instruments.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Container) {
		c.metrics = m
	}
}

// WithTracer sets the tracer. The default is the global provider's
// "reconcile" tracer.
func WithTracer(t trace.Tracer) Option {
	return func(c *Container) {
		c.tracer = t
	}
}

// WithRuntime sets every collaborator from one value.
func WithRuntime(rt Runtime) Option {
	return func(c *Container) {
		c.scheduler = rt
		c.executor = rt
		c.cleaner = rt
		c.tracker = rt
	}
}

// WithScheduler sets the stateful component scheduler.
func WithScheduler(s ComponentScheduler) Option {
	return func(c *Container) {
		c.scheduler = s
	}
}

// WithExecutor sets the inline component executor.
func WithExecutor(e ComponentExecutor) Option {
	return func(c *Container) {
		c.executor = e
	}
}

// WithCleaner sets the hook called for discarded nodes.
func WithCleaner(cl Cleaner) Option {
	return func(c *Container) {
		c.cleaner = cl
	}
}

// WithTracker sets the signal tracker.
func WithTracker(t SignalTracker) Option {
	return func(c *Container) {
		c.tracker = t
	}
}

// WithResolver sets the resolver for property references.
func WithResolver(r vnode.Resolver) Option {
	return func(c *Container) {
		c.resolve = r
	}
}

// WithObserver adds a commit observer.
func WithObserver(o CommitObserver) Option {
	return func(c *Container) {
		c.observers = append(c.observers, o)
	}
}

// NewContainer creates a container over root. Existing markup under root is
// adopted lazily.
func NewContainer(root *dom.Element, opts ...Option) *Container {
	c := &Container{
		doc:       dom.NewDocument(),
		root:      vnode.FromDOM(root),
		journal:   journal.New(),
		scheduler: direct{},
		executor:  direct{},
		cleaner:   direct{},
		tracker:   direct{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default().With("component", "reconcile")
	}
	if c.tracer == nil {
		c.tracer = otel.Tracer(defaultTracerName)
	}
	return c
}

// Root returns the persistent node for the root element.
func (c *Container) Root() *vnode.VNode { return c.root }

// Journal returns the pending journal.
func (c *Container) Journal() *journal.Journal { return c.journal }

// Document returns the document new surface nodes are created in.
func (c *Container) Document() *dom.Document { return c.doc }

// Logger returns the container's logger.
func (c *Container) Logger() *slog.Logger { return c.logger }

// Resolver returns the property reference resolver, which may be nil.
func (c *Container) Resolver() vnode.Resolver { return c.resolve }

// Unprojected returns the projection buckets of the last completed diff
// that no slot claimed. They are kept off-tree so a later render can still
// place them.
func (c *Container) Unprojected() []*vnode.VNode { return c.unprojected }

// Diff reconciles the children of anchor (the root when nil) against tree,
// appending the required edits to the journal.
//
// Diff returns nil when the whole tree, including resolved futures, was
// walked synchronously. Otherwise the returned future resolves once every
// deferred value has been diffed, or rejects with R006 when one of them
// rejected, in which case the journal must be discarded.
//
// Contract violations such as unsupported values panic.
func (c *Container) Diff(ctx context.Context, tree any, anchor *vnode.VNode) *async.Future {
	if anchor == nil {
		anchor = c.root
	}
	ctx, span := c.tracer.Start(ctx, "reconcile.diff",
		trace.WithAttributes(attribute.String("vnode.anchor", fmt.Sprintf("#%d", anchor.ID()))))
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			if err, ok := r.(error); ok {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}
			span.End()
			panic(r)
		}
	}()

	w := newWalker(ctx, c)
	w.diff(tree, anchor)
	fut := w.drain()
	if fut == nil {
		c.finish(w, span, start, "sync", nil)
		return nil
	}

	span.SetAttributes(attribute.Bool("diff.pending", true))
	fut.Then(func(_ any, err error) {
		result := "pending"
		if err != nil {
			result = "rejected"
		}
		c.finish(w, span, start, result, err)
	})
	return fut
}

// Diff is the package-level form of (*Container).Diff.
func Diff(ctx context.Context, c *Container, tree any, anchor *vnode.VNode) *async.Future {
	return c.Diff(ctx, tree, anchor)
}

func (c *Container) finish(w *walker, span trace.Span, start time.Time, result string, err error) {
	defer span.End()
	elapsed := time.Since(start)
	c.unprojected = w.unprojected()
	c.metrics.ObserveDiff(result, elapsed)
	if err == nil {
		w.flushCleanup()
	}
	span.SetAttributes(attribute.Int("journal.entries", c.journal.Len()))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Warn("diff rejected", "error", err, "duration", elapsed)
		return
	}
	span.SetStatus(codes.Ok, "")
	c.logger.Debug("diff complete",
		"result", result,
		"entries", c.journal.Len(),
		"unprojected", len(c.unprojected),
		"duration", elapsed)
}

// Commit replays the journal against the persistent tree and the surface,
// then clears it. It returns the commit sequence number.
func (c *Container) Commit(ctx context.Context) uint64 {
	_, span := c.tracer.Start(ctx, "reconcile.commit")
	defer span.End()

	c.seq++
	ops := c.journal.Ops()
	counts := make(map[journal.OpCode]int)
	for _, op := range ops {
		counts[op.Code]++
	}
	for code, n := range counts {
		c.metrics.RecordOps(code.String(), n)
	}
	span.SetAttributes(
		attribute.Int64("commit.seq", int64(c.seq)),
		attribute.Int("journal.ops", len(ops)),
	)

	for _, o := range c.observers {
		o.ObserveCommit(c.seq, c.journal)
	}
	journal.Apply(c.journal)
	for _, o := range c.observers {
		if ao, ok := o.(AppliedObserver); ok {
			ao.ObserveApplied(c.seq)
		}
	}
	c.metrics.RecordCommit()
	c.logger.Debug("journal committed", "seq", c.seq, "ops", len(ops))
	return c.seq
}

// Discard drops the pending journal without replaying it.
func (c *Container) Discard() {
	c.journal.Reset()
}

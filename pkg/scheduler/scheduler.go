// Package scheduler is the default component runtime for diff containers.
//
// A Scheduler renders stateful components, runs inline components, records
// which signals each host read and releases per-host state when the
// reconciler discards a node. Renders requested for the same host before
// the host is drained collapse into one, using the latest props.
//
// Usage:
//
//	s := scheduler.New(logger)
//	c := diff.NewContainer(body, diff.WithRuntime(s))
package scheduler

import (
	"context"
	"log/slog"
	"sync"

	"github.com/vango-dev/reconcile/pkg/diff"
	"github.com/vango-dev/reconcile/pkg/jsx"
	"github.com/vango-dev/reconcile/pkg/qrl"
	"github.com/vango-dev/reconcile/pkg/vnode"
)

var _ diff.Runtime = (*Scheduler)(nil)

type task struct {
	ref   *qrl.QRL
	props jsx.Props
}

// Scheduler implements diff.Runtime.
type Scheduler struct {
	logger *slog.Logger
	ctx    context.Context

	mu       sync.Mutex
	pending  map[*vnode.VNode]task
	tracked  map[*vnode.VNode][]jsx.Signal
	cleanups map[*vnode.VNode][]func()
	renders  uint64
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithContext sets the context used to load component references.
func WithContext(ctx context.Context) Option {
	return func(s *Scheduler) {
		s.ctx = ctx
	}
}

// New creates a Scheduler. A nil logger uses slog.Default.
func New(logger *slog.Logger, opts ...Option) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scheduler{
		logger:   logger.With("component", "scheduler"),
		ctx:      context.Background(),
		pending:  make(map[*vnode.VNode]task),
		tracked:  make(map[*vnode.VNode][]jsx.Signal),
		cleanups: make(map[*vnode.VNode][]func()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScheduleComponent records a render of ref with props for host. A render
// already pending for host is replaced.
func (s *Scheduler) ScheduleComponent(host *vnode.VNode, ref *qrl.QRL, props jsx.Props) diff.ComponentDrain {
	s.mu.Lock()
	if _, ok := s.pending[host]; ok {
		s.logger.Debug("render coalesced", "host", host.ID(), "ref", ref.String())
	}
	s.pending[host] = task{ref: ref, props: props}
	s.mu.Unlock()
	return s
}

// DrainComponent runs the render pending for host. It returns nil when
// nothing is pending.
func (s *Scheduler) DrainComponent(host *vnode.VNode) any {
	s.mu.Lock()
	t, ok := s.pending[host]
	delete(s.pending, host)
	if ok {
		s.renders++
	}
	s.mu.Unlock()
	if !ok {
		return nil
	}
	s.logger.Debug("render component", "host", host.ID(), "ref", t.ref.String())
	return diff.RenderComponent(s.ctx, t.ref, t.props)
}

// ExecuteComponent runs an inline component.
func (s *Scheduler) ExecuteComponent(_ *diff.Container, host, renderHost *vnode.VNode, fn jsx.FuncComponent, props jsx.Props, children []any) any {
	if renderHost != nil {
		s.logger.Debug("execute inline component", "host", host.ID(), "owner", renderHost.ID())
	}
	return fn(props, children)
}

// Track reads sig on behalf of host.
func (s *Scheduler) Track(sig jsx.Signal, host *vnode.VNode) any {
	s.mu.Lock()
	s.tracked[host] = append(s.tracked[host], sig)
	s.mu.Unlock()
	return sig.Value()
}

// Tracked returns the signals host has read.
func (s *Scheduler) Tracked(host *vnode.VNode) []jsx.Signal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracked[host]
}

// OnCleanup registers fn to run when host is discarded.
func (s *Scheduler) OnCleanup(host *vnode.VNode, fn func()) {
	s.mu.Lock()
	s.cleanups[host] = append(s.cleanups[host], fn)
	s.mu.Unlock()
}

// Cleanup drops everything recorded for v and runs its cleanup functions,
// most recently registered first.
func (s *Scheduler) Cleanup(v *vnode.VNode) {
	s.mu.Lock()
	fns := s.cleanups[v]
	delete(s.cleanups, v)
	delete(s.tracked, v)
	delete(s.pending, v)
	s.mu.Unlock()

	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}

// Renders returns the number of component renders run.
func (s *Scheduler) Renders() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renders
}

package diff

import (
	"context"
	"fmt"

	"github.com/vango-dev/reconcile/internal/errors"
	"github.com/vango-dev/reconcile/pkg/async"
	"github.com/vango-dev/reconcile/pkg/jsx"
	"github.com/vango-dev/reconcile/pkg/qrl"
	"github.com/vango-dev/reconcile/pkg/vnode"
)

// ComponentScheduler schedules a stateful component render for a host.
type ComponentScheduler interface {
	ScheduleComponent(host *vnode.VNode, ref *qrl.QRL, props jsx.Props) ComponentDrain
}

// ComponentDrain yields the output of the renders scheduled for a host. The
// result is a declarative tree or a *async.Future of one.
type ComponentDrain interface {
	DrainComponent(host *vnode.VNode) any
}

// ComponentExecutor runs an inline function component. renderHost is the
// nearest enclosing stateful component host, or nil.
type ComponentExecutor interface {
	ExecuteComponent(c *Container, host, renderHost *vnode.VNode, fn jsx.FuncComponent, props jsx.Props, children []any) any
}

// Cleaner releases resources attached to a discarded node.
type Cleaner interface {
	Cleanup(v *vnode.VNode)
}

// SignalTracker reads a signal on behalf of host, subscribing host to future
// changes.
type SignalTracker interface {
	Track(sig jsx.Signal, host *vnode.VNode) any
}

// Runtime bundles every collaborator. scheduler.Scheduler implements it.
type Runtime interface {
	ComponentScheduler
	ComponentExecutor
	Cleaner
	SignalTracker
}

// direct is the Runtime used when none is configured. It renders
// components immediately and tracks nothing.
type direct struct{}

type directDrain struct {
	ref   *qrl.QRL
	props jsx.Props
}

func (direct) ScheduleComponent(_ *vnode.VNode, ref *qrl.QRL, props jsx.Props) ComponentDrain {
	return directDrain{ref: ref, props: props}
}

func (d directDrain) DrainComponent(*vnode.VNode) any {
	return RenderComponent(context.Background(), d.ref, d.props)
}

func (direct) ExecuteComponent(_ *Container, _, _ *vnode.VNode, fn jsx.FuncComponent, props jsx.Props, children []any) any {
	return fn(props, children)
}

func (direct) Cleanup(*vnode.VNode) {}

func (direct) Track(sig jsx.Signal, _ *vnode.VNode) any {
	return sig.Value()
}

// RenderComponent resolves ref and calls the render function with props. A
// resolved reference renders synchronously. An unresolved one loads on a
// new goroutine and the output is returned as a *async.Future.
//
// Load failures reject with R007; a reference resolving to anything other
// than a render function rejects with R005.
func RenderComponent(ctx context.Context, ref *qrl.QRL, props jsx.Props) any {
	if ref == nil {
		return async.Rejected(errors.New(errors.ErrRenderFnMissing).WithDetail("component has no reference"))
	}
	if ref.Resolved() {
		out, err := render(ctx, ref, props)
		if err != nil {
			return async.Rejected(err)
		}
		return out
	}
	fut := async.New()
	go func() {
		out, err := render(ctx, ref, props)
		if err != nil {
			fut.Reject(err)
			return
		}
		fut.Resolve(out)
	}()
	return fut
}

func render(ctx context.Context, ref *qrl.QRL, props jsx.Props) (any, error) {
	v, err := ref.Resolve(ctx)
	if err != nil {
		return nil, errors.New(errors.ErrRenderFailed).Wrap(err)
	}
	switch fn := v.(type) {
	case jsx.ComponentFunc:
		return fn(props), nil
	case func(jsx.Props) any:
		return fn(props), nil
	default:
		return nil, errors.New(errors.ErrRenderFnMissing).
			WithDetail(fmt.Sprintf("%s resolved to %T", ref, v))
	}
}

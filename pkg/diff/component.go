package diff

import (
	"sort"

	"github.com/vango-dev/reconcile/internal/errors"
	"github.com/vango-dev/reconcile/pkg/journal"
	"github.com/vango-dev/reconcile/pkg/jsx"
	"github.com/vango-dev/reconcile/pkg/qrl"
	"github.com/vango-dev/reconcile/pkg/vnode"
)

// expectComponent reconciles a stateful component host. The host renders
// when its reference changed or its props are not shallow-equal to the
// stored ones. Children are distributed into projection buckets.
func (w *walker) expectComponent(n *jsx.Node) {
	w.expectVirtual(vnode.VirtualComponent, n.Key)
	host := w.target()

	shouldRender := false
	old, _ := host.GetProp(vnode.PropRenderFn, w.c.resolve).(*qrl.QRL)
	if old == nil || old.Hash() != n.Ref.Hash() {
		// The reference is read back during this pass by slot lookups, so
		// it is stored directly instead of journaled.
		host.SetProp(vnode.PropRenderFn, n.Ref)
		shouldRender = true
	}
	oldProps, _ := host.GetProp(vnode.PropProps, w.c.resolve).(jsx.Props)
	if !shallowEqual(n.Props, oldProps) {
		w.j.Props(host, vnode.PropProps, n.Props)
		shouldRender = true
	}

	if shouldRender {
		out := w.c.scheduler.ScheduleComponent(host, n.Ref, n.Props).DrainComponent(host)
		w.enqueue(out, host)
		w.c.metrics.RecordRender("stateful")
	}
	w.project(host, n.Children)
}

// expectInline runs an inline component and queues its output.
func (w *walker) expectInline(n *jsx.Node) {
	if n.Func == nil {
		panic(errors.New(errors.ErrUnsupportedNode).WithDetail("inline component without a function"))
	}
	w.expectVirtual(vnode.VirtualInlineComponent, n.Key)
	host := w.target()
	renderHost := vnode.ComponentHost(host, w.c.resolve)
	out := w.c.executor.ExecuteComponent(w.c, host, renderHost, n.Func, n.Props, n.Children)
	w.enqueue(out, host)
	w.c.metrics.RecordRender("inline")
}

// project groups children by assigned slot and queues each group against
// its bucket on host. Buckets whose slot got no children are emptied.
func (w *walker) project(host *vnode.VNode, children []any) {
	groups := make(map[string][]any)
	for _, child := range children {
		name := ""
		if n, ok := child.(*jsx.Node); ok {
			name = n.AssignedSlot()
		}
		groups[name] = append(groups[name], child)
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b := w.bucket(host, name)
		w.enqueue(groups[name], b)
	}

	for _, p := range host.Props() {
		b, ok := p.Value.(*vnode.VNode)
		if !ok || !w.isBucketOf(b, host) {
			continue
		}
		if _, used := groups[p.Key]; used {
			continue
		}
		w.buckets = append(w.buckets, b)
		w.enqueue([]any{}, b)
	}
}

// bucket returns the projection bucket for name on host, creating it.
// A bucket is stored directly on the host so slots rendered in this pass
// find it.
func (w *walker) bucket(host *vnode.VNode, name string) *vnode.VNode {
	if b, ok := host.GetProp(name, w.c.resolve).(*vnode.VNode); ok && w.isBucketOf(b, host) {
		w.buckets = append(w.buckets, b)
		return b
	}
	b := vnode.NewVirtual(host)
	b.SetProp(vnode.PropType, vnode.VirtualProjection)
	b.SetProp(vnode.PropSlot, name)
	b.SetProp(vnode.PropSlotParent, host)
	host.SetProp(name, b)
	w.buckets = append(w.buckets, b)
	return b
}

func (w *walker) isBucketOf(b, host *vnode.VNode) bool {
	if !w.isVirtual(b, vnode.VirtualProjection) {
		return false
	}
	sp, _ := b.GetProp(vnode.PropSlotParent, w.c.resolve).(*vnode.VNode)
	return sp == host
}

// expectSlot links the bucket projected into the slot at the cursor. With
// no bucket, the slot's default children render in a Slot virtual.
func (w *walker) expectSlot(n *jsx.Node) step {
	name := n.SlotName()
	host := vnode.ProjectionParentComponent(w.parent, w.c.resolve)
	var b *vnode.VNode
	if host != nil {
		if v, ok := host.GetProp(name, w.c.resolve).(*vnode.VNode); ok && w.isBucketOf(v, host) {
			b = v
		}
	}

	if b == nil {
		slot, _ := w.current.GetProp(vnode.PropSlot, w.c.resolve).(string)
		if !w.isVirtual(w.current, vnode.VirtualSlot) || slot != name {
			w.insertVirtual(vnode.VirtualSlot, "", map[string]any{vnode.PropSlot: name})
		}
		return w.descend(n.Children, true)
	}

	w.projected[b] = true
	if b == w.current {
		return stepConsumed
	}
	w.j.Insert(journal.OpInsert, w.parent, b, w.current)
	w.pending = b
	w.claimed[b] = true
	return stepConsumed
}

// expectProjection fills the bucket named by n on the enclosing component.
func (w *walker) expectProjection(n *jsx.Node) step {
	host := vnode.ComponentHost(w.parent, w.c.resolve)
	if host == nil {
		panic(errors.New(errors.ErrUnsupportedNode).WithDetail("projection outside a component"))
	}
	w.pending = w.bucket(host, n.SlotName())
	return w.descend(n.Children, true)
}

// unprojected returns the buckets met during the pass that no slot claimed
// and that are not linked anywhere.
func (w *walker) unprojected() []*vnode.VNode {
	var out []*vnode.VNode
	seen := make(map[*vnode.VNode]bool)
	for _, b := range w.buckets {
		if seen[b] || w.projected[b] || b.Linked() {
			continue
		}
		seen[b] = true
		out = append(out, b)
	}
	return out
}

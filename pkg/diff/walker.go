package diff

import (
	"context"
	"fmt"
	"strconv"

	"github.com/vango-dev/reconcile/internal/errors"
	"github.com/vango-dev/reconcile/pkg/async"
	"github.com/vango-dev/reconcile/pkg/journal"
	"github.com/vango-dev/reconcile/pkg/jsx"
	"github.com/vango-dev/reconcile/pkg/vnode"
)

// step is the outcome of reconciling one declarative value.
type step uint8

const (
	// stepConsumed: the value was matched to the node under the cursor.
	stepConsumed step = iota
	// stepDescended: a frame was pushed; the value completes when it pops.
	stepDescended
	// stepSkipped: the value produced nothing (an empty list).
	stepSkipped
)

// cursor is the position in the persistent tree.
type cursor struct {
	parent  *vnode.VNode
	current *vnode.VNode

	// pending is a node just inserted or moved before current. It is the
	// target of the value being reconciled and is cleared by advance.
	pending *vnode.VNode

	// siblings holds the not yet visited siblings once a keyed lookup ran.
	// sibIdx is -1 until then, and current is read from the buffer after.
	siblings []*vnode.VNode
	sibIdx   int
}

func (c *cursor) next() {
	switch {
	case c.sibIdx >= 0:
		c.sibIdx++
		if c.sibIdx < len(c.siblings) {
			c.current = c.siblings[c.sibIdx]
		} else {
			c.current = nil
		}
	case c.current != nil:
		c.current = c.current.Next()
	}
}

// frame is a list of declarative values being walked.
type frame struct {
	children []any
	idx      int

	// scope frames walk the children of a new parent and restore the
	// enclosing cursor when they pop.
	scope bool
	saved cursor
}

type job struct {
	value any
	host  *vnode.VNode
}

// walker runs one diff pass and the async continuations it leaves behind.
type walker struct {
	ctx context.Context
	c   *Container
	j   *journal.Journal

	cursor
	stack []frame
	queue []job

	// claimed holds projection buckets re-linked during this pass. They are
	// skipped wherever the old position still shows them.
	claimed   map[*vnode.VNode]bool
	projected map[*vnode.VNode]bool
	buckets   []*vnode.VNode
	discarded []*vnode.VNode
}

func newWalker(ctx context.Context, c *Container) *walker {
	return &walker{
		ctx:       ctx,
		c:         c,
		j:         c.journal,
		claimed:   make(map[*vnode.VNode]bool),
		projected: make(map[*vnode.VNode]bool),
	}
}

// diff reconciles the children of anchor against tree.
func (w *walker) diff(tree any, anchor *vnode.VNode) {
	w.cursor = cursor{parent: anchor, current: anchor.FirstChild(), sibIdx: -1}
	w.skipClaimed()
	w.stack = append(w.stack[:0], frame{children: asChildren(tree), scope: true})

	for len(w.stack) > 0 {
		top := &w.stack[len(w.stack)-1]
		if top.idx >= len(top.children) {
			if top.scope {
				w.expectNoMore()
			}
			w.ascend()
			continue
		}
		if w.parent == w.current {
			panic(errors.New(errors.ErrCursorInvariant).
				WithDetail(fmt.Sprintf("parent and current are both %s", w.parent.Tag())))
		}
		value := top.children[top.idx]
		switch w.reconcile(value) {
		case stepConsumed:
			w.stack[len(w.stack)-1].idx++
			w.advance()
		case stepSkipped:
			w.stack[len(w.stack)-1].idx++
		}
	}
}

func asChildren(tree any) []any {
	switch t := tree.(type) {
	case []any:
		return t
	case []*jsx.Node:
		return nodeList(t)
	default:
		return []any{tree}
	}
}

func nodeList(nodes []*jsx.Node) []any {
	out := make([]any, len(nodes))
	for i, n := range nodes {
		out[i] = n
	}
	return out
}

// descend pushes children. A scope descent enters the node the current
// value was matched to.
func (w *walker) descend(children []any, scope bool) step {
	if len(children) == 0 {
		if scope {
			w.expectNoChildren()
			return stepConsumed
		}
		return stepSkipped
	}
	f := frame{children: children, scope: scope}
	if scope {
		target := w.target()
		f.saved = w.cursor
		w.cursor = cursor{parent: target, current: target.FirstChild(), sibIdx: -1}
		w.skipClaimed()
	}
	w.stack = append(w.stack, f)
	return stepDescended
}

func (w *walker) ascend() {
	f := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]
	if f.scope {
		w.cursor = f.saved
	}
	if len(w.stack) == 0 {
		return
	}
	w.stack[len(w.stack)-1].idx++
	if f.scope {
		w.advance()
	}
}

// target is the node the value being reconciled was matched to.
func (w *walker) target() *vnode.VNode {
	if w.pending != nil {
		return w.pending
	}
	return w.current
}

func (w *walker) advance() {
	if w.pending != nil {
		w.pending = nil
		return
	}
	w.next()
	w.skipClaimed()
}

func (w *walker) skipClaimed() {
	for w.current != nil && w.claimed[w.current] {
		w.next()
	}
}

func (w *walker) reconcile(value any) step {
	switch v := value.(type) {
	case nil:
		w.expectText("")
	case bool:
		w.expectText("")
	case string:
		w.expectText(v)
	case int:
		w.expectText(strconv.Itoa(v))
	case int8, int16, int32, int64:
		w.expectText(fmt.Sprint(v))
	case uint, uint8, uint16, uint32, uint64:
		w.expectText(fmt.Sprint(v))
	case float32:
		w.expectText(strconv.FormatFloat(float64(v), 'g', -1, 32))
	case float64:
		w.expectText(strconv.FormatFloat(v, 'g', -1, 64))
	case []any:
		return w.descend(v, false)
	case []*jsx.Node:
		return w.descend(nodeList(v), false)
	case *async.Future:
		w.expectVirtual(vnode.VirtualAwaited, "")
		w.enqueue(v, w.target())
	case *jsx.Node:
		if v == nil {
			w.expectText("")
			return stepConsumed
		}
		return w.reconcileNode(v)
	case jsx.Signal:
		w.expectVirtual(vnode.VirtualDerivedSignal, "")
		host := w.target()
		return w.descend([]any{w.c.tracker.Track(v, host)}, true)
	default:
		panic(errors.New(errors.ErrUnsupportedValue).WithDetail(fmt.Sprintf("value of type %T", value)))
	}
	return stepConsumed
}

func (w *walker) reconcileNode(n *jsx.Node) step {
	switch n.Type {
	case jsx.TypeElement:
		w.expectNoMoreTextNodes()
		w.expectElement(n)
		diffAttributes(w.j, w.target(), sourceProps(n), w.c.resolve, w.c.logger)
		return w.descend(n.Children, true)
	case jsx.TypeFragment:
		w.expectNoMoreTextNodes()
		w.expectVirtual(vnode.VirtualFragment, n.Key)
		return w.descend(n.Children, true)
	case jsx.TypeSlot:
		w.expectNoMoreTextNodes()
		return w.expectSlot(n)
	case jsx.TypeProjection:
		return w.expectProjection(n)
	case jsx.TypeComponent:
		w.expectNoMoreTextNodes()
		w.expectComponent(n)
		return stepConsumed
	case jsx.TypeInline:
		w.expectNoMoreTextNodes()
		w.expectInline(n)
		return stepConsumed
	default:
		panic(errors.New(errors.ErrUnsupportedNode).WithDetail(fmt.Sprintf("node type %s", n.Type)))
	}
}

func (w *walker) enqueue(value any, host *vnode.VNode) {
	w.queue = append(w.queue, job{value: value, host: host})
}

package diff

import (
	"github.com/vango-dev/reconcile/pkg/journal"
	"github.com/vango-dev/reconcile/pkg/jsx"
	"github.com/vango-dev/reconcile/pkg/vnode"
)

// expectText matches a text node at the cursor, inserting one if needed.
func (w *walker) expectText(text string) {
	if w.current.IsText() {
		if w.current.Text() != text {
			w.j.TextSet(w.current, text)
		}
		return
	}
	n := vnode.NewText(w.parent, w.c.doc.CreateText(text), text)
	w.j.Insert(journal.OpInsert, w.parent, n, w.current)
	w.pending = n
}

// expectElement makes the target an element with the node's tag and key.
func (w *walker) expectElement(n *jsx.Node) {
	cur := w.current
	if cur.IsElement() && cur.Tag() == n.Tag && w.keyOf(cur) == n.Key {
		return
	}
	if n.Key != "" {
		found := w.findKeyed(n.Key, func(v *vnode.VNode) bool {
			return v.IsElement() && v.Tag() == n.Tag
		})
		if found != nil {
			w.j.Move(w.parent, found, w.current)
			w.pending = found
			return
		}
	}
	el := vnode.NewElement(w.parent, w.c.doc.CreateElement(n.Tag), n.Tag)
	w.j.Insert(journal.OpElementInsert, w.parent, el, w.current)
	w.pending = el
}

// expectVirtual makes the target a virtual node of type vt with key.
func (w *walker) expectVirtual(vt vnode.VirtualType, key string) {
	if w.isVirtual(w.current, vt) && w.keyOf(w.current) == key {
		return
	}
	if key != "" {
		found := w.findKeyed(key, func(v *vnode.VNode) bool { return w.isVirtual(v, vt) })
		if found != nil {
			w.j.Move(w.parent, found, w.current)
			w.pending = found
			return
		}
	}
	w.insertVirtual(vt, key, nil)
}

func (w *walker) insertVirtual(vt vnode.VirtualType, key string, props map[string]any) *vnode.VNode {
	v := vnode.NewVirtual(w.parent)
	v.SetProp(vnode.PropType, vt)
	if key != "" {
		v.SetProp(vnode.PropKey, key)
	}
	for k, val := range props {
		v.SetProp(k, val)
	}
	w.j.Insert(journal.OpFragmentInsert, w.parent, v, w.current)
	w.pending = v
	return v
}

func (w *walker) isVirtual(v *vnode.VNode, vt vnode.VirtualType) bool {
	if !v.IsVirtual() {
		return false
	}
	got, _ := v.GetProp(vnode.PropType, w.c.resolve).(vnode.VirtualType)
	if got == "" {
		got = vnode.VirtualFragment
	}
	return got == vt
}

func (w *walker) keyOf(v *vnode.VNode) string {
	if v == nil {
		return ""
	}
	v.EnsureElementInflated()
	k, _ := v.GetProp(vnode.PropKey, w.c.resolve).(string)
	return k
}

// findKeyed looks for a sibling at or after the cursor with key that
// satisfies match. The first lookup in a scope buffers every remaining
// sibling; later ones search and shrink that buffer.
func (w *walker) findKeyed(key string, match func(*vnode.VNode) bool) *vnode.VNode {
	if w.sibIdx < 0 {
		var found *vnode.VNode
		var siblings []*vnode.VNode
		for v := w.current; v != nil; v = v.Next() {
			if found == nil && !w.claimed[v] && match(v) && w.keyOf(v) == key {
				found = v
				continue
			}
			siblings = append(siblings, v)
		}
		w.siblings = siblings
		w.sibIdx = 0
		return found
	}
	for i := w.sibIdx; i < len(w.siblings); i++ {
		v := w.siblings[i]
		if w.claimed[v] || !match(v) || w.keyOf(v) != key {
			continue
		}
		w.siblings = append(w.siblings[:i], w.siblings[i+1:]...)
		return v
	}
	return nil
}

// expectNoMoreTextNodes removes text nodes at the cursor.
func (w *walker) expectNoMoreTextNodes() {
	for w.current.IsText() {
		n := w.current
		w.j.Remove(w.parent, n)
		w.cleanup(n)
		w.next()
		w.skipClaimed()
	}
}

// expectNoMore truncates the parent from the cursor on.
func (w *walker) expectNoMore() {
	w.skipClaimed()
	if w.current == nil {
		return
	}
	w.j.Truncate(w.parent, w.current)
	rest := w.cursor
	for rest.current != nil {
		w.cleanup(rest.current)
		rest.next()
	}
}

// expectNoChildren truncates every child of the target.
func (w *walker) expectNoChildren() {
	target := w.target()
	first := target.FirstChild()
	for first != nil && w.claimed[first] {
		first = first.Next()
	}
	if first == nil {
		return
	}
	w.j.Truncate(target, first)
	for v := first; v != nil; v = v.Next() {
		w.cleanup(v)
	}
}

// cleanup records v as discarded. Cleaners run once the pass completes,
// when every re-link of a projection bucket is known.
func (w *walker) cleanup(v *vnode.VNode) {
	w.discarded = append(w.discarded, v)
}

// flushCleanup hands each discarded subtree to the cleaner, children first.
// Nodes re-linked elsewhere during the pass are skipped with their subtree.
func (w *walker) flushCleanup() {
	n := 0
	var walk func(v *vnode.VNode)
	walk = func(v *vnode.VNode) {
		if w.claimed[v] {
			return
		}
		if !v.IsText() {
			for c := v.FirstChild(); c != nil; c = c.Next() {
				walk(c)
			}
		}
		w.c.cleaner.Cleanup(v)
		n++
	}
	for _, v := range w.discarded {
		walk(v)
	}
	w.discarded = nil
	w.c.metrics.RecordCleanup(n)
}

package vnode

import "github.com/vango-dev/reconcile/pkg/dom"

// InsertBefore links child into parent before ref (nil appends) and inserts
// the child's surface nodes at the matching surface position. A child that is
// already linked elsewhere is unlinked first.
func InsertBefore(parent, child, ref *VNode) {
	parent.ensureMaterialized()
	if child.Linked() {
		child.unlink()
	}
	child.parent = parent
	if ref == nil {
		child.prev = parent.lastChild
		child.next = nil
		if parent.lastChild != nil {
			parent.lastChild.next = child
		} else {
			parent.firstChild = child
		}
		parent.lastChild = child
	} else {
		child.prev = ref.prev
		child.next = ref
		if ref.prev != nil {
			ref.prev.next = child
		} else {
			parent.firstChild = child
		}
		ref.prev = child
	}

	domParent := surfaceParent(child)
	if domParent == nil {
		return
	}
	before := surfaceAfter(child)
	for _, n := range surfaceNodes(child, nil) {
		domParent.InsertBefore(n, before)
	}
}

// Remove unlinks child from parent. When removeSurface is true the child's
// surface nodes are detached and the node is permanently orphaned; otherwise
// only the virtual links change, which is what a move needs.
func Remove(parent, child *VNode, removeSurface bool) {
	if removeSurface {
		if child.IsText() {
			child.ensureTextInflated()
		}
		for _, n := range surfaceNodes(child, nil) {
			dom.Remove(n)
		}
	}
	if child.parent == parent && child.Linked() {
		child.unlink()
	}
	if removeSurface {
		child.parent = nil
	}
}

// Truncate removes first and every sibling after it from parent.
func Truncate(parent, first *VNode) {
	for v := first; v != nil; {
		next := v.next
		Remove(parent, v, true)
		v = next
	}
}

func (v *VNode) unlink() {
	p := v.parent
	if v.prev != nil {
		v.prev.next = v.next
	} else if p != nil && p.firstChild == v {
		p.firstChild = v.next
	}
	if v.next != nil {
		v.next.prev = v.prev
	} else if p != nil && p.lastChild == v {
		p.lastChild = v.prev
	}
	v.prev = nil
	v.next = nil
}

// surfaceParent returns the surface element that hosts v's surface nodes, or
// nil if v hangs off a Virtual that is not linked into the tree.
func surfaceParent(v *VNode) *dom.Element {
	p := v.parent
	for p != nil && p.IsVirtual() {
		if !p.Linked() {
			return nil
		}
		p = p.parent
	}
	if p == nil {
		return nil
	}
	return p.element
}

// surfaceAfter returns the first surface node that follows v in document
// order within its surface parent.
func surfaceAfter(v *VNode) dom.Node {
	for cur := v; cur != nil; {
		for s := cur.next; s != nil; s = s.next {
			if n := firstSurfaceNode(s); n != nil {
				return n
			}
		}
		p := cur.parent
		if p == nil || !p.IsVirtual() || !p.Linked() {
			return nil
		}
		cur = p
	}
	return nil
}

func firstSurfaceNode(v *VNode) dom.Node {
	switch {
	case v.IsElement():
		return v.element
	case v.IsText():
		if v.textNode == nil {
			return nil
		}
		return v.textNode
	}
	for c := v.firstChild; c != nil; c = c.next {
		if n := firstSurfaceNode(c); n != nil {
			return n
		}
	}
	return nil
}

func surfaceNodes(v *VNode, out []dom.Node) []dom.Node {
	switch {
	case v.IsElement():
		if v.element != nil {
			out = append(out, v.element)
		}
	case v.IsText():
		if v.textNode != nil && (len(out) == 0 || out[len(out)-1] != v.textNode) {
			out = append(out, v.textNode)
		}
	default:
		for c := v.firstChild; c != nil; c = c.next {
			out = surfaceNodes(c, out)
		}
	}
	return out
}

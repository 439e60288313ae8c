package vnode

import "github.com/vango-dev/reconcile/pkg/dom"

// SetText replaces the payload of a Text node, splitting a shared surface
// text run first.
func SetText(v *VNode, text string) {
	v.ensureTextInflated()
	v.text = text
	if v.textNode != nil {
		v.textNode.Data = text
	}
}

// ensureTextInflated gives every Text VNode that shares v's surface node its
// own surface node, then drops the shared one.
func (v *VNode) ensureTextInflated() {
	if v.flags&FlagInflated != 0 {
		return
	}
	shared := v.textNode
	first := v
	for first.prev != nil && first.prev.IsText() && first.prev.textNode == shared {
		first = first.prev
	}
	host := shared.ParentElement()
	for t := first; t != nil && t.IsText() && t.textNode == shared; t = t.next {
		own := &dom.Text{Data: t.text}
		if host != nil {
			host.InsertBefore(own, shared)
		}
		t.textNode = own
		t.flags |= FlagInflated
	}
	// v may be detached from its siblings already.
	if v.flags&FlagInflated == 0 {
		v.textNode = &dom.Text{Data: v.text}
		if host != nil {
			host.InsertBefore(v.textNode, shared)
		}
		v.flags |= FlagInflated
	}
	if host != nil {
		dom.Remove(shared)
	}
}

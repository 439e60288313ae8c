package vnode

import (
	"sync/atomic"

	"github.com/vango-dev/reconcile/pkg/dom"
)

// Flags holds the variant discriminant and the inflation bit.
type Flags uint8

const (
	FlagElement  Flags = 1 << iota // 0b0001
	FlagVirtual                    // 0b0010
	FlagText                       // 0b0100
	FlagInflated                   // 0b1000

	TypeMask = FlagElement | FlagVirtual | FlagText
)

// Well-known property keys.
const (
	PropKey        = "q:key"
	PropType       = "q:type"
	PropRenderFn   = "q:renderFn"
	PropProps      = "q:props"
	PropSlot       = "q:slot"
	PropSlotParent = ":"
)

// VirtualType tags what a Virtual node stands for. It is stored under PropType.
type VirtualType string

const (
	VirtualFragment        VirtualType = "Fragment"
	VirtualComponent       VirtualType = "Component"
	VirtualInlineComponent VirtualType = "InlineComponent"
	VirtualDerivedSignal   VirtualType = "DerivedSignal"
	VirtualAwaited         VirtualType = "Awaited"
	VirtualProjection      VirtualType = "Projection"
	VirtualSlot            VirtualType = "Slot"
)

var nextID atomic.Uint64

// VNode is a node of the persistent tree.
type VNode struct {
	flags Flags
	id    uint64

	parent *VNode
	prev   *VNode
	next   *VNode

	// Element and Virtual
	firstChild   *VNode
	lastChild    *VNode
	materialized bool
	props        []Prop

	// Element
	tag     string
	element *dom.Element

	// Text
	text     string
	textNode *dom.Text
}

func newNode(flags Flags, parent *VNode) *VNode {
	return &VNode{flags: flags, id: nextID.Add(1), parent: parent}
}

// NewElement returns an inflated, materialized Element VNode for el. The node
// records parent but is not linked into its child list.
func NewElement(parent *VNode, el *dom.Element, tag string) *VNode {
	v := newNode(FlagElement|FlagInflated, parent)
	v.tag = tag
	v.element = el
	v.materialized = true
	return v
}

// NewText returns an inflated Text VNode for node.
func NewText(parent *VNode, node *dom.Text, text string) *VNode {
	v := newNode(FlagText|FlagInflated, parent)
	v.textNode = node
	v.text = text
	return v
}

// NewVirtual returns a Virtual VNode.
func NewVirtual(parent *VNode) *VNode {
	v := newNode(FlagVirtual, parent)
	v.materialized = true
	return v
}

// FromDOM returns an Element VNode over an existing surface element. Its
// children and attributes are read lazily.
func FromDOM(el *dom.Element) *VNode {
	return newUnmaterialized(nil, el)
}

func newUnmaterialized(parent *VNode, el *dom.Element) *VNode {
	v := newNode(FlagElement, parent)
	v.tag = el.Tag
	v.element = el
	return v
}

func newSharedText(parent *VNode, node *dom.Text, text string) *VNode {
	v := newNode(FlagText, parent)
	v.textNode = node
	v.text = text
	return v
}

// ID returns a process-unique identifier for the node.
func (v *VNode) ID() uint64 { return v.id }

// Flags returns the node flags.
func (v *VNode) Flags() Flags { return v.flags }

// IsElement reports whether v is an Element.
func (v *VNode) IsElement() bool { return v != nil && v.flags&FlagElement != 0 }

// IsText reports whether v is a Text node.
func (v *VNode) IsText() bool { return v != nil && v.flags&FlagText != 0 }

// IsVirtual reports whether v is a Virtual node.
func (v *VNode) IsVirtual() bool { return v != nil && v.flags&FlagVirtual != 0 }

// IsInflated reports whether the inflation bit is set.
func (v *VNode) IsInflated() bool { return v.flags&FlagInflated != 0 }

// Parent returns the parent node.
func (v *VNode) Parent() *VNode { return v.parent }

// Prev returns the previous sibling.
func (v *VNode) Prev() *VNode { return v.prev }

// Next returns the next sibling.
func (v *VNode) Next() *VNode { return v.next }

// FirstChild returns the first child, materializing children on demand.
func (v *VNode) FirstChild() *VNode {
	if v == nil || v.flags&FlagText != 0 {
		return nil
	}
	v.ensureMaterialized()
	return v.firstChild
}

// LastChild returns the last child, materializing children on demand.
func (v *VNode) LastChild() *VNode {
	if v == nil || v.flags&FlagText != 0 {
		return nil
	}
	v.ensureMaterialized()
	return v.lastChild
}

// Children returns the children as a slice.
func (v *VNode) Children() []*VNode {
	var out []*VNode
	for c := v.FirstChild(); c != nil; c = c.next {
		out = append(out, c)
	}
	return out
}

// Tag returns the element tag name.
func (v *VNode) Tag() string { return v.tag }

// Element returns the surface element of an Element node.
func (v *VNode) Element() *dom.Element { return v.element }

// TextNode returns the surface node of a Text node.
func (v *VNode) TextNode() *dom.Text { return v.textNode }

// Text returns the text payload of a Text node.
func (v *VNode) Text() string { return v.text }

// Linked reports whether v is part of its parent's child list.
func (v *VNode) Linked() bool {
	return v.parent != nil && (v.prev != nil || v.parent.firstChild == v)
}

// VirtualType returns the PropType tag of a Virtual node.
func (v *VNode) VirtualType() VirtualType {
	t, _ := v.GetProp(PropType, nil).(VirtualType)
	return t
}

func (v *VNode) ensureMaterialized() {
	if v.materialized {
		return
	}
	v.materialized = true
	if v.element == nil {
		return
	}
	for _, c := range v.element.Children() {
		switch n := c.(type) {
		case *dom.Element:
			v.appendChild(newUnmaterialized(v, n))
		case *dom.Text:
			if len(n.Segments) > 0 {
				for _, seg := range n.Segments {
					v.appendChild(newSharedText(v, n, seg))
				}
				continue
			}
			v.appendChild(NewText(v, n, n.Data))
		}
	}
}

// appendChild links c as the last child without touching the surface.
func (v *VNode) appendChild(c *VNode) {
	c.parent = v
	c.prev = v.lastChild
	c.next = nil
	if v.lastChild != nil {
		v.lastChild.next = c
	} else {
		v.firstChild = c
	}
	v.lastChild = c
}

package dom

import "sort"

// Node is either an *Element or a *Text.
type Node interface {
	// ParentElement returns the element this node is attached to, or nil.
	ParentElement() *Element

	setParent(*Element)
}

// Document creates surface nodes.
type Document struct{}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{}
}

// CreateElement returns a detached element.
func (d *Document) CreateElement(tag string) *Element {
	return &Element{Tag: tag}
}

// CreateText returns a detached text node.
func (d *Document) CreateText(data string) *Text {
	return &Text{Data: data}
}

// Attribute is a single name/value pair.
type Attribute struct {
	Name  string
	Value string
}

// Element is a surface element.
type Element struct {
	Tag string

	// Dispatch, when set, receives every event dispatched to this element.
	Dispatch func(ev *Event) bool

	attrs    map[string]string
	children []Node
	parent   *Element
}

// ParentElement implements Node.
func (e *Element) ParentElement() *Element { return e.parent }

func (e *Element) setParent(p *Element) { e.parent = p }

// Children returns the child nodes. The slice must not be modified.
func (e *Element) Children() []Node {
	return e.children
}

// FirstChild returns the first child node or nil.
func (e *Element) FirstChild() Node {
	if len(e.children) == 0 {
		return nil
	}
	return e.children[0]
}

// NextSibling returns the node following n in its parent, or nil.
func NextSibling(n Node) Node {
	p := n.ParentElement()
	if p == nil {
		return nil
	}
	idx := p.indexOf(n)
	if idx < 0 || idx+1 >= len(p.children) {
		return nil
	}
	return p.children[idx+1]
}

func (e *Element) indexOf(n Node) int {
	for i, c := range e.children {
		if c == n {
			return i
		}
	}
	return -1
}

// InsertBefore inserts child before ref. A nil ref appends. If child is
// attached anywhere it is detached first.
func (e *Element) InsertBefore(child, ref Node) {
	if child == nil {
		return
	}
	if p := child.ParentElement(); p != nil {
		p.RemoveChild(child)
	}
	idx := len(e.children)
	if ref != nil {
		if i := e.indexOf(ref); i >= 0 {
			idx = i
		}
	}
	e.children = append(e.children, nil)
	copy(e.children[idx+1:], e.children[idx:])
	e.children[idx] = child
	child.setParent(e)
}

// RemoveChild detaches child if it belongs to e.
func (e *Element) RemoveChild(child Node) {
	idx := e.indexOf(child)
	if idx < 0 {
		return
	}
	copy(e.children[idx:], e.children[idx+1:])
	e.children[len(e.children)-1] = nil
	e.children = e.children[:len(e.children)-1]
	child.setParent(nil)
}

// Remove detaches n from its parent, if any.
func Remove(n Node) {
	if p := n.ParentElement(); p != nil {
		p.RemoveChild(n)
	}
}

// SetAttribute sets name to value.
func (e *Element) SetAttribute(name, value string) {
	if e.attrs == nil {
		e.attrs = make(map[string]string)
	}
	e.attrs[name] = value
}

// RemoveAttribute deletes name.
func (e *Element) RemoveAttribute(name string) {
	delete(e.attrs, name)
}

// GetAttribute returns the value of name and whether it is present.
func (e *Element) GetAttribute(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

// Attributes returns all attributes sorted by name.
func (e *Element) Attributes() []Attribute {
	out := make([]Attribute, 0, len(e.attrs))
	for k, v := range e.attrs {
		out = append(out, Attribute{Name: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// DispatchEvent delivers ev to the element's dispatch hook. It returns true
// if a handler asked to suppress the default action.
func (e *Element) DispatchEvent(ev *Event) bool {
	if e.Dispatch == nil {
		return false
	}
	return e.Dispatch(ev)
}

// Text is a surface text node.
type Text struct {
	Data string

	// Segments records the individual text runs a server coalesced into this
	// node. When non-empty, the node is shared by one VNode per segment.
	Segments []string

	parent *Element
}

// ParentElement implements Node.
func (t *Text) ParentElement() *Element { return t.parent }

func (t *Text) setParent(p *Element) { t.parent = p }

// Event is a dispatched surface event.
type Event struct {
	// Type is the event name, e.g. "click". Document and window scoped events
	// are written ":document:keydown" and ":window:resize".
	Type string

	// Detail carries arbitrary payload for handlers.
	Detail any
}

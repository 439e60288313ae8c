package jsx

import (
	"fmt"

	"github.com/vango-dev/reconcile/pkg/qrl"
)

func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

func newNode(typ NodeType, tag string, args []any) *Node {
	node := &Node{Type: typ, Tag: tag, Props: make(Props)}
	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue
		case Attr:
			node.setAttr(v)
		case []Attr:
			for _, a := range v {
				node.setAttr(a)
			}
		case Props:
			for k, val := range v {
				node.setAttr(attr(k, val))
			}
		default:
			node.Children = append(node.Children, v)
		}
	}
	return node
}

// setAttr stores a. Repeated event handlers for the same event are merged
// into a list, all of which run on dispatch.
func (n *Node) setAttr(a Attr) {
	if a.IsEmpty() {
		return
	}
	if a.Key == "key" {
		n.Key = fmt.Sprint(a.Value)
		return
	}
	if IsJSXEvent(a.Key) {
		if existing, ok := n.Props[a.Key]; ok {
			if list, isList := existing.([]any); isList {
				n.Props[a.Key] = append(list, a.Value)
			} else {
				n.Props[a.Key] = []any{existing, a.Value}
			}
			return
		}
	}
	n.Props[a.Key] = a.Value
}

// El creates an element with the given tag.
func El(tag string, args ...any) *Node { return newNode(TypeElement, tag, args) }

func Div(args ...any) *Node    { return El("div", args...) }
func Span(args ...any) *Node   { return El("span", args...) }
func P(args ...any) *Node      { return El("p", args...) }
func A(args ...any) *Node      { return El("a", args...) }
func Ul(args ...any) *Node     { return El("ul", args...) }
func Ol(args ...any) *Node     { return El("ol", args...) }
func Li(args ...any) *Node     { return El("li", args...) }
func H1(args ...any) *Node     { return El("h1", args...) }
func H2(args ...any) *Node     { return El("h2", args...) }
func Button(args ...any) *Node { return El("button", args...) }
func Input(args ...any) *Node  { return El("input", args...) }

// Fragment groups children without a wrapper element.
func Fragment(args ...any) *Node { return newNode(TypeFragment, "", args) }

// Slot marks where a component renders the content projected under name.
// Children are the default content used when nothing was projected.
func Slot(name string, args ...any) *Node {
	n := newNode(TypeSlot, "", args)
	n.Props["name"] = name
	return n
}

// Projection creates a projection bucket for name. Components build these
// from their use-site children; they are rarely written by hand.
func Projection(name string, args ...any) *Node {
	n := newNode(TypeProjection, "", args)
	n.Props["name"] = name
	return n
}

// C creates a stateful component node. Attr and Props arguments become the
// component props; other arguments are projected children.
func C(ref *qrl.QRL, args ...any) *Node {
	n := newNode(TypeComponent, "", args)
	n.Ref = ref
	return n
}

// Inline creates an inline function component node.
func Inline(fn FuncComponent, args ...any) *Node {
	n := newNode(TypeInline, "", args)
	n.Func = fn
	return n
}

// Attribute helpers

// Key sets the reconciliation key. It is converted with fmt.Sprint.
func Key(key any) Attr { return attr("key", key) }

// Prop sets an arbitrary attribute or component prop.
func Prop(key string, value any) Attr { return attr(key, value) }

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute.
func Class(class string) Attr { return attr("class", class) }

// Data creates a data-* attribute.
func Data(key, value string) Attr { return attr("data-"+key, value) }

// InSlot assigns a component child to the named slot.
func InSlot(name string) Attr { return attr(SlotAttr, name) }

// Conditional helpers

// If returns value if condition is true, nil otherwise.
func If(condition bool, value any) any {
	if condition {
		return value
	}
	return nil
}

// When is like If but with lazy evaluation.
func When(condition bool, fn func() any) any {
	if condition {
		return fn()
	}
	return nil
}

// Range maps a slice to sibling values.
func Range[T any](items []T, fn func(item T, index int) any) []any {
	result := make([]any, 0, len(items))
	for i, item := range items {
		if v := fn(item, i); v != nil {
			result = append(result, v)
		}
	}
	return result
}

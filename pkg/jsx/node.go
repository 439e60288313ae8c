package jsx

import (
	"sort"

	"github.com/vango-dev/reconcile/pkg/qrl"
)

// NodeType is the tagged-node discriminator.
type NodeType uint8

const (
	TypeElement    NodeType = iota // <div>, <span>, ...
	TypeFragment                   // grouping without a wrapper
	TypeSlot                       // projection point inside a component
	TypeProjection                 // bucket of content passed to a component
	TypeComponent                  // stateful component behind a lazy reference
	TypeInline                     // inline function component
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case TypeElement:
		return "Element"
	case TypeFragment:
		return "Fragment"
	case TypeSlot:
		return "Slot"
	case TypeProjection:
		return "Projection"
	case TypeComponent:
		return "Component"
	case TypeInline:
		return "Inline"
	default:
		return "Unknown"
	}
}

// Props holds attributes, event handlers and component props.
type Props map[string]any

// Keys returns the prop keys in ascending order.
func (p Props) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Node is a tagged declarative node.
type Node struct {
	Type     NodeType
	Tag      string // TypeElement
	Key      string // "" means unkeyed
	Props    Props
	Children []any

	// Ref identifies a stateful component (TypeComponent). It resolves to a
	// ComponentFunc.
	Ref *qrl.QRL

	// Func is the body of an inline component (TypeInline).
	Func FuncComponent
}

// SlotName returns the slot a Slot or Projection node refers to. The default
// slot is "".
func (n *Node) SlotName() string {
	if n == nil {
		return ""
	}
	s, _ := n.Props["name"].(string)
	return s
}

// AssignedSlot returns the slot a child passed to a component was assigned
// to with InSlot.
func (n *Node) AssignedSlot() string {
	if n == nil {
		return ""
	}
	s, _ := n.Props[SlotAttr].(string)
	return s
}

// ComponentFunc renders a stateful component. Projected content is reached
// through Slot nodes in the returned tree.
type ComponentFunc func(props Props) any

// FuncComponent renders an inline component synchronously. It may return a
// *async.Future.
type FuncComponent func(props Props, children []any) any

// Signal is a reactive reference. Value reads the current value.
type Signal interface {
	Value() any
}

// SignalFunc adapts a function to a derived Signal.
type SignalFunc func() any

// Value implements Signal.
func (f SignalFunc) Value() any { return f() }

// Attr represents a single attribute or prop.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// SlotAttr is the attribute that assigns a child of a component to a named
// slot.
const SlotAttr = "q:slot"

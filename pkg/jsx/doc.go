// Package jsx defines the declarative tree values the reconciler consumes.
//
// A declarative value is one of:
//
//   - nil, bool: rendered as empty text
//   - string and the integer and float kinds: rendered as text
//   - []any and []*Node: sibling values at the same level
//   - Signal: a reactive reference, unwrapped into a derived subscription
//   - *async.Future: a deferred value, reconciled once it settles
//   - *Node: an element, fragment, slot, projection bucket, stateful
//     component or inline function component
//
// Nodes are built with variadic factory functions:
//
//	Div(Class("card"), Key("row-1"),
//	    H1("Title"),
//	    Button(OnClick(handler), "Save"),
//	)
//
// Arguments may be nil (ignored), Attr, []Attr, Props (merged), or any
// declarative value (appended as a child).
package jsx

// Package vnode implements the persistent virtual tree the reconciler diffs
// against.
//
// A VNode is one of three variants:
//
//   - Element: a tag, an ordered property list and children, backed by a
//     *dom.Element.
//   - Text: a string payload backed by a *dom.Text.
//   - Virtual: a grouping node with properties and children but no surface
//     node. Fragments, component hosts, slots and projections are Virtuals.
//
// Siblings form a doubly linked list; a parent only holds its first and last
// child. For any adjacent pair a.Next() == b iff b.Prev() == a.
//
// # Materialization and inflation
//
// An Element created over an existing surface element with FromDOM is neither
// materialized nor inflated. Its children are built on first navigation and
// its attributes are read from the surface on EnsureElementInflated. A Text
// VNode that shares its surface node with neighbouring runs is not inflated
// and is split into its own surface node on the first SetText.
//
// # Mutation
//
// The structural primitives (InsertBefore, Remove, Truncate, SetText, SetAttr)
// keep the surface in step with the virtual tree. The reconciler never calls
// them directly; they run when a journal is replayed.
package vnode

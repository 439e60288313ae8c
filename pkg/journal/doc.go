// Package journal records structural edits computed by the reconciler and
// replays them against the persistent tree.
//
// A Journal is a flat log: an OpCode followed by its operands, with no nested
// structure.
//
//	Insert(parent, node, before)         before may be nil (append)
//	ElementInsert(parent, node, before)  Insert of a newly created Element
//	FragmentInsert(parent, node, before) Insert of a newly created Virtual
//	Move(parent, node, before)           Remove without cleanup, then Insert
//	Remove(parent, node)
//	Truncate(parent, first)              first and every later sibling
//	TextSet(node, text)
//	Attributes(node, key, value, ...)    pairs run until the next OpCode
//	Props(node, key, value)
//
// Apply replays the log in one forward scan and resets it for reuse. It
// performs no validation; a malformed log is a programming error.
//
// Encode serializes a journal into a compact binary frame for inspection,
// using node IDs in place of pointers.
package journal

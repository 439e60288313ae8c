package journal

import "github.com/vango-dev/reconcile/pkg/vnode"

// OpCode tags a journal entry.
type OpCode uint8

const (
	OpInsert         OpCode = 0x01
	OpTruncate       OpCode = 0x02
	OpRemove         OpCode = 0x03
	OpMove           OpCode = 0x04
	OpTextSet        OpCode = 0x05
	OpElementInsert  OpCode = 0x06
	OpAttributes     OpCode = 0x07
	OpProps          OpCode = 0x08
	OpFragmentInsert OpCode = 0x09
)

// String returns the string representation of the opcode.
func (op OpCode) String() string {
	switch op {
	case OpInsert:
		return "Insert"
	case OpTruncate:
		return "Truncate"
	case OpRemove:
		return "Remove"
	case OpMove:
		return "Move"
	case OpTextSet:
		return "TextSet"
	case OpElementInsert:
		return "ElementInsert"
	case OpAttributes:
		return "Attributes"
	case OpProps:
		return "Props"
	case OpFragmentInsert:
		return "FragmentInsert"
	default:
		return "Unknown"
	}
}

// IsInsert reports whether op links a node into the tree.
func (op OpCode) IsInsert() bool {
	return op == OpInsert || op == OpElementInsert || op == OpFragmentInsert
}

// Journal is an append-only edit log. The zero value is ready to use.
type Journal struct {
	entries []any
}

// New returns an empty journal.
func New() *Journal {
	return &Journal{entries: make([]any, 0, 64)}
}

// Push appends raw entries.
func (j *Journal) Push(entries ...any) {
	j.entries = append(j.entries, entries...)
}

// Insert records an insert of node before before (nil appends) using op,
// which must be one of the insert opcodes.
func (j *Journal) Insert(op OpCode, parent, node, before *vnode.VNode) {
	j.entries = append(j.entries, op, parent, node, before)
}

// Move records relocating node before before.
func (j *Journal) Move(parent, node, before *vnode.VNode) {
	j.entries = append(j.entries, OpMove, parent, node, before)
}

// Remove records removing node from parent.
func (j *Journal) Remove(parent, node *vnode.VNode) {
	j.entries = append(j.entries, OpRemove, parent, node)
}

// Truncate records removing first and all of its later siblings.
func (j *Journal) Truncate(parent, first *vnode.VNode) {
	j.entries = append(j.entries, OpTruncate, parent, first)
}

// TextSet records a text payload change.
func (j *Journal) TextSet(node *vnode.VNode, text string) {
	j.entries = append(j.entries, OpTextSet, node, text)
}

// Props records a single property write.
func (j *Journal) Props(node *vnode.VNode, key string, value any) {
	j.entries = append(j.entries, OpProps, node, key, value)
}

// Len returns the number of raw entries.
func (j *Journal) Len() int {
	return len(j.entries)
}

// Entries returns the raw entries. The slice must not be modified and is
// only valid until the next Reset.
func (j *Journal) Entries() []any {
	return j.entries
}

// Reset clears the journal, keeping its storage.
func (j *Journal) Reset() {
	clear(j.entries)
	j.entries = j.entries[:0]
}

// Op is a decoded journal operation.
type Op struct {
	Code   OpCode
	Parent *vnode.VNode
	Node   *vnode.VNode
	Before *vnode.VNode
	Text   string       // TextSet
	Key    string       // Props
	Value  any          // Props
	Attrs  []vnode.Prop // Attributes; a nil Value removes
}

// Ops decodes the log into operations.
func (j *Journal) Ops() []Op {
	var ops []Op
	e := j.entries
	for i := 0; i < len(e); {
		code := e[i].(OpCode)
		op := Op{Code: code}
		switch code {
		case OpInsert, OpElementInsert, OpFragmentInsert, OpMove:
			op.Parent, op.Node, op.Before = node(e[i+1]), node(e[i+2]), node(e[i+3])
			i += 4
		case OpRemove, OpTruncate:
			op.Parent, op.Node = node(e[i+1]), node(e[i+2])
			i += 3
		case OpTextSet:
			op.Node, op.Text = node(e[i+1]), e[i+2].(string)
			i += 3
		case OpProps:
			op.Node, op.Key, op.Value = node(e[i+1]), e[i+2].(string), e[i+3]
			i += 4
		case OpAttributes:
			op.Node = node(e[i+1])
			i += 2
			for i < len(e) && !isOpCode(e[i]) {
				op.Attrs = append(op.Attrs, vnode.Prop{Key: e[i].(string), Value: e[i+1]})
				i += 2
			}
		default:
			panic(unknownOpcode(code))
		}
		ops = append(ops, op)
	}
	return ops
}

// Count returns the number of operations with the given opcode.
func (j *Journal) Count(code OpCode) int {
	n := 0
	for _, op := range j.Ops() {
		if op.Code == code {
			n++
		}
	}
	return n
}

func node(v any) *vnode.VNode {
	n, _ := v.(*vnode.VNode)
	return n
}

func isOpCode(v any) bool {
	_, ok := v.(OpCode)
	return ok
}

package journal

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/vango-dev/reconcile/pkg/vnode"
)

// frameMagic starts every encoded frame.
const frameMagic = 0xD1

// Attr is an encoded attribute change.
type Attr struct {
	Key     string
	Value   string
	Removed bool
}

// Record is an encoded journal operation. Nodes are referenced by ID; zero
// means none.
type Record struct {
	Op     OpCode
	Parent uint64
	Node   uint64
	Before uint64

	// Tag is set for ElementInsert. Text is set for TextSet and for Insert of
	// a Text node.
	Tag  string
	Text string

	Key   string
	Value string
	Attrs []Attr
}

// Frame is a decoded journal.
type Frame struct {
	Seq     uint64
	Records []Record
}

// Encode serializes j as frame seq.
//
// Wire format:
//
//	magic(1) seq(uvarint) count(uvarint) record*
//	record = op(1) ids(uvarint...) payload
func Encode(seq uint64, j *Journal) []byte {
	ops := j.Ops()
	e := &encoder{buf: make([]byte, 0, 16+8*len(ops))}
	e.writeByte(frameMagic)
	e.writeUvarint(seq)
	e.writeUvarint(uint64(len(ops)))
	for i := range ops {
		encodeRecord(e, toRecord(&ops[i]))
	}
	return e.buf
}

func toRecord(op *Op) Record {
	r := Record{
		Op:     op.Code,
		Parent: id(op.Parent),
		Node:   id(op.Node),
		Before: id(op.Before),
	}
	switch op.Code {
	case OpElementInsert:
		r.Tag = op.Node.Tag()
	case OpInsert:
		if op.Node.IsText() {
			r.Text = op.Node.Text()
		}
	case OpTextSet:
		r.Text = op.Text
	case OpProps:
		r.Key, r.Value = op.Key, Describe(op.Value)
	case OpAttributes:
		r.Attrs = make([]Attr, len(op.Attrs))
		for i, a := range op.Attrs {
			r.Attrs[i] = Attr{Key: a.Key, Value: Describe(a.Value), Removed: a.Value == nil}
		}
	}
	return r
}

func id(n *vnode.VNode) uint64 {
	if n == nil {
		return 0
	}
	return n.ID()
}

// Describe renders a journal value as a string. Functions, which have no
// stable printable form, are written as "func".
func Describe(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case *vnode.VNode:
		return fmt.Sprintf("#%d", val.ID())
	case []any:
		parts := make([]string, len(val))
		for i, x := range val {
			parts[i] = Describe(x)
		}
		return "[" + strings.Join(parts, " ") + "]"
	}
	if reflect.TypeOf(v).Kind() == reflect.Func {
		return "func"
	}
	return vnode.ValueString(v)
}

func encodeRecord(e *encoder, r Record) {
	e.writeByte(byte(r.Op))
	switch r.Op {
	case OpInsert, OpElementInsert, OpFragmentInsert, OpMove:
		e.writeUvarint(r.Parent)
		e.writeUvarint(r.Node)
		e.writeUvarint(r.Before)
		if r.Op == OpElementInsert {
			e.writeString(r.Tag)
		}
		if r.Op == OpInsert {
			e.writeString(r.Text)
		}
	case OpRemove, OpTruncate:
		e.writeUvarint(r.Parent)
		e.writeUvarint(r.Node)
	case OpTextSet:
		e.writeUvarint(r.Node)
		e.writeString(r.Text)
	case OpProps:
		e.writeUvarint(r.Node)
		e.writeString(r.Key)
		e.writeString(r.Value)
	case OpAttributes:
		e.writeUvarint(r.Node)
		e.writeUvarint(uint64(len(r.Attrs)))
		for _, a := range r.Attrs {
			e.writeString(a.Key)
			e.writeBool(a.Removed)
			if !a.Removed {
				e.writeString(a.Value)
			}
		}
	}
}

// Decode parses a frame produced by Encode.
func Decode(data []byte) (*Frame, error) {
	d := &decoder{buf: data}
	magic, err := d.readByte()
	if err != nil {
		return nil, err
	}
	if magic != frameMagic {
		return nil, ErrBadMagic
	}
	seq, err := d.readUvarint()
	if err != nil {
		return nil, err
	}
	count, err := d.readCount()
	if err != nil {
		return nil, err
	}

	records := make([]Record, count)
	for i := range records {
		if err := decodeRecord(d, &records[i]); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	return &Frame{Seq: seq, Records: records}, nil
}

func decodeRecord(d *decoder, r *Record) error {
	b, err := d.readByte()
	if err != nil {
		return err
	}
	r.Op = OpCode(b)

	switch r.Op {
	case OpInsert, OpElementInsert, OpFragmentInsert, OpMove:
		if r.Parent, err = d.readUvarint(); err != nil {
			return err
		}
		if r.Node, err = d.readUvarint(); err != nil {
			return err
		}
		if r.Before, err = d.readUvarint(); err != nil {
			return err
		}
		if r.Op == OpElementInsert {
			r.Tag, err = d.readString()
		}
		if r.Op == OpInsert {
			r.Text, err = d.readString()
		}
	case OpRemove, OpTruncate:
		if r.Parent, err = d.readUvarint(); err != nil {
			return err
		}
		r.Node, err = d.readUvarint()
	case OpTextSet:
		if r.Node, err = d.readUvarint(); err != nil {
			return err
		}
		r.Text, err = d.readString()
	case OpProps:
		if r.Node, err = d.readUvarint(); err != nil {
			return err
		}
		if r.Key, err = d.readString(); err != nil {
			return err
		}
		r.Value, err = d.readString()
	case OpAttributes:
		if r.Node, err = d.readUvarint(); err != nil {
			return err
		}
		var n int
		if n, err = d.readCount(); err != nil {
			return err
		}
		r.Attrs = make([]Attr, n)
		for i := range r.Attrs {
			a := &r.Attrs[i]
			if a.Key, err = d.readString(); err != nil {
				return err
			}
			if a.Removed, err = d.readBool(); err != nil {
				return err
			}
			if !a.Removed {
				if a.Value, err = d.readString(); err != nil {
					return err
				}
			}
		}
	default:
		return fmt.Errorf("journal: unknown opcode 0x%02x", b)
	}
	return err
}

// String renders the record as a single line.
func (r Record) String() string {
	var b strings.Builder
	b.WriteString(r.Op.String())
	ref := func(name string, v uint64) {
		if v == 0 {
			fmt.Fprintf(&b, " %s=-", name)
		} else {
			fmt.Fprintf(&b, " %s=#%d", name, v)
		}
	}
	switch r.Op {
	case OpInsert, OpElementInsert, OpFragmentInsert, OpMove:
		ref("parent", r.Parent)
		ref("node", r.Node)
		ref("before", r.Before)
		if r.Tag != "" {
			fmt.Fprintf(&b, " <%s>", r.Tag)
		}
		if r.Text != "" {
			fmt.Fprintf(&b, " %q", r.Text)
		}
	case OpRemove, OpTruncate:
		ref("parent", r.Parent)
		ref("node", r.Node)
	case OpTextSet:
		ref("node", r.Node)
		fmt.Fprintf(&b, " %q", r.Text)
	case OpProps:
		ref("node", r.Node)
		fmt.Fprintf(&b, " %s=%q", r.Key, r.Value)
	case OpAttributes:
		ref("node", r.Node)
		for _, a := range r.Attrs {
			if a.Removed {
				fmt.Fprintf(&b, " -%s", a.Key)
			} else {
				fmt.Fprintf(&b, " %s=%q", a.Key, a.Value)
			}
		}
	}
	return b.String()
}

// String renders the frame one record per line.
func (f *Frame) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "frame %d (%d ops)\n", f.Seq, len(f.Records))
	for _, r := range f.Records {
		b.WriteString("  ")
		b.WriteString(r.String())
		b.WriteByte('\n')
	}
	return b.String()
}

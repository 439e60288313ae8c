package journal

import (
	"strings"
	"testing"

	"github.com/vango-dev/reconcile/internal/errors"
	"github.com/vango-dev/reconcile/pkg/dom"
	"github.com/vango-dev/reconcile/pkg/vnode"
)

var doc = dom.NewDocument()

func newRoot() *vnode.VNode {
	return vnode.FromDOM(doc.CreateElement("body"))
}

func newEl(parent *vnode.VNode, tag string) *vnode.VNode {
	return vnode.NewElement(parent, doc.CreateElement(tag), tag)
}

func newText(parent *vnode.VNode, s string) *vnode.VNode {
	return vnode.NewText(parent, doc.CreateText(s), s)
}

func TestOpCodeString(t *testing.T) {
	tests := []struct {
		op   OpCode
		want string
	}{
		{OpInsert, "Insert"},
		{OpTruncate, "Truncate"},
		{OpRemove, "Remove"},
		{OpMove, "Move"},
		{OpTextSet, "TextSet"},
		{OpElementInsert, "ElementInsert"},
		{OpAttributes, "Attributes"},
		{OpProps, "Props"},
		{OpFragmentInsert, "FragmentInsert"},
		{OpCode(0xFF), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("OpCode(%d).String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestApplyInsertsAndAttributes(t *testing.T) {
	root := newRoot()
	j := New()

	ul := newEl(root, "ul")
	li := newEl(ul, "li")
	txt := newText(li, "one")
	j.Insert(OpElementInsert, root, ul, nil)
	j.Push(OpAttributes, ul, "class", "list", "::click", "h")
	j.Insert(OpElementInsert, ul, li, nil)
	j.Insert(OpInsert, li, txt, nil)

	ops := j.Ops()
	if len(ops) != 4 {
		t.Fatalf("Ops() len = %d, want 4", len(ops))
	}
	if len(ops[1].Attrs) != 2 || ops[1].Attrs[1].Key != "::click" {
		t.Errorf("Attributes operands = %+v", ops[1].Attrs)
	}
	if j.Count(OpElementInsert) != 2 {
		t.Errorf("Count(ElementInsert) = %d, want 2", j.Count(OpElementInsert))
	}

	Apply(j)

	if got := root.Element().InnerHTML(); got != `<ul class="list"><li>one</li></ul>` {
		t.Errorf("surface = %q", got)
	}
	if ul.GetProp("::click", nil) != "h" {
		t.Error("listener prop not stored")
	}
	if j.Len() != 0 {
		t.Errorf("Len() after Apply = %d, want 0", j.Len())
	}
}

func TestApplyMoveRemoveTruncate(t *testing.T) {
	root := newRoot()
	var nodes []*vnode.VNode
	for _, tag := range []string{"a", "b", "c", "d", "e"} {
		n := newEl(root, tag)
		vnode.InsertBefore(root, n, nil)
		nodes = append(nodes, n)
	}

	j := New()
	j.Move(root, nodes[2], nodes[0]) // c a b d e
	j.Remove(root, nodes[1])         // c a d e
	j.Truncate(root, nodes[3])       // c a
	Apply(j)

	if got := root.Element().InnerHTML(); got != "<c></c><a></a>" {
		t.Errorf("surface = %q", got)
	}
	if len(root.Children()) != 2 {
		t.Errorf("children = %d, want 2", len(root.Children()))
	}
}

func TestApplyTextAndProps(t *testing.T) {
	root := newRoot()
	txt := newText(root, "old")
	host := vnode.NewVirtual(root)
	vnode.InsertBefore(root, txt, nil)
	vnode.InsertBefore(root, host, nil)

	j := New()
	j.TextSet(txt, "new")
	j.Props(host, vnode.PropProps, map[string]any{"n": 1})
	j.Props(txt, "data", 42)
	Apply(j)

	if txt.Text() != "42" {
		t.Errorf("text = %q, want 42", txt.Text())
	}
	if _, ok := host.GetProp(vnode.PropProps, nil).(map[string]any); !ok {
		t.Error("props not stored on host")
	}
	if got := root.Element().InnerHTML(); got != "42" {
		t.Errorf("surface = %q", got)
	}
}

func TestApplyRemovesAttribute(t *testing.T) {
	root := newRoot()
	el := newEl(root, "div")
	vnode.InsertBefore(root, el, nil)
	el.SetAttr("id", "x")
	el.SetAttr("title", "t")

	j := New()
	j.Push(OpAttributes, el, "id", nil)
	Apply(j)

	if got := el.Element().OuterHTML(); got != `<div title="t"></div>` {
		t.Errorf("surface = %q", got)
	}
}

func TestApplyUnknownOpcodePanics(t *testing.T) {
	j := New()
	j.Push(OpCode(0x7F), nil)

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.HasCode(err, errors.ErrUnknownOpcode) {
			t.Errorf("recover() = %v, want R004", r)
		}
	}()
	Apply(j)
}

func TestEncodeDecode(t *testing.T) {
	root := newRoot()
	el := newEl(root, "p")
	txt := newText(el, "hi")

	j := New()
	j.Insert(OpElementInsert, root, el, nil)
	j.Insert(OpInsert, el, txt, nil)
	j.Push(OpAttributes, el, "id", "p1", "title", nil, "::click", func() {})
	j.TextSet(txt, "bye")
	j.Props(el, "q:key", "k")
	j.Move(root, el, nil)
	j.Remove(el, txt)
	j.Truncate(root, el)

	frame, err := Decode(Encode(7, j))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if frame.Seq != 7 || len(frame.Records) != 8 {
		t.Fatalf("frame = %d/%d records", frame.Seq, len(frame.Records))
	}

	ins := frame.Records[0]
	if ins.Op != OpElementInsert || ins.Parent != root.ID() || ins.Node != el.ID() || ins.Before != 0 || ins.Tag != "p" {
		t.Errorf("ElementInsert = %+v", ins)
	}
	if frame.Records[1].Text != "hi" {
		t.Errorf("text Insert = %+v", frame.Records[1])
	}
	attrs := frame.Records[2].Attrs
	if len(attrs) != 3 || attrs[0].Value != "p1" || !attrs[1].Removed || attrs[2].Value != "func" {
		t.Errorf("Attributes = %+v", attrs)
	}
	if frame.Records[3].Text != "bye" || frame.Records[4].Value != "k" {
		t.Errorf("TextSet/Props = %+v %+v", frame.Records[3], frame.Records[4])
	}

	out := frame.String()
	for _, want := range []string{"frame 7 (8 ops)", "ElementInsert", " <p>", "-title", "Truncate"} {
		if !strings.Contains(out, want) {
			t.Errorf("String() missing %q:\n%s", want, out)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"bad magic", []byte{0x00, 0x01, 0x00}},
		{"truncated count", []byte{frameMagic, 0x01}},
		{"count beyond data", []byte{frameMagic, 0x01, 0x05}},
		{"unknown opcode", []byte{frameMagic, 0x01, 0x01, 0x7F}},
		{"truncated record", []byte{frameMagic, 0x01, 0x01, byte(OpTextSet), 0x01}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.data); err == nil {
				t.Error("Decode() error = nil")
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	n := vnode.NewVirtual(nil)
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"s", "s"},
		{3, "3"},
		{true, "true"},
		{func() {}, "func"},
		{[]any{"a", 1}, "[a 1]"},
	}
	for _, tt := range tests {
		if got := Describe(tt.in); got != tt.want {
			t.Errorf("Describe(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := Describe(n); !strings.HasPrefix(got, "#") {
		t.Errorf("Describe(node) = %q", got)
	}
}

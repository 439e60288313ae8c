package jsx

import (
	"testing"

	"github.com/vango-dev/reconcile/pkg/qrl"
)

func TestEl(t *testing.T) {
	node := Div(nil, ID("main"), Key(7), "text", Span())

	if node.Type != TypeElement {
		t.Errorf("Type = %v, want Element", node.Type)
	}
	if node.Tag != "div" {
		t.Errorf("Tag = %v, want div", node.Tag)
	}
	if node.Key != "7" {
		t.Errorf("Key = %q, want 7", node.Key)
	}
	if _, ok := node.Props["key"]; ok {
		t.Error("key must not be stored as a prop")
	}
	if node.Props["id"] != "main" {
		t.Errorf("id = %v, want main", node.Props["id"])
	}
	if len(node.Children) != 2 {
		t.Errorf("Children len = %v, want 2", len(node.Children))
	}
}

func TestPropsArgument(t *testing.T) {
	node := El("a", Props{"href": "/", "class": "x"}, []Attr{{Key: "title", Value: "t"}})
	want := []string{"class", "href", "title"}
	got := node.Props.Keys()
	if len(got) != len(want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Keys()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRepeatedHandlersMerge(t *testing.T) {
	h1 := func() {}
	h2 := func() {}
	node := Button(OnClick(h1), OnClick(h2))

	list, ok := node.Props["onClick$"].([]any)
	if !ok || len(list) != 2 {
		t.Fatalf("onClick$ = %#v, want two handlers", node.Props["onClick$"])
	}
}

func TestSlotAndProjection(t *testing.T) {
	s := Slot("header", "fallback")
	if s.Type != TypeSlot || s.SlotName() != "header" {
		t.Errorf("Slot = %v %q", s.Type, s.SlotName())
	}
	if len(s.Children) != 1 {
		t.Errorf("default children = %d, want 1", len(s.Children))
	}

	child := Div(InSlot("footer"))
	if child.AssignedSlot() != "footer" {
		t.Errorf("AssignedSlot() = %q, want footer", child.AssignedSlot())
	}
	if fwd := Slot("inner", InSlot("outer")); fwd.SlotName() != "inner" || fwd.AssignedSlot() != "outer" {
		t.Errorf("forwarded slot = %q/%q, want inner/outer", fwd.SlotName(), fwd.AssignedSlot())
	}
	if Div().AssignedSlot() != "" {
		t.Error("unassigned child should use the default slot")
	}
	if Projection("x").Type != TypeProjection {
		t.Error("Projection type")
	}
}

func TestComponentNodes(t *testing.T) {
	ref := qrl.Of("Counter", ComponentFunc(func(Props) any { return nil }))
	c := C(ref, Prop("count", 1), Key("c1"), P("projected"))
	if c.Type != TypeComponent || c.Ref != ref {
		t.Errorf("C() = %+v", c)
	}
	if c.Props["count"] != 1 || c.Key != "c1" || len(c.Children) != 1 {
		t.Errorf("C() props=%v key=%q children=%d", c.Props, c.Key, len(c.Children))
	}

	in := Inline(func(p Props, children []any) any { return p["x"] }, Prop("x", "y"))
	if in.Type != TypeInline || in.Func(in.Props, nil) != "y" {
		t.Errorf("Inline() = %+v", in)
	}
}

func TestEventNames(t *testing.T) {
	tests := []struct {
		key   string
		jsx   bool
		scope string
		name  string
		prop  string
	}{
		{"onClick$", true, "", "click", "::click"},
		{"onDblClick$", true, "", "dblclick", "::dblclick"},
		{"window:onResize$", true, "window", "resize", ":window:resize"},
		{"document:onKeyDown$", true, "document", "keydown", ":document:keydown"},
		{"onclick$", false, "", "", ""},
		{"onClick", false, "", "", ""},
		{"on:click", false, "", "", ""},
		{"title", false, "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := IsJSXEvent(tt.key); got != tt.jsx {
				t.Fatalf("IsJSXEvent(%q) = %v, want %v", tt.key, got, tt.jsx)
			}
			if !tt.jsx {
				return
			}
			if got := EventScope(tt.key); got != tt.scope {
				t.Errorf("EventScope = %q, want %q", got, tt.scope)
			}
			if got := EventName(tt.key); got != tt.name {
				t.Errorf("EventName = %q, want %q", got, tt.name)
			}
			if got := EventProp(tt.key); got != tt.prop {
				t.Errorf("EventProp = %q, want %q", got, tt.prop)
			}
		})
	}
}

func TestIsHTMLEvent(t *testing.T) {
	for key, want := range map[string]bool{
		"on:click":            true,
		"on-window:resize":    true,
		"on-document:keydown": true,
		"onClick$":            false,
		"one":                 false,
	} {
		if got := IsHTMLEvent(key); got != want {
			t.Errorf("IsHTMLEvent(%q) = %v, want %v", key, got, want)
		}
	}
}

func TestEventHelpers(t *testing.T) {
	if a := OnWindow("scroll", nil); a.Key != "window:onScroll$" {
		t.Errorf("OnWindow key = %q", a.Key)
	}
	if a := OnDocument("keyDown", nil); EventProp(a.Key) != ":document:keydown" {
		t.Errorf("OnDocument prop = %q", EventProp(a.Key))
	}
	if got := DispatchProp("click"); got != "::click" {
		t.Errorf("DispatchProp(click) = %q", got)
	}
	if got := DispatchProp(":window:resize"); got != ":window:resize" {
		t.Errorf("DispatchProp(:window:resize) = %q", got)
	}
}

func TestConditionals(t *testing.T) {
	if If(false, "x") != nil || If(true, "x") != "x" {
		t.Error("If")
	}
	called := false
	When(false, func() any { called = true; return nil })
	if called {
		t.Error("When evaluated a false branch")
	}
	got := Range([]string{"a", "", "b"}, func(s string, _ int) any {
		if s == "" {
			return nil
		}
		return Li(s)
	})
	if len(got) != 2 {
		t.Errorf("Range len = %d, want 2", len(got))
	}
}

// Package fixture reads declarative trees from JSON.
//
// A fixture holds a sequence of trees and the component templates they use.
// Replaying a fixture diffs each tree against the result of the previous one,
// which is how the CLI exercises the reconciler without Go code.
//
//	{
//	  "components": {
//	    "Card": {"render": {"tag": "div", "children": [{"slot": ""}]}}
//	  },
//	  "trees": [
//	    {"tag": "ul", "children": [{"tag": "li", "key": "a", "children": ["a"]}]},
//	    {"component": "Card", "props": {"title": "x"}, "children": ["body"]}
//	  ]
//	}
//
// Node forms:
//
//	"text", 42, true, null        primitives
//	[...]                         list
//	{"tag", "key", "attrs", "children"}
//	{"fragment": [...], "key"}
//	{"slot": name, "children"}    default content in children
//	{"component": name, "key", "props", "children"}
//	{"await": node, "delay": ms}  future resolving after delay
//	{"prop": name}                component prop, templates only
package fixture

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sort"
	"time"

	"github.com/vango-dev/reconcile/internal/errors"
	"github.com/vango-dev/reconcile/pkg/async"
	"github.com/vango-dev/reconcile/pkg/jsx"
	"github.com/vango-dev/reconcile/pkg/qrl"
)

// Template is a component defined by a fixture.
type Template struct {
	// Chunk makes the component lazy: its reference loads asynchronously.
	Chunk string `json:"chunk,omitempty"`

	// Render is the node the component renders. {"prop": name} is replaced
	// by the prop value.
	Render any `json:"render"`
}

// Document is a parsed fixture.
type Document struct {
	Name       string              `json:"name,omitempty"`
	Components map[string]Template `json:"components,omitempty"`
	Trees      []any               `json:"trees"`

	refs map[string]*qrl.QRL
}

// Parse decodes and validates a fixture.
func Parse(data []byte) (*Document, error) {
	return parse("", data)
}

func parse(file string, data []byte) (*Document, error) {
	doc := &Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		e := errors.New(errors.ErrFixtureParse).
			WithDetail(err.Error()).
			Wrap(err)
		var syntax *json.SyntaxError
		if stderrors.As(err, &syntax) {
			e = e.WithOffset(file, data, syntax.Offset)
		}
		return nil, e
	}
	if doc.Name == "" {
		doc.Name = file
	}

	doc.refs = make(map[string]*qrl.QRL, len(doc.Components))
	for name, tmpl := range doc.Components {
		doc.refs[name] = doc.reference(name, tmpl)
	}

	// Dry build: futures are created but never settled.
	b := &builder{doc: doc}
	for _, name := range doc.ComponentNames() {
		b.props = jsx.Props{}
		if _, err := b.build(doc.Components[name].Render, "components."+name); err != nil {
			return nil, err
		}
	}
	b.props = nil
	for i, t := range doc.Trees {
		if _, err := b.build(t, fmt.Sprintf("trees[%d]", i)); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func (d *Document) reference(name string, tmpl Template) *qrl.QRL {
	render := jsx.ComponentFunc(func(props jsx.Props) any {
		b := &builder{doc: d, props: props, live: true}
		out, err := b.build(tmpl.Render, "components."+name)
		if err != nil {
			// Validated by Parse.
			panic(err)
		}
		return out
	})
	if tmpl.Chunk == "" {
		return qrl.Of(name, render)
	}
	return qrl.New(tmpl.Chunk, name, func(ctx context.Context) (any, error) {
		return render, nil
	})
}

// Len returns the number of trees.
func (d *Document) Len() int { return len(d.Trees) }

// ComponentNames returns the defined component names in sorted order.
func (d *Document) ComponentNames() []string {
	names := make([]string, 0, len(d.Components))
	for name := range d.Components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tree builds tree i. Each call returns fresh values, so pending futures
// start over. Component references are shared across calls.
func (d *Document) Tree(i int) (any, error) {
	if i < 0 || i >= len(d.Trees) {
		return nil, errors.New(errors.ErrFixtureNotFound).
			WithDetail(fmt.Sprintf("tree %d out of range, %s has %d", i, d.Name, len(d.Trees)))
	}
	b := &builder{doc: d, live: true}
	return b.build(d.Trees[i], fmt.Sprintf("trees[%d]", i))
}

// builder turns decoded JSON into declarative values.
type builder struct {
	doc   *Document
	props jsx.Props // nil outside templates
	live  bool      // schedule await delays
}

func (b *builder) build(v any, path string) (any, error) {
	switch v := v.(type) {
	case nil, string, bool, float64:
		return v, nil
	case []any:
		return b.list(v, path)
	case map[string]any:
		return b.node(v, path)
	}
	return nil, b.fail(path, "unsupported value %T", v)
}

func (b *builder) list(items []any, path string) ([]any, error) {
	out := make([]any, len(items))
	for i, item := range items {
		v, err := b.build(item, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (b *builder) node(m map[string]any, path string) (any, error) {
	switch {
	case has(m, "tag"):
		tag, ok := m["tag"].(string)
		if !ok || tag == "" {
			return nil, b.fail(path, "tag must be a non-empty string")
		}
		args, err := b.args(m, path)
		if err != nil {
			return nil, err
		}
		return jsx.El(tag, args...), nil

	case has(m, "fragment"):
		items, ok := m["fragment"].([]any)
		if !ok {
			return nil, b.fail(path, "fragment must be a list")
		}
		children, err := b.list(items, path+".fragment")
		if err != nil {
			return nil, err
		}
		args := append(keyArg(m), children...)
		return jsx.Fragment(args...), nil

	case has(m, "slot"):
		name, ok := m["slot"].(string)
		if !ok {
			return nil, b.fail(path, "slot name must be a string")
		}
		args, err := b.args(m, path)
		if err != nil {
			return nil, err
		}
		return jsx.Slot(name, args...), nil

	case has(m, "component"):
		name, _ := m["component"].(string)
		ref, ok := b.doc.refs[name]
		if !ok {
			return nil, errors.New(errors.ErrFixtureComponent).
				WithDetail(fmt.Sprintf("%s: component %q is not defined", path, name)).
				WithSuggestion("Add it under \"components\"")
		}
		args, err := b.args(m, path)
		if err != nil {
			return nil, err
		}
		return jsx.C(ref, args...), nil

	case has(m, "await"):
		value, err := b.build(m["await"], path+".await")
		if err != nil {
			return nil, err
		}
		delay, _ := m["delay"].(float64)
		if !b.live {
			return async.New(), nil
		}
		if delay <= 0 {
			return async.Resolved(value), nil
		}
		f := async.New()
		time.AfterFunc(time.Duration(delay)*time.Millisecond, func() { f.Resolve(value) })
		return f, nil

	case has(m, "prop"):
		name, ok := m["prop"].(string)
		if !ok {
			return nil, b.fail(path, "prop name must be a string")
		}
		if b.props == nil {
			return nil, b.fail(path, "prop %q used outside a component template", name)
		}
		return b.props[name], nil
	}
	return nil, b.fail(path, "object has none of tag, fragment, slot, component, await, prop")
}

// args collects key, attributes or props, and children for a jsx builder.
func (b *builder) args(m map[string]any, path string) ([]any, error) {
	args := keyArg(m)
	for _, field := range []string{"attrs", "props"} {
		raw, ok := m[field]
		if !ok {
			continue
		}
		attrs, ok := raw.(map[string]any)
		if !ok {
			return nil, b.fail(path, "%s must be an object", field)
		}
		props := make(jsx.Props, len(attrs))
		for k, v := range attrs {
			val, err := b.build(v, path+"."+field+"."+k)
			if err != nil {
				return nil, err
			}
			props[k] = val
		}
		args = append(args, props)
	}
	if raw, ok := m["children"]; ok {
		items, ok := raw.([]any)
		if !ok {
			return nil, b.fail(path, "children must be a list")
		}
		children, err := b.list(items, path+".children")
		if err != nil {
			return nil, err
		}
		args = append(args, children...)
	}
	return args, nil
}

func (b *builder) fail(path, format string, args ...any) error {
	return errors.New(errors.ErrFixtureParse).
		WithDetail(path + ": " + fmt.Sprintf(format, args...))
}

func keyArg(m map[string]any) []any {
	key, ok := m["key"]
	if !ok || key == nil {
		return nil
	}
	return []any{jsx.Key(key)}
}

func has(m map[string]any, field string) bool {
	_, ok := m[field]
	return ok
}

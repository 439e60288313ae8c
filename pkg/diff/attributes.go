package diff

import (
	"context"
	"log/slog"
	"reflect"
	"sort"

	"github.com/vango-dev/reconcile/pkg/dom"
	"github.com/vango-dev/reconcile/pkg/journal"
	"github.com/vango-dev/reconcile/pkg/jsx"
	"github.com/vango-dev/reconcile/pkg/qrl"
	"github.com/vango-dev/reconcile/pkg/vnode"
)

// sourceProps returns the props of n as a sorted list, with JSX event
// props renamed to their listener property and the key mirrored to q:key.
func sourceProps(n *jsx.Node) []vnode.Prop {
	src := make([]vnode.Prop, 0, len(n.Props)+1)
	for k, v := range n.Props {
		if v == nil || k == vnode.PropKey {
			continue
		}
		if jsx.IsJSXEvent(k) {
			k = jsx.EventProp(k)
		}
		src = append(src, vnode.Prop{Key: k, Value: v})
	}
	if n.Key != "" {
		src = append(src, vnode.Prop{Key: vnode.PropKey, Value: n.Key})
	}
	sort.Slice(src, func(i, j int) bool { return src[i].Key < src[j].Key })
	return src
}

// DiffAttributes journals the changes that turn the properties of the
// element node into src, which must be sorted by key. It reports whether
// anything was journaled.
//
// Listener properties (":scope:event") are diffed like attributes; any
// change to one installs the element's dispatch hook. Serialized HTML event
// attributes present only on the node are left alone. Listener load
// failures are logged to slog.Default.
func DiffAttributes(j *journal.Journal, node *vnode.VNode, src []vnode.Prop) bool {
	return diffAttributes(j, node, src, nil, slog.Default())
}

func diffAttributes(j *journal.Journal, node *vnode.VNode, src []vnode.Prop, resolve vnode.Resolver, logger *slog.Logger) bool {
	node.EnsureElementInflated()
	dst := node.Props()

	opened := false
	patchListeners := false
	record := func(key string, value any) {
		if !opened {
			j.Push(journal.OpAttributes, node)
			opened = true
		}
		j.Push(key, value)
	}

	i, k := 0, 0
	for i < len(src) || k < len(dst) {
		switch {
		case i >= len(src) || (k < len(dst) && dst[k].Key < src[i].Key):
			key := dst[k].Key
			switch {
			case jsx.IsHTMLEvent(key):
				patchListeners = true
			case vnode.IsInternalKey(key):
				patchListeners = true
				record(key, nil)
			default:
				record(key, nil)
			}
			k++
		case k >= len(dst) || src[i].Key < dst[k].Key:
			if vnode.IsInternalKey(src[i].Key) {
				patchListeners = true
			}
			record(src[i].Key, src[i].Value)
			i++
		default:
			if !attrEqual(src[i].Value, dst[k].Value) {
				if vnode.IsInternalKey(src[i].Key) {
					patchListeners = true
				}
				record(src[i].Key, src[i].Value)
			}
			i++
			k++
		}
	}

	if patchListeners {
		installDispatch(node, resolve, logger)
	}
	return opened
}

// installDispatch routes surface events on node's element to its listener
// properties.
func installDispatch(node *vnode.VNode, resolve vnode.Resolver, logger *slog.Logger) {
	el := node.Element()
	if el == nil || el.Dispatch != nil {
		return
	}
	el.Dispatch = func(ev *dom.Event) bool {
		return invoke(node.GetProp(jsx.DispatchProp(ev.Type), resolve), ev, logger)
	}
}

// invoke calls a handler or list of handlers. It returns true if any of
// them asked to suppress the default action. Lists may be []any or a slice
// of any handler type.
func invoke(h any, ev *dom.Event, logger *slog.Logger) bool {
	switch fn := h.(type) {
	case nil:
		return false
	case []any:
		prevent := false
		for _, each := range fn {
			if invoke(each, ev, logger) {
				prevent = true
			}
		}
		return prevent
	case func(*dom.Event) bool:
		return fn(ev)
	case func(*dom.Event):
		fn(ev)
		return false
	case func():
		fn()
		return false
	case *qrl.QRL:
		v, err := fn.Resolve(context.Background())
		if err != nil {
			logger.Warn("listener failed to load", "event", ev.Type, "ref", fn.String(), "error", err)
			return false
		}
		return invoke(v, ev, logger)
	default:
		rv := reflect.ValueOf(h)
		if rv.Kind() != reflect.Slice {
			logger.Debug("ignoring non-callable listener", "event", ev.Type, "type", rv.Type().String())
			return false
		}
		prevent := false
		for i := 0; i < rv.Len(); i++ {
			if invoke(rv.Index(i).Interface(), ev, logger) {
				prevent = true
			}
		}
		return prevent
	}
}

package vnode

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Prop is a key/value entry of a node's property list. A nil Value means
// the key is absent.
type Prop struct {
	Key   string
	Value any
}

// Ref is a property value that refers to an object by id. It is resolved
// through a Resolver on first read.
type Ref string

// Resolver maps an object id to the object it names.
type Resolver func(id string) any

// Props returns the property list sorted by key. Element attributes are not
// read from the surface; call EnsureElementInflated first if that matters.
func (v *VNode) Props() []Prop {
	return v.props
}

// PropKeys returns the sorted property keys.
func (v *VNode) PropKeys() []string {
	keys := make([]string, len(v.props))
	for i, p := range v.props {
		keys[i] = p.Key
	}
	return keys
}

func (v *VNode) propIndex(key string) (int, bool) {
	i := sort.Search(len(v.props), func(i int) bool { return v.props[i].Key >= key })
	return i, i < len(v.props) && v.props[i].Key == key
}

// GetProp returns the value stored under key, or nil. A Ref value is resolved
// with resolve (when non-nil) and the result replaces the Ref.
func (v *VNode) GetProp(key string, resolve Resolver) any {
	if v == nil {
		return nil
	}
	i, ok := v.propIndex(key)
	if !ok {
		return nil
	}
	val := v.props[i].Value
	if ref, isRef := val.(Ref); isRef && resolve != nil {
		val = resolve(string(ref))
		v.props[i].Value = val
	}
	return val
}

// SetProp stores value under key without touching the surface. A nil value
// deletes the key.
func (v *VNode) SetProp(key string, value any) {
	i, ok := v.propIndex(key)
	switch {
	case ok && value == nil:
		v.props = append(v.props[:i], v.props[i+1:]...)
	case ok:
		v.props[i].Value = value
	case value != nil:
		v.props = append(v.props, Prop{})
		copy(v.props[i+1:], v.props[i:])
		v.props[i] = Prop{Key: key, Value: value}
	}
}

// SetAttr stores value under key and mirrors it to the surface element.
// On a Virtual node it is equivalent to SetProp.
func (v *VNode) SetAttr(key string, value any) {
	v.SetProp(key, value)
	if v.element == nil {
		return
	}
	if value == nil {
		v.element.RemoveAttribute(key)
		return
	}
	v.element.SetAttribute(key, ValueString(value))
}

// EnsureElementInflated reads the surface attributes of an Element that was
// created over existing markup. Properties already set take precedence.
func (v *VNode) EnsureElementInflated() {
	if v.flags&FlagElement == 0 || v.flags&FlagInflated != 0 {
		return
	}
	v.flags |= FlagInflated
	for _, a := range v.element.Attributes() {
		if _, ok := v.propIndex(a.Name); !ok {
			v.SetProp(a.Name, a.Value)
		}
	}
}

// ValueString converts a property value to its surface attribute form.
func ValueString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// IsInternalKey reports whether key names reconciler bookkeeping that is
// never written to the surface: listener props (":scope:event") and the slot
// parent link.
func IsInternalKey(key string) bool {
	return strings.HasPrefix(key, ":")
}

package diff

import (
	"reflect"

	"github.com/vango-dev/reconcile/pkg/jsx"
	"github.com/vango-dev/reconcile/pkg/vnode"
)

// shallowEqual reports whether two prop maps have the same keys and
// identical values. A nil map never equals anything, so a host without
// stored props always renders.
func shallowEqual(a, b jsx.Props) bool {
	if a == nil || b == nil {
		return false
	}
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !sameValue(av, bv) {
			return false
		}
	}
	return true
}

// sameValue is identity equality. Comparable values use ==; maps, slices
// and pointers compare by reference; functions are never equal.
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) {
		return false
	}
	switch ta.Kind() {
	case reflect.Func:
		return false
	case reflect.Map, reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
	case reflect.Slice:
		va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
		return va.Len() == vb.Len() && va.Pointer() == vb.Pointer()
	}
	if !ta.Comparable() {
		return false
	}
	return a == b
}

// attrEqual is sameValue, except that a string read back from the surface
// equals a scalar that serializes to it.
func attrEqual(src, dst any) bool {
	if sameValue(src, dst) {
		return true
	}
	ds, ok := dst.(string)
	if !ok {
		return false
	}
	switch src.(type) {
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return vnode.ValueString(src) == ds
	}
	return false
}

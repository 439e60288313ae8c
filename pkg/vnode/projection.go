package vnode

// ComponentHost returns the nearest Virtual ancestor of v (v included) that
// hosts a stateful component, or nil.
func ComponentHost(v *VNode, resolve Resolver) *VNode {
	for v != nil {
		if v.IsVirtual() && v.GetProp(PropRenderFn, resolve) != nil {
			return v
		}
		v = v.parent
	}
	return nil
}

// ProjectionParentComponent returns the component host whose projection
// buckets a slot rendered under v should read from.
//
// Walking up from v stops at the first component host. Every projection
// bucket crossed on the way belongs to a component that received content from
// further up, so each one adds a host level to skip.
func ProjectionParentComponent(v *VNode, resolve Resolver) *VNode {
	depth := 1
	for depth > 0 {
		depth--
		for v != nil && !(v.IsVirtual() && v.GetProp(PropRenderFn, resolve) != nil) {
			if v.IsVirtual() {
				if sp, ok := v.GetProp(PropSlotParent, resolve).(*VNode); ok && sp != nil {
					depth++
					v = sp
					continue
				}
			}
			v = v.parent
		}
		if depth > 0 && v != nil {
			v = v.parent
		}
	}
	return v
}

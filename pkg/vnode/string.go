package vnode

import (
	"strconv"
	"strings"
)

// String renders the subtree rooted at v for debugging.
func (v *VNode) String() string {
	var b strings.Builder
	v.write(&b, "")
	return strings.TrimSuffix(b.String(), "\n")
}

func (v *VNode) write(b *strings.Builder, pad string) {
	switch {
	case v.IsText():
		b.WriteString(pad)
		b.WriteString(strconv.Quote(v.text))
		b.WriteByte('\n')
		return
	case v.IsElement():
		b.WriteString(pad + "<" + v.tag)
	default:
		name := string(v.VirtualType())
		if name == "" {
			name = string(VirtualFragment)
		}
		b.WriteString(pad + "<" + name)
	}
	for _, p := range v.props {
		if p.Key == PropType || IsInternalKey(p.Key) {
			continue
		}
		if _, ok := p.Value.(string); !ok && v.IsVirtual() {
			continue
		}
		b.WriteString(" " + p.Key + "=" + strconv.Quote(ValueString(p.Value)))
	}
	if !v.materialized {
		b.WriteString(" …>\n")
		return
	}
	b.WriteString(">\n")
	for c := v.firstChild; c != nil; c = c.next {
		c.write(b, pad+"  ")
	}
}

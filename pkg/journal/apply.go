package journal

import (
	"fmt"

	"github.com/vango-dev/reconcile/internal/errors"
	"github.com/vango-dev/reconcile/pkg/vnode"
)

// Apply replays j against the persistent tree and resets it.
func Apply(j *Journal) {
	e := j.entries
	for i := 0; i < len(e); {
		code, ok := e[i].(OpCode)
		if !ok {
			panic(errors.New(errors.ErrUnknownOpcode).Wrap(fmt.Errorf("entry %d is %T", i, e[i])))
		}
		switch code {
		case OpInsert, OpElementInsert, OpFragmentInsert:
			vnode.InsertBefore(node(e[i+1]), node(e[i+2]), node(e[i+3]))
			i += 4
		case OpMove:
			parent, n := node(e[i+1]), node(e[i+2])
			vnode.Remove(parent, n, false)
			vnode.InsertBefore(parent, n, node(e[i+3]))
			i += 4
		case OpRemove:
			vnode.Remove(node(e[i+1]), node(e[i+2]), true)
			i += 3
		case OpTruncate:
			vnode.Truncate(node(e[i+1]), node(e[i+2]))
			i += 3
		case OpTextSet:
			vnode.SetText(node(e[i+1]), e[i+2].(string))
			i += 3
		case OpAttributes:
			n := node(e[i+1])
			i += 2
			for i < len(e) && !isOpCode(e[i]) {
				setValue(n, e[i].(string), e[i+1])
				i += 2
			}
		case OpProps:
			n := node(e[i+1])
			key, value := e[i+2].(string), e[i+3]
			if n.IsText() {
				vnode.SetText(n, vnode.ValueString(value))
			} else {
				setValue(n, key, value)
			}
			i += 4
		default:
			panic(unknownOpcode(code))
		}
	}
	j.Reset()
}

// setValue writes listener bookkeeping as a plain prop and everything else
// as a surface attribute.
func setValue(n *vnode.VNode, key string, value any) {
	if vnode.IsInternalKey(key) {
		n.SetProp(key, value)
		return
	}
	n.SetAttr(key, value)
}

func unknownOpcode(code OpCode) error {
	return errors.New(errors.ErrUnknownOpcode).Wrap(fmt.Errorf("opcode 0x%02x", uint8(code)))
}

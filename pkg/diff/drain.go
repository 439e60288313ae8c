package diff

import (
	"fmt"

	"github.com/vango-dev/reconcile/internal/errors"
	"github.com/vango-dev/reconcile/pkg/async"
	"github.com/vango-dev/reconcile/pkg/vnode"
)

// drain diffs queued values in order. It returns nil when the queue
// emptied synchronously, or a future that settles once the remaining work
// after the first pending value is done.
func (w *walker) drain() *async.Future {
	for len(w.queue) > 0 {
		next := w.queue[0]
		w.queue[0] = job{}
		w.queue = w.queue[1:]

		fut, ok := next.value.(*async.Future)
		if !ok {
			w.diff(next.value, next.host)
			continue
		}
		if fut.Settled() {
			v, err := fut.Result()
			if err != nil {
				return async.Rejected(rejected(err))
			}
			w.diff(v, next.host)
			continue
		}

		out := async.New()
		host := next.host
		fut.Then(func(v any, err error) {
			w.resume(out, host, v, err)
		})
		return out
	}
	return nil
}

// resume continues a drain after a deferred value settled.
func (w *walker) resume(out *async.Future, host *vnode.VNode, v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			out.Reject(panicError(r))
		}
	}()
	if err != nil {
		out.Reject(rejected(err))
		return
	}
	w.diff(v, host)
	rest := w.drain()
	if rest == nil {
		out.Resolve(nil)
		return
	}
	rest.Then(func(_ any, err error) {
		if err != nil {
			out.Reject(err)
			return
		}
		out.Resolve(nil)
	})
}

func rejected(err error) error {
	if errors.HasCode(err, errors.ErrDeferredRejected) {
		return err
	}
	return errors.New(errors.ErrDeferredRejected).Wrap(err)
}

// panicError turns a contract violation raised inside a continuation into
// a rejection; there is no caller left to unwind to.
func panicError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%v", r)
}

// Package async provides Future, the deferred value used by declarative trees
// and by the reconciler to signal that a diff is still draining.
//
// A Future settles exactly once. Continuations registered with Then run
// synchronously on the goroutine that settles the future, or immediately if
// it has already settled. That keeps reconciliation single-threaded: whoever
// resolves a deferred value drives the remaining diff work.
package async

import (
	"context"
	"errors"
	"sync"
)

// ErrAlreadySettled is returned by TryResolve and TryReject when the future
// has already settled.
var ErrAlreadySettled = errors.New("async: future already settled")

// Future is a value that becomes available later.
type Future struct {
	mu      sync.Mutex
	done    chan struct{}
	settled bool
	value   any
	err     error
	thens   []func(any, error)
}

// New returns a pending future.
func New() *Future {
	return &Future{done: make(chan struct{})}
}

// Resolved returns a future already resolved with v.
func Resolved(v any) *Future {
	f := New()
	f.Resolve(v)
	return f
}

// Rejected returns a future already rejected with err.
func Rejected(err error) *Future {
	f := New()
	f.Reject(err)
	return f
}

// Resolve settles the future with v. Later calls are ignored.
func (f *Future) Resolve(v any) {
	_ = f.settle(v, nil)
}

// Reject settles the future with err. Later calls are ignored.
func (f *Future) Reject(err error) {
	_ = f.settle(nil, err)
}

// TryResolve is Resolve that reports whether the future was still pending.
func (f *Future) TryResolve(v any) error {
	return f.settle(v, nil)
}

// TryReject is Reject that reports whether the future was still pending.
func (f *Future) TryReject(err error) error {
	return f.settle(nil, err)
}

func (f *Future) settle(v any, err error) error {
	f.mu.Lock()
	if f.settled {
		f.mu.Unlock()
		return ErrAlreadySettled
	}
	f.settled = true
	f.value = v
	f.err = err
	thens := f.thens
	f.thens = nil
	close(f.done)
	f.mu.Unlock()

	for _, fn := range thens {
		fn(v, err)
	}
	return nil
}

// Then registers fn to run once the future settles.
func (f *Future) Then(fn func(v any, err error)) {
	f.mu.Lock()
	if !f.settled {
		f.thens = append(f.thens, fn)
		f.mu.Unlock()
		return
	}
	v, err := f.value, f.err
	f.mu.Unlock()
	fn(v, err)
}

// Settled reports whether the future has resolved or rejected.
func (f *Future) Settled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settled
}

// Result returns the settled value and error. It must only be called after
// Settled reports true.
func (f *Future) Result() (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, f.err
}

// Done returns a channel closed when the future settles.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the future settles or ctx is done.
func (f *Future) Wait(ctx context.Context) (any, error) {
	select {
	case <-f.done:
		return f.Result()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Chain returns a future settled with the result of fn once f resolves.
// Rejections pass through without calling fn. fn may itself return a
// *Future, which is awaited.
func (f *Future) Chain(fn func(v any) (any, error)) *Future {
	out := New()
	f.Then(func(v any, err error) {
		if err != nil {
			out.Reject(err)
			return
		}
		next, err := fn(v)
		if err != nil {
			out.Reject(err)
			return
		}
		if nf, ok := next.(*Future); ok {
			nf.Then(func(v any, err error) {
				if err != nil {
					out.Reject(err)
					return
				}
				out.Resolve(v)
			})
			return
		}
		out.Resolve(next)
	})
	return out
}

// Package qrl implements lazy references: an identity (chunk + symbol) paired
// with a loader that produces the referenced value on first use.
//
// Stateful components and event listeners are identified by a QRL. Two QRLs
// with the same chunk and symbol share a hash, which is what the reconciler
// compares to decide whether a component host changed identity.
package qrl

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Loader produces the referenced value.
type Loader func(ctx context.Context) (any, error)

// QRL is a lazy reference.
type QRL struct {
	Chunk  string
	Symbol string

	hash   string
	loader Loader

	mu       sync.Mutex
	loaded   bool
	value    any
	loadErr  error
	captured []any
}

// New returns a QRL that loads its value with loader on first Resolve.
func New(chunk, symbol string, loader Loader) *QRL {
	return &QRL{
		Chunk:  chunk,
		Symbol: symbol,
		hash:   hashOf(chunk, symbol),
		loader: loader,
	}
}

// Of returns an already-resolved QRL for an inline value.
func Of(symbol string, v any) *QRL {
	return &QRL{
		Chunk:  "inline",
		Symbol: symbol,
		hash:   hashOf("inline", symbol),
		loaded: true,
		value:  v,
	}
}

func hashOf(chunk, symbol string) string {
	return strconv.FormatUint(xxhash.Sum64String(chunk+"#"+symbol), 36)
}

// Hash is the coarse content hash identifying the referenced symbol.
func (q *QRL) Hash() string {
	if q == nil {
		return ""
	}
	return q.hash
}

// String returns chunk#symbol.
func (q *QRL) String() string {
	if q == nil {
		return "<nil qrl>"
	}
	return q.Chunk + "#" + q.Symbol
}

// WithCaptured returns a copy of q carrying captured lexical values. The copy
// keeps the same hash and shares the resolved value.
func (q *QRL) WithCaptured(values ...any) *QRL {
	q.mu.Lock()
	defer q.mu.Unlock()
	return &QRL{
		Chunk:    q.Chunk,
		Symbol:   q.Symbol,
		hash:     q.hash,
		loader:   q.loader,
		loaded:   q.loaded,
		value:    q.value,
		loadErr:  q.loadErr,
		captured: values,
	}
}

// Captured returns the captured lexical values.
func (q *QRL) Captured() []any {
	return q.captured
}

// Resolved reports whether the value has been loaded.
func (q *QRL) Resolved() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.loaded
}

// Resolve loads the referenced value. The result, including an error, is
// memoized.
func (q *QRL) Resolve(ctx context.Context) (any, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.loaded {
		return q.value, q.loadErr
	}
	if q.loader == nil {
		return nil, fmt.Errorf("qrl %s: no loader", q)
	}
	q.value, q.loadErr = q.loader(ctx)
	q.loaded = true
	return q.value, q.loadErr
}

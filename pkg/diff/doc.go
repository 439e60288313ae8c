// Package diff reconciles declarative trees against the persistent tree.
//
// A diff walks a declarative value (see package jsx) and the children of an
// anchor node side by side. Every change needed to make the persistent tree
// and its surface match the declarative one is appended to the container's
// journal; nothing is mutated until Commit replays it.
//
// # Matching
//
// Children are matched positionally. An element with a key that does not
// match the node under the cursor is looked up among the remaining siblings
// and moved into place, so reordering a keyed list costs moves only. An
// unkeyed mismatch inserts a new node; whatever is left over when a list
// ends is truncated in one operation.
//
// # Components and projection
//
// A stateful component (jsx.C) renders when its reference or shallow props
// change. Its children are grouped by assigned slot into projection buckets
// stored on the host; a jsx.Slot in the rendered output links the bucket for
// its name. Buckets that no slot claimed are reported by
// Container.Unprojected.
//
// # Deferred values
//
// A *async.Future in the tree reserves an Awaited virtual node. Its value is
// diffed when it settles, strictly in the order futures were met. Diff then
// returns a future that settles once all of them were processed.
//
// Usage:
//
//	c := diff.NewContainer(body)
//	if fut := c.Diff(ctx, jsx.Div(jsx.Class("app"), "hello"), nil); fut != nil {
//	    if _, err := fut.Wait(ctx); err != nil {
//	        c.Discard()
//	        return err
//	    }
//	}
//	c.Commit(ctx)
package diff

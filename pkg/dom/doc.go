// Package dom provides the in-memory rendering surface that persistent
// VNodes point at.
//
// The surface is intentionally small: elements with a tag, attributes and
// ordered children, text nodes, and a per-element event dispatch hook. It
// mirrors the subset of the browser DOM the reconciler needs, so journals
// can be replayed and verified without a browser.
//
// # Nodes
//
// Element and Text both implement Node. Insertion follows DOM semantics: an
// already attached node is detached from its current parent before being
// inserted elsewhere.
//
//	doc := dom.NewDocument()
//	body := doc.CreateElement("body")
//	p := doc.CreateElement("p")
//	body.InsertBefore(p, nil)
//	p.InsertBefore(doc.CreateText("hello"), nil)
//	body.OuterHTML() // <body><p>hello</p></body>
//
// # Events
//
// Element.Dispatch is installed by the reconciler the first time an element
// acquires a listener. DispatchEvent calls it and reports whether any handler
// asked to suppress the default action.
package dom

// Package errors provides coded, structured errors for the reconciler and
// its tooling.
//
// Every error carries a code from the registry (R0xx for the reconciler,
// C0xx for configuration, F0xx for fixtures) that maps to a category, a
// short message and a longer explanation.
//
// Contract violations inside the reconciler panic with one of these errors;
// asynchronous failures are returned through the diff future. The CLI prints
// them with Format:
//
//	ERROR F002: Fixture parse failed
//
//	  fixtures/list.json:4:17
//
//	       3 │   "old": {"tag": "ul", "children": [
//	  →    4 │     {"tag": "li" "key": "a"},
//	         │                 ^
//	       5 │   ]},
//
//	  Hint: check the fixture against the format in the README
package errors

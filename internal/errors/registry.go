package errors

import "sort"

// Template defines a registered error type.
type Template struct {
	Category Category
	Message  string
	Detail   string
}

// Reconciler error codes.
const (
	ErrUnsupportedValue = "R001"
	ErrUnsupportedNode  = "R002"
	ErrCursorInvariant  = "R003"
	ErrUnknownOpcode    = "R004"
	ErrRenderFnMissing  = "R005"
	ErrDeferredRejected = "R006"
	ErrRenderFailed     = "R007"

	ErrConfigRead    = "C001"
	ErrConfigParse   = "C002"
	ErrConfigInvalid = "C003"

	ErrFixtureNotFound  = "F001"
	ErrFixtureParse     = "F002"
	ErrFixtureComponent = "F003"
)

var registry = map[string]Template{
	"R001": {
		Category: CategoryReconcile,
		Message:  "Unsupported declarative value",
		Detail:   "The tree contains a value that is not a primitive, list, signal, future or *jsx.Node.",
	},
	"R002": {
		Category: CategoryReconcile,
		Message:  "Unsupported node type",
		Detail:   "A *jsx.Node has a type the reconciler does not know how to render.",
	},
	"R003": {
		Category: CategoryReconcile,
		Message:  "Cursor invariant violated",
		Detail:   "The walk's current parent equals its current node. The persistent tree is corrupted.",
	},
	"R004": {
		Category: CategoryJournal,
		Message:  "Unsupported journal opcode",
		Detail:   "Replay met an entry that is not a known opcode. The journal is corrupted.",
	},
	"R005": {
		Category: CategoryComponent,
		Message:  "Component reference did not resolve to a render function",
		Detail:   "A stateful component's lazy reference must resolve to a jsx.ComponentFunc.",
	},
	"R006": {
		Category: CategoryReconcile,
		Message:  "Deferred value rejected",
		Detail:   "A future in the tree rejected. The journal must be discarded.",
	},
	"R007": {
		Category: CategoryComponent,
		Message:  "Component render failed",
		Detail:   "Loading or running a component render function failed.",
	},

	"C001": {
		Category: CategoryConfig,
		Message:  "Cannot read config file",
	},
	"C002": {
		Category: CategoryConfig,
		Message:  "Invalid JSON in config file",
	},
	"C003": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
	},

	"F001": {
		Category: CategoryFixture,
		Message:  "Fixture not found",
	},
	"F002": {
		Category: CategoryFixture,
		Message:  "Fixture parse failed",
	},
	"F003": {
		Category: CategoryFixture,
		Message:  "Unknown component in fixture",
		Detail:   "A component node names a template that the fixture does not define.",
	},
}

// GetAllCodes returns all registered error codes, sorted.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}

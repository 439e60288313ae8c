package jsx

import "strings"

// Event listener props are written in one of two forms. JSX props are
// "onClick$", "window:onResize$" and "document:onKeyDown$". Serialized HTML
// attributes are "on:click", "on-window:resize" and "on-document:keydown".
// Both normalize to the internal property ":scope:event", where scope is
// "", "window" or "document".

// IsJSXEvent reports whether key is a JSX event listener prop.
func IsJSXEvent(key string) bool {
	if !strings.HasSuffix(key, "$") {
		return false
	}
	_, rest := splitScope(key)
	return len(rest) > 3 && strings.HasPrefix(rest, "on") && rest[2] >= 'A' && rest[2] <= 'Z'
}

// IsHTMLEvent reports whether key is a serialized HTML event attribute.
func IsHTMLEvent(key string) bool {
	return strings.HasPrefix(key, "on:") ||
		strings.HasPrefix(key, "on-window:") ||
		strings.HasPrefix(key, "on-document:")
}

// EventScope returns the scope of a JSX event prop: "", "window" or
// "document".
func EventScope(key string) string {
	scope, _ := splitScope(key)
	return scope
}

// EventName returns the lower-cased DOM event name of a JSX event prop.
func EventName(key string) string {
	_, rest := splitScope(key)
	rest = strings.TrimSuffix(rest, "$")
	return strings.ToLower(strings.TrimPrefix(rest, "on"))
}

// EventProp returns the internal listener property for a JSX event prop.
func EventProp(key string) string {
	return ":" + EventScope(key) + ":" + EventName(key)
}

// DispatchProp returns the listener property a dispatched event type maps
// to. Document and window events arrive as ":document:keydown" and
// ":window:resize".
func DispatchProp(eventType string) string {
	if strings.HasPrefix(eventType, ":") {
		return eventType
	}
	return "::" + eventType
}

func splitScope(key string) (scope, rest string) {
	switch {
	case strings.HasPrefix(key, "window:"):
		return "window", key[len("window:"):]
	case strings.HasPrefix(key, "document:"):
		return "document", key[len("document:"):]
	}
	return "", key
}

func event(scope, name string, handler any) Attr {
	key := "on" + strings.ToUpper(name[:1]) + name[1:] + "$"
	if scope != "" {
		key = scope + ":" + key
	}
	return attr(key, handler)
}

// On attaches handler to the named element event.
func On(name string, handler any) Attr { return event("", name, handler) }

// OnWindow attaches handler to the named window event.
func OnWindow(name string, handler any) Attr { return event("window", name, handler) }

// OnDocument attaches handler to the named document event.
func OnDocument(name string, handler any) Attr { return event("document", name, handler) }

// OnClick handles click events.
func OnClick(handler any) Attr { return On("click", handler) }

// OnDblClick handles double-click events.
func OnDblClick(handler any) Attr { return On("dblclick", handler) }

// OnInput handles input events.
func OnInput(handler any) Attr { return On("input", handler) }

// OnChange handles change events.
func OnChange(handler any) Attr { return On("change", handler) }

// OnSubmit handles form submit events.
func OnSubmit(handler any) Attr { return On("submit", handler) }

// OnKeyDown handles keydown events.
func OnKeyDown(handler any) Attr { return On("keydown", handler) }

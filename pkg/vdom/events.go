package vdom

// EventHandler binds a browser event to a Go callback.
//
// Handler is one of the callback shapes the server knows how to invoke:
// func(), func(string) or func(string) error. The string argument carries
// the control's current value for input and change events.
type EventHandler struct {
	Event   string // "oninput", "onsubmit", etc.
	Handler any

	// Prevent asks the client to suppress the browser's default action
	// (for a form, the navigation that submission would trigger).
	Prevent bool
}

// PreventDefault returns a copy of the handler that suppresses the
// browser's default action.
func (h EventHandler) PreventDefault() EventHandler {
	h.Prevent = true
	return h
}

// Name returns the event name without the "on" prefix.
func (h EventHandler) Name() string {
	if len(h.Event) > 2 {
		return h.Event[2:]
	}
	return h.Event
}

// event creates an EventHandler with the given name and handler.
// The name is prefixed with "on" (e.g., "click" becomes "onclick").
func event(name string, handler any) EventHandler {
	return EventHandler{Event: "on" + name, Handler: handler}
}

// OnClick handles click events.
func OnClick(handler func()) EventHandler { return event("click", handler) }

// OnInput handles input events (fired on every keystroke).
// The handler receives the control's value.
func OnInput(handler any) EventHandler { return event("input", handler) }

// OnChange handles change events (fired when value is committed).
func OnChange(handler any) EventHandler { return event("change", handler) }

// OnSubmit handles form submit events.
func OnSubmit(handler func()) EventHandler { return event("submit", handler) }

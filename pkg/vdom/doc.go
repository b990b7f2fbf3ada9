// Package vdom provides the virtual DOM used to describe the signup views.
//
// A view is a tree of VNodes built with variadic element functions:
//
//	Form(OnSubmit(submit).PreventDefault(),
//	    Label(For("email"), Text("Email")),
//	    Input(ID("email"), Name("email"), Required(), OnInput(setEmail)),
//	    Button(Type("submit"), Text("Register")),
//	)
//
// Element arguments may be attributes (Attr, []Attr), event handlers
// (EventHandler), children (*VNode, []*VNode, Component) or plain strings,
// which become text nodes. nil arguments are ignored, which keeps
// conditional markup terse.
//
// Event handlers are stored in Props under their "on" name. The renderer
// does not emit them as attributes; it assigns the element a hydration ID
// and records the handler so that events arriving from the browser can be
// routed back to it.
package vdom

// Package render turns VNode trees into HTML.
//
// The renderer handles text and attribute escaping, void elements, boolean
// attributes and hydration IDs. Elements that carry event handlers get a
// sequential data-hid attribute and a data-on-<event> marker; the handler
// itself is recorded in the renderer so that an event naming that HID can
// be dispatched back to Go:
//
//	r := render.NewRenderer(render.RendererConfig{})
//	html, err := r.RenderToString(view)
//	h, ok := r.Handler("h2", "input")
//
// HIDs are assigned in document order and restart at h1 after Reset, so
// two renders of structurally identical trees produce identical HIDs.
//
// RenderPage wraps a body in a complete HTML document with the live client
// script.
package render

// Package server serves the registration form over HTTP and keeps it live
// over a WebSocket.
//
// Each browser gets a form session, identified by a cookie and held in an
// in-memory registry. The page is rendered on the server from the session
// state; the client script forwards input and submit events over /live,
// where they are dispatched by hydration ID to the handlers collected while
// rendering the same view.
//
// # Routes
//
//   - GET  /          the form page (or the confirmation once registered)
//   - POST /register  form fallback for clients without the live connection
//   - GET  /live      WebSocket endpoint
//   - GET  /live.js   client script
//   - GET  /healthz   liveness probe
//   - GET  /metrics   Prometheus metrics, when enabled
//
// # Live connection
//
// Every event is acknowledged. When an event changes the registration
// status, the server answers with a render message carrying the new root
// HTML instead, and other connections bound to the same session receive
// the render as well. Input events that only store a value never re-render,
// so the browser keeps focus and caret position.
package server

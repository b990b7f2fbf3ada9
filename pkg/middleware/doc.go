// Package middleware wraps the handling of live form events.
//
// A Handler applies one decoded client event to a session. Middleware
// decorates a Handler and is composed with Chain, outermost first:
//
//	h := middleware.Chain(
//	    middleware.Recover(),
//	    metrics.Middleware(),
//	    middleware.Tracing(middleware.WithTracerName("signup")),
//	    middleware.Logging(logger),
//	)(dispatch)
//
// # Prometheus Metrics
//
// Metrics collects:
//   - signup_events_total: events processed by type and result
//   - signup_event_duration_seconds: event processing duration histogram
//   - signup_registrations_total: sessions that reached the registered state
//   - signup_active_sessions: sessions currently held by the server
//   - signup_live_connections: open WebSocket connections
//   - signup_websocket_errors_total: WebSocket errors by type
//
// # OpenTelemetry
//
// Tracing starts one span per event using the global tracer provider unless
// one is supplied. Spans carry the session ID, event type, target HID and
// field name. Field values are never recorded.
package middleware

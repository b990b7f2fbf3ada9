package server

import "errors"

var (
	// ErrSessionNotFound is returned when a request carries no usable session cookie.
	ErrSessionNotFound = errors.New("server: session not found")

	// ErrHandlerNotFound is returned when no handler is registered for an HID.
	ErrHandlerNotFound = errors.New("server: handler not found")

	// ErrUnsupportedHandler is returned when a handler has a signature the
	// dispatcher cannot call.
	ErrUnsupportedHandler = errors.New("server: unsupported handler type")
)

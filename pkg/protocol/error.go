package protocol

import (
	"errors"
	"fmt"
)

// ErrorCode identifies the type of error reported to the client.
type ErrorCode string

const (
	ErrCodeUnknown         ErrorCode = "unknown"           // Unknown error
	ErrCodeInvalidEvent    ErrorCode = "invalid_event"     // Malformed or oversized event
	ErrCodeHandlerNotFound ErrorCode = "handler_not_found" // No handler for HID
	ErrCodeHandlerPanic    ErrorCode = "handler_panic"     // Handler panicked
	ErrCodeSessionExpired  ErrorCode = "session_expired"   // Session no longer valid
	ErrCodeValidation      ErrorCode = "validation"        // Handler rejected the event
	ErrCodeServerError     ErrorCode = "server_error"      // Internal server error
)

// Fatal reports whether the client should stop sending events after
// receiving this code and reload the page.
func (c ErrorCode) Fatal() bool {
	return c == ErrCodeSessionExpired
}

// Error is an event failure carrying the code reported to the client.
type Error struct {
	Code ErrorCode
	Err  error
}

// NewEventError wraps err with a client-facing code.
func NewEventError(code ErrorCode, err error) *Error {
	return &Error{Code: code, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeFor maps an error to its error code.
func CodeFor(err error) ErrorCode {
	var pe *Error
	switch {
	case err == nil:
		return ""
	case errors.As(err, &pe):
		return pe.Code
	case errors.Is(err, ErrMessageTooLarge),
		errors.Is(err, ErrMalformed),
		errors.Is(err, ErrUnknownType),
		errors.Is(err, ErrMissingHID),
		errors.Is(err, ErrValueTooLong):
		return ErrCodeInvalidEvent
	default:
		return ErrCodeUnknown
	}
}

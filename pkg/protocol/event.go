package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// EventType identifies the type of client event.
type EventType string

// Client event types.
const (
	EventInput  EventType = "input"
	EventSubmit EventType = "submit"
	EventPing   EventType = "ping"
)

// String returns the wire name of the event type.
func (et EventType) String() string {
	return string(et)
}

// Valid reports whether et is a known client event type.
func (et EventType) Valid() bool {
	switch et {
	case EventInput, EventSubmit, EventPing:
		return true
	default:
		return false
	}
}

// DOMEvent returns the DOM event name handled for this type
// ("input" or "submit"), or "" for control messages.
func (et EventType) DOMEvent() string {
	switch et {
	case EventInput, EventSubmit:
		return string(et)
	default:
		return ""
	}
}

// Decode errors.
var (
	ErrMessageTooLarge = errors.New("protocol: message too large")
	ErrMalformed       = errors.New("protocol: malformed message")
	ErrUnknownType     = errors.New("protocol: unknown event type")
	ErrMissingHID      = errors.New("protocol: event without hid")
	ErrValueTooLong    = errors.New("protocol: input value too long")
)

// Event is a message sent from the client to the server.
type Event struct {
	Type  EventType `json:"t"`
	Seq   uint64    `json:"seq,omitempty"`
	HID   string    `json:"hid,omitempty"`
	Name  string    `json:"name,omitempty"`
	Value string    `json:"value,omitempty"`
}

// String returns a compact description for logs. The value is never included.
func (e *Event) String() string {
	if e.HID == "" {
		return fmt.Sprintf("Event{%s seq=%d}", e.Type, e.Seq)
	}
	return fmt.Sprintf("Event{%s seq=%d hid=%s name=%s}", e.Type, e.Seq, e.HID, e.Name)
}

// DecodeEvent parses and validates a client message.
func DecodeEvent(data []byte) (*Event, error) {
	if len(data) > MaxMessageSize {
		return nil, ErrMessageTooLarge
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var ev Event
	if err := dec.Decode(&ev); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data", ErrMalformed)
	}

	if err := ev.Validate(); err != nil {
		return nil, err
	}
	return &ev, nil
}

// Validate checks that the event is well formed for its type.
func (e *Event) Validate() error {
	if !e.Type.Valid() {
		return fmt.Errorf("%w %q", ErrUnknownType, e.Type)
	}
	switch e.Type {
	case EventInput:
		if e.HID == "" {
			return ErrMissingHID
		}
		if len(e.Value) > MaxValueLength {
			return ErrValueTooLong
		}
	case EventSubmit:
		if e.HID == "" {
			return ErrMissingHID
		}
	}
	return nil
}

// EncodeEvent encodes a client event. Used by clients written in Go and tests.
func EncodeEvent(e *Event) ([]byte, error) {
	return json.Marshal(e)
}

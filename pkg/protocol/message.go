package protocol

import "encoding/json"

// MessageType identifies the type of server message.
type MessageType string

// Server message types.
const (
	MessageRender MessageType = "render"
	MessageAck    MessageType = "ack"
	MessagePong   MessageType = "pong"
	MessageError  MessageType = "error"
)

// Message is sent from the server to the client.
type Message struct {
	Type    MessageType `json:"t"`
	Seq     uint64      `json:"seq,omitempty"`
	HTML    string      `json:"html,omitempty"`
	Code    ErrorCode   `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
}

// NewRender returns a message that replaces the page root with html.
func NewRender(seq uint64, html string) *Message {
	return &Message{Type: MessageRender, Seq: seq, HTML: html}
}

// NewAck acknowledges the event with the given sequence number.
func NewAck(seq uint64) *Message {
	return &Message{Type: MessageAck, Seq: seq}
}

// NewPong answers a ping.
func NewPong() *Message {
	return &Message{Type: MessagePong}
}

// NewError reports a failed event to the client.
func NewError(seq uint64, code ErrorCode, message string) *Message {
	return &Message{Type: MessageError, Seq: seq, Code: code, Message: message}
}

// Encode encodes a server message.
func Encode(m *Message) ([]byte, error) {
	return json.Marshal(m)
}

// DecodeMessage parses a server message. Used by Go clients and tests.
func DecodeMessage(data []byte) (*Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

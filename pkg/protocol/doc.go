// Package protocol defines the JSON messages exchanged over the live
// WebSocket connection between the browser and the form server.
//
// Every message is a single JSON object whose "t" member names its type.
//
// Client to server:
//
//	{"t":"input","seq":3,"hid":"h2","name":"username","value":"alice"}
//	{"t":"submit","seq":4,"hid":"h1"}
//	{"t":"ping"}
//
// Server to client:
//
//	{"t":"ack","seq":3}
//	{"t":"render","seq":4,"html":"<p ...>Registration successful!</p>"}
//	{"t":"pong"}
//	{"t":"error","seq":5,"code":"handler_not_found","message":"..."}
//
// The HID ("hydration ID") names the interactive element that produced the
// event, as assigned by the server-side renderer (data-hid attribute).
// A render message carries the full inner HTML of the page root and is
// only sent when the rendered view changed shape; input events that merely
// store a value are acknowledged.
package protocol

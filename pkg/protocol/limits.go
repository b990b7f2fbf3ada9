package protocol

// MaxValueLength bounds the value of an input event in bytes. It is far
// above anything typed into a text input.
const MaxValueLength = 64 * 1024

// MaxMessageSize bounds a single client message in bytes. It fits an input
// event whose value is MaxValueLength bytes that all need \u escapes.
const MaxMessageSize = 6*MaxValueLength + 4*1024

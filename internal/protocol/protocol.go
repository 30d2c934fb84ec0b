// Package protocol defines the wire format spoken between the booking
// server and its clients: one JSON object per line, UTF-8, terminated by a
// single '\n', in both directions. Requests are free-form maps inspected
// through typed accessors; responses always carry a "status" field.
package protocol

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Status values carried by every response.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Request is one decoded client message. Field access goes through the
// typed accessors below; raw map access is reserved for the router's
// action lookup.
type Request map[string]any

// StringField returns the named field as a non-empty string. The second
// return value is false when the field is absent, not a string, or empty.
func (r Request) StringField(name string) (string, bool) {
	v, ok := r[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// IntField returns the named field as an int64. The framer decodes JSON
// numbers as json.Number, and the reference client also sends numeric
// values as decimal strings, so both forms are accepted. Parsing is a
// strict bounded base-10 parse: floats, junk, and values outside int64
// range are rejected. The second return value is false when the field is
// absent or not a valid integer.
func (r Request) IntField(name string) (int64, bool) {
	v, ok := r[name]
	if !ok {
		return 0, false
	}
	var s string
	switch t := v.(type) {
	case json.Number:
		s = t.String()
	case string:
		s = t
	default:
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Has reports whether the named field is present at all.
func (r Request) Has(name string) bool {
	_, ok := r[name]
	return ok
}

// Response is one server message. Values must be JSON-encodable.
type Response map[string]any

// Success returns a response with status "success". Additional fields are
// attached with With.
func Success() Response {
	return Response{"status": StatusSuccess}
}

// Error returns a response with status "error" and the given client-facing
// message.
func Error(message string) Response {
	return Response{"status": StatusError, "message": message}
}

// Errorf is Error with fmt.Sprintf formatting.
func Errorf(format string, args ...any) Response {
	return Error(fmt.Sprintf(format, args...))
}

// With attaches a field to the response and returns it for chaining.
func (r Response) With(key string, value any) Response {
	r[key] = value
	return r
}

// IsSuccess reports whether the response carries a success status.
func (r Response) IsSuccess() bool {
	return r["status"] == StatusSuccess
}

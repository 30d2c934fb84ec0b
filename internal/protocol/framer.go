package protocol

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// maxLineLength bounds a single request line. 64 KB is generous for a
// protocol whose largest message is a login or purchase request; anything
// beyond it means the peer is not speaking the protocol.
const maxLineLength = 64 * 1024

// ErrMalformed marks a payload that arrived framed correctly but could not
// be decoded as a JSON object. It is recoverable: the connection stays
// open and the caller answers with an error response. Any other error from
// ReadRequest means the stream itself is unusable.
var ErrMalformed = errors.New("malformed request")

// Framer turns a byte stream into a sequence of Requests and writes
// Responses back, one per line. It owns the buffering for partial reads:
// a request is only surfaced once its terminator has been observed. A
// Framer is bound to a single connection and is not safe for concurrent
// use, matching the one-worker-per-connection model.
type Framer struct {
	scanner *bufio.Scanner
	w       *bufio.Writer
}

// NewFramer wraps a connection. The reader side buffers across short
// socket reads; the writer side flushes on every response.
func NewFramer(rw io.ReadWriter) *Framer {
	scanner := bufio.NewScanner(rw)
	scanner.Buffer(make([]byte, 4096), maxLineLength)
	return &Framer{
		scanner: scanner,
		w:       bufio.NewWriter(rw),
	}
}

// ReadRequest blocks until one complete line has been received and decodes
// it. Blank lines are skipped. Decode failures return an error wrapping
// ErrMalformed; read failures (including a cleanly closed peer, reported
// as io.EOF) are returned as-is and end the connection.
func (f *Framer) ReadRequest() (Request, error) {
	for {
		if !f.scanner.Scan() {
			if err := f.scanner.Err(); err != nil {
				return nil, fmt.Errorf("read request line: %w", err)
			}
			return nil, io.EOF
		}
		line := bytes.TrimSpace(f.scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(line))
		dec.UseNumber()
		var req Request
		if err := dec.Decode(&req); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return req, nil
	}
}

// WriteResponse serializes the response and appends exactly one
// terminator. encoding/json escapes newlines inside string values, so the
// terminator can never appear inside a field.
func (f *Framer) WriteResponse(resp Response) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	if _, err := f.w.Write(payload); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	if err := f.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("write response terminator: %w", err)
	}
	if err := f.w.Flush(); err != nil {
		return fmt.Errorf("flush response: %w", err)
	}
	return nil
}

package protocol

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stream glues an input reader and output buffer into the io.ReadWriter a
// Framer expects from a connection.
type stream struct {
	io.Reader
	io.Writer
}

func newStream(input string) (*stream, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &stream{Reader: strings.NewReader(input), Writer: out}, out
}

// trickleReader yields one byte per Read call, simulating a peer whose
// request arrives across many short socket reads.
type trickleReader struct{ rest []byte }

func (r *trickleReader) Read(p []byte) (int, error) {
	if len(r.rest) == 0 {
		return 0, io.EOF
	}
	p[0] = r.rest[0]
	r.rest = r.rest[1:]
	return 1, nil
}

func TestReadRequestSequence(t *testing.T) {
	conn, _ := newStream(`{"action":"view_events"}` + "\n" + `{"action":"login","username":"alice"}` + "\n")
	f := NewFramer(conn)

	req, err := f.ReadRequest()
	require.NoError(t, err)
	action, _ := req.StringField("action")
	assert.Equal(t, "view_events", action)

	req, err = f.ReadRequest()
	require.NoError(t, err)
	user, _ := req.StringField("username")
	assert.Equal(t, "alice", user)

	_, err = f.ReadRequest()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadRequestPartialReads(t *testing.T) {
	conn := &stream{
		Reader: &trickleReader{rest: []byte(`{"action":"check_points","user_id":7}` + "\n")},
		Writer: io.Discard,
	}
	f := NewFramer(conn)

	req, err := f.ReadRequest()
	require.NoError(t, err)
	id, ok := req.IntField("user_id")
	assert.True(t, ok)
	assert.Equal(t, int64(7), id)
}

func TestReadRequestMalformedIsRecoverable(t *testing.T) {
	conn, _ := newStream("this is not json\n" + `{"action":"ping"}` + "\n")
	f := NewFramer(conn)

	_, err := f.ReadRequest()
	assert.ErrorIs(t, err, ErrMalformed)

	// The framer stays in sync: the next line decodes fine.
	req, err := f.ReadRequest()
	require.NoError(t, err)
	action, _ := req.StringField("action")
	assert.Equal(t, "ping", action)
}

func TestReadRequestSkipsBlankLines(t *testing.T) {
	conn, _ := newStream("\n  \n" + `{"action":"ping"}` + "\n")
	f := NewFramer(conn)

	req, err := f.ReadRequest()
	require.NoError(t, err)
	action, _ := req.StringField("action")
	assert.Equal(t, "ping", action)
}

func TestWriteResponseFraming(t *testing.T) {
	conn, out := newStream("")
	f := NewFramer(conn)

	require.NoError(t, f.WriteResponse(Error("nope")))
	require.NoError(t, f.WriteResponse(Success()))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 2, "exactly one terminator per response")
	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "error", first["status"])
}

func TestWriteResponseEscapesTerminator(t *testing.T) {
	conn, out := newStream("")
	f := NewFramer(conn)

	require.NoError(t, f.WriteResponse(Error("line one\nline two")))

	encoded := out.String()
	require.True(t, strings.HasSuffix(encoded, "\n"))
	body := strings.TrimSuffix(encoded, "\n")
	assert.NotContains(t, body, "\n", "terminator must never appear inside a frame")

	var resp map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	assert.Equal(t, "line one\nline two", resp["message"], "escaping must round-trip")
}

func TestReadRequestOverlongLine(t *testing.T) {
	conn, _ := newStream(`{"padding":"` + strings.Repeat("x", maxLineLength) + `"}` + "\n")
	f := NewFramer(conn)

	_, err := f.ReadRequest()
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMalformed, "an overlong line loses framing and is fatal")
}

package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionLifecycle(t *testing.T) {
	s := New("127.0.0.1:50000")
	assert.False(t, s.Authenticated())
	assert.Zero(t, s.UserID())

	s.Bind(42)
	assert.True(t, s.Authenticated())
	assert.Equal(t, int64(42), s.UserID())

	// A later login on the same connection rebinds.
	s.Bind(7)
	assert.Equal(t, int64(7), s.UserID())
}

// Package session holds the per-connection authentication state. A
// session is created when a connection is accepted, bound to a user by a
// successful login, and discarded when the connection closes. It is never
// persisted and never shared between connections; the owning worker is the
// only goroutine that touches it, so no locking is needed.
package session

// Session is one connection's identity.
type Session struct {
	// RemoteAddr is the peer address, kept for logging.
	RemoteAddr string

	userID int64
}

// New returns an unauthenticated session for the given peer.
func New(remoteAddr string) *Session {
	return &Session{RemoteAddr: remoteAddr}
}

// Bind records a successful login. A later login on the same connection
// rebinds the session to the new user.
func (s *Session) Bind(userID int64) {
	s.userID = userID
}

// UserID returns the bound user id, or 0 when not logged in.
func (s *Session) UserID() int64 {
	return s.userID
}

// Authenticated reports whether a login has succeeded on this connection.
func (s *Session) Authenticated() bool {
	return s.userID != 0
}

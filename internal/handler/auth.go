package handler

import (
	"context"

	"github.com/iliyamo/concert-ticket-booking/internal/protocol"
	"github.com/iliyamo/concert-ticket-booking/internal/session"
)

// Register creates a new user with the default starting balance. The
// username's uniqueness is enforced by the store's constraint, so two
// concurrent registrations of the same name cannot both succeed. The
// session is left untouched; registering does not log in.
func (h *Handler) Register(ctx context.Context, _ *session.Session, req protocol.Request) protocol.Response {
	username, ok := req.StringField("username")
	if !ok {
		return protocol.Error("Invalid username")
	}
	password, ok := req.StringField("password")
	if !ok {
		return protocol.Error("Invalid password")
	}
	ctx, cancel := dbContext(ctx)
	defer cancel()
	if _, err := h.Users.Create(ctx, username, password); err != nil {
		return errorResponse(err)
	}
	return protocol.Success().With("message", "User registered successfully")
}

// Login authenticates by exact username and password match in a single
// store lookup and binds the session to the matched user. A second login
// on the same connection rebinds it.
func (h *Handler) Login(ctx context.Context, sess *session.Session, req protocol.Request) protocol.Response {
	username, ok := req.StringField("username")
	if !ok {
		return protocol.Error("Invalid username")
	}
	password, ok := req.StringField("password")
	if !ok {
		return protocol.Error("Invalid password")
	}
	ctx, cancel := dbContext(ctx)
	defer cancel()
	u, err := h.Users.Authenticate(ctx, username, password)
	if err != nil {
		return errorResponse(err)
	}
	sess.Bind(u.ID)
	return protocol.Success().With("user_id", u.ID).With("points", u.Points)
}

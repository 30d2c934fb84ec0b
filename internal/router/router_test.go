package router

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/concert-ticket-booking/internal/protocol"
	"github.com/iliyamo/concert-ticket-booking/internal/session"
)

func echoHandler(name string) HandlerFunc {
	return func(_ context.Context, _ *session.Session, _ protocol.Request) protocol.Response {
		return protocol.Success().With("handler", name)
	}
}

func testRouter() *Router {
	r := New()
	r.Handle("login", echoHandler("login"), "username", "password")
	r.Handle("view_events", echoHandler("view_events"))
	r.HandleAuthed("check_points", echoHandler("check_points"))
	r.HandleAuthed("add_funds", echoHandler("add_funds"), "amount")
	return r
}

func TestDispatchRoutesToHandler(t *testing.T) {
	r := testRouter()
	sess := session.New("test")

	resp := r.Dispatch(context.Background(), sess, protocol.Request{
		"action": "login", "username": "alice", "password": "pw",
	})
	require.True(t, resp.IsSuccess())
	assert.Equal(t, "login", resp["handler"])
}

func TestDispatchUnknownAction(t *testing.T) {
	r := testRouter()
	resp := r.Dispatch(context.Background(), session.New("test"), protocol.Request{"action": "drop_tables"})
	assert.False(t, resp.IsSuccess())
	assert.Equal(t, "Unknown action", resp["message"])
}

func TestDispatchMissingAction(t *testing.T) {
	r := testRouter()
	resp := r.Dispatch(context.Background(), session.New("test"), protocol.Request{})
	assert.Equal(t, "Missing field: action", resp["message"])
}

func TestDispatchMissingRequiredField(t *testing.T) {
	r := testRouter()
	resp := r.Dispatch(context.Background(), session.New("test"), protocol.Request{
		"action": "login", "username": "alice",
	})
	assert.Equal(t, "Missing field: password", resp["message"])
}

func TestDispatchRequiresLogin(t *testing.T) {
	r := testRouter()
	sess := session.New("test")

	resp := r.Dispatch(context.Background(), sess, protocol.Request{"action": "check_points"})
	assert.Equal(t, "Login required", resp["message"])

	sess.Bind(42)
	resp = r.Dispatch(context.Background(), sess, protocol.Request{"action": "check_points"})
	assert.True(t, resp.IsSuccess())
}

func TestDispatchUserIDMustMatchSession(t *testing.T) {
	r := testRouter()
	sess := session.New("test")
	sess.Bind(42)

	// Matching id is tolerated, as number or string.
	for _, id := range []any{json.Number("42"), "42"} {
		resp := r.Dispatch(context.Background(), sess, protocol.Request{"action": "check_points", "user_id": id})
		assert.True(t, resp.IsSuccess())
	}

	// Another user's id is refused: per-user actions bind to the session.
	resp := r.Dispatch(context.Background(), sess, protocol.Request{"action": "check_points", "user_id": json.Number("7")})
	assert.Equal(t, "User mismatch", resp["message"])

	resp = r.Dispatch(context.Background(), sess, protocol.Request{"action": "check_points", "user_id": "7; DROP TABLE users"})
	assert.Equal(t, "Invalid user_id", resp["message"])
}

func TestDispatchOpenActionsNeedNoSession(t *testing.T) {
	r := testRouter()
	resp := r.Dispatch(context.Background(), session.New("test"), protocol.Request{"action": "view_events"})
	assert.True(t, resp.IsSuccess())
}

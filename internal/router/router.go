// Package router maps a decoded request's action to its transaction
// handler. It owns the cross-cutting request checks: required fields,
// login gating for per-user actions, and the session/user_id consistency
// rule. It never touches the store.
package router

import (
	"context"

	"github.com/iliyamo/concert-ticket-booking/internal/handler"
	"github.com/iliyamo/concert-ticket-booking/internal/protocol"
	"github.com/iliyamo/concert-ticket-booking/internal/session"
)

// HandlerFunc is one transaction handler. It may mutate the session (login
// does) and must always return a response.
type HandlerFunc func(ctx context.Context, sess *session.Session, req protocol.Request) protocol.Response

type route struct {
	handler   HandlerFunc
	required  []string
	needsAuth bool
}

// Router dispatches requests by action name. Registration happens once at
// startup; Dispatch is called concurrently by all connection workers.
type Router struct {
	routes map[string]route
}

func New() *Router {
	return &Router{routes: make(map[string]route)}
}

// Handle registers an action open to unauthenticated sessions. The named
// fields must be present on every request.
func (r *Router) Handle(action string, h HandlerFunc, required ...string) {
	r.routes[action] = route{handler: h, required: required}
}

// HandleAuthed registers an action that requires a logged-in session.
// Per-user actions always operate on the session's bound identity; a
// client-supplied user_id is tolerated but must agree with it.
func (r *Router) HandleAuthed(action string, h HandlerFunc, required ...string) {
	r.routes[action] = route{handler: h, required: required, needsAuth: true}
}

// Dispatch validates the request envelope and invokes the matching
// handler. Validation failures are ordinary error responses; the
// connection stays open.
func (r *Router) Dispatch(ctx context.Context, sess *session.Session, req protocol.Request) protocol.Response {
	action, ok := req.StringField("action")
	if !ok {
		return protocol.Error("Missing field: action")
	}
	rt, ok := r.routes[action]
	if !ok {
		return protocol.Error("Unknown action")
	}
	for _, field := range rt.required {
		if !req.Has(field) {
			return protocol.Errorf("Missing field: %s", field)
		}
	}
	if rt.needsAuth {
		if !sess.Authenticated() {
			return protocol.Error("Login required")
		}
		if req.Has("user_id") {
			userID, ok := req.IntField("user_id")
			if !ok {
				return protocol.Error("Invalid user_id")
			}
			if userID != sess.UserID() {
				return protocol.Error("User mismatch")
			}
		}
	}
	return rt.handler(ctx, sess, req)
}

// Default builds the production action table.
func Default(h *handler.Handler) *Router {
	r := New()
	r.Handle("register", h.Register, "username", "password")
	r.Handle("login", h.Login, "username", "password")
	r.Handle("view_events", h.ViewEvents)
	r.HandleAuthed("purchase_ticket", h.PurchaseTicket, "event_id", "ticket_type")
	r.HandleAuthed("check_points", h.CheckPoints)
	r.HandleAuthed("add_funds", h.AddFunds, "amount")
	r.HandleAuthed("view_purchases", h.ViewPurchases)
	return r
}

// Package handler implements one transaction handler per protocol action.
// Handlers receive the connection's session and the decoded request,
// execute against the ledger store, and return a response record. They
// never terminate the connection: every failure, including store failures,
// becomes an error response.
package handler

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/iliyamo/concert-ticket-booking/internal/protocol"
	"github.com/iliyamo/concert-ticket-booking/internal/queue"
	"github.com/iliyamo/concert-ticket-booking/internal/repository"
)

// dbTimeout bounds every store call issued on behalf of one request.
const dbTimeout = 5 * time.Second

// Handler bundles the repositories behind the protocol actions. All
// methods are safe for concurrent use; shared state lives in the store.
type Handler struct {
	Users     *repository.UserRepo
	Events    *repository.EventRepo
	Purchases *repository.PurchaseRepo

	// PublishPurchase, when set, is invoked after a purchase commits.
	// Failures are the publisher's to log; they never reach the client.
	PublishPurchase func(ctx context.Context, ev queue.TicketPurchasedEvent)
}

// New constructs a Handler. The publisher is optional and wired by main.
func New(users *repository.UserRepo, events *repository.EventRepo, purchases *repository.PurchaseRepo) *Handler {
	if users == nil || events == nil || purchases == nil {
		panic("nil repository passed to handler.New")
	}
	return &Handler{Users: users, Events: events, Purchases: purchases}
}

// dbContext derives the bounded context used for store access.
func dbContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, dbTimeout)
}

// errorResponse maps an error from the store layer to a client-facing
// response. Domain errors carry their own message; anything else is a
// store failure whose detail is logged server-side and replaced with a
// generic message.
func errorResponse(err error) protocol.Response {
	switch {
	case errors.Is(err, repository.ErrUsernameTaken):
		return protocol.Error("Username already exists")
	case errors.Is(err, repository.ErrInvalidCredentials):
		return protocol.Error("Invalid credentials")
	case errors.Is(err, repository.ErrUserNotFound):
		return protocol.Error("User not found")
	case errors.Is(err, repository.ErrEventNotFound):
		return protocol.Error("Event not found")
	case errors.Is(err, repository.ErrInsufficientPoints):
		return protocol.Error("Not enough points")
	case errors.Is(err, repository.ErrVIPSoldOut):
		return protocol.Error("VIP tickets sold out")
	case errors.Is(err, repository.ErrRegularSoldOut):
		return protocol.Error("Regular tickets sold out")
	default:
		log.Printf("handler: store error: %v", err)
		return protocol.Error("An error occurred")
	}
}

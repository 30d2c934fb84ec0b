package handler

import (
	"context"

	"github.com/iliyamo/concert-ticket-booking/internal/protocol"
	"github.com/iliyamo/concert-ticket-booking/internal/session"
)

// ViewPurchases returns the session user's purchase history, newest first.
// Purchases whose event has since been removed still list, with a
// placeholder event name supplied by the store query.
func (h *Handler) ViewPurchases(ctx context.Context, sess *session.Session, _ protocol.Request) protocol.Response {
	ctx, cancel := dbContext(ctx)
	defer cancel()
	purchases, err := h.Purchases.ListByUser(ctx, sess.UserID())
	if err != nil {
		return errorResponse(err)
	}
	return protocol.Success().With("purchases", purchases)
}

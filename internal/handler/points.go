package handler

import (
	"context"

	"github.com/iliyamo/concert-ticket-booking/internal/protocol"
	"github.com/iliyamo/concert-ticket-booking/internal/session"
)

// maxFundAmount caps a single credit so the points column stays far from
// integer overflow even under repeated top-ups.
const maxFundAmount = 1_000_000

// CheckPoints re-reads the session user's balance from the store. No
// value is ever served from memory: staleness is what causes double-spend.
func (h *Handler) CheckPoints(ctx context.Context, sess *session.Session, _ protocol.Request) protocol.Response {
	ctx, cancel := dbContext(ctx)
	defer cancel()
	points, err := h.Users.Points(ctx, sess.UserID())
	if err != nil {
		return errorResponse(err)
	}
	return protocol.Success().With("points", points)
}

// AddFunds credits the session user's balance. The amount is a strictly
// parsed bounded integer; anything non-numeric, non-positive, or above the
// cap is rejected before the store is touched.
func (h *Handler) AddFunds(ctx context.Context, sess *session.Session, req protocol.Request) protocol.Response {
	amount, ok := req.IntField("amount")
	if !ok || amount <= 0 || amount > maxFundAmount {
		return protocol.Error("Amount must be a positive integer")
	}
	ctx, cancel := dbContext(ctx)
	defer cancel()
	if err := h.Users.AddPoints(ctx, sess.UserID(), amount); err != nil {
		return errorResponse(err)
	}
	return protocol.Success().With("message", "Funds added successfully")
}

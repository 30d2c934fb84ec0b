package handler

import (
	"context"

	"github.com/iliyamo/concert-ticket-booking/internal/protocol"
	"github.com/iliyamo/concert-ticket-booking/internal/session"
)

// ViewEvents returns the full event list with inventory and prices for
// both tiers, ordered by id. No login required.
func (h *Handler) ViewEvents(ctx context.Context, _ *session.Session, _ protocol.Request) protocol.Response {
	ctx, cancel := dbContext(ctx)
	defer cancel()
	events, err := h.Events.List(ctx)
	if err != nil {
		return errorResponse(err)
	}
	return protocol.Success().With("events", events)
}

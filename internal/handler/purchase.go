package handler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/iliyamo/concert-ticket-booking/internal/protocol"
	"github.com/iliyamo/concert-ticket-booking/internal/queue"
	"github.com/iliyamo/concert-ticket-booking/internal/repository"
	"github.com/iliyamo/concert-ticket-booking/internal/session"
)

// Loyalty pricing: from the fourth purchase on (three already in the
// ledger), the ticket costs 90% of its nominal price, rounded down to a
// whole point.
const loyaltyThreshold = 3

// ticketPrice returns the price actually charged for a ticket with the
// given nominal cost, given how many purchases the user has already made.
func ticketPrice(nominal, priorPurchases int64) int64 {
	if priorPurchases >= loyaltyThreshold {
		return nominal * 9 / 10
	}
	return nominal
}

// guardPurchase runs the ordered purchase checks against state read under
// row locks. First failure wins: affordability is reported before stock,
// regardless of inventory.
func guardPurchase(tier string, price, points int64, event repository.Event) error {
	switch {
	case price > points:
		return repository.ErrInsufficientPoints
	case tier == repository.TierVIP && event.VIPTickets <= 0:
		return repository.ErrVIPSoldOut
	case tier == repository.TierRegular && event.AvailableTickets <= 0:
		return repository.ErrRegularSoldOut
	}
	return nil
}

// PurchaseTicket debits the buyer, decrements the tier's inventory and
// appends the purchase row, all inside one transaction. The user and
// event rows are read under FOR UPDATE locks before any guard runs, so two
// concurrent purchases of the last ticket serialize: the second sees the
// decremented inventory and fails cleanly. Locks are always taken in user
// then event order to keep concurrent transactions deadlock-free.
func (h *Handler) PurchaseTicket(ctx context.Context, sess *session.Session, req protocol.Request) protocol.Response {
	eventID, ok := req.IntField("event_id")
	if !ok || eventID <= 0 {
		return protocol.Error("Invalid event_id")
	}
	tier, ok := req.StringField("ticket_type")
	if !ok || !repository.ValidTier(tier) {
		return protocol.Error("Invalid ticket type")
	}
	userID := sess.UserID()

	ctx, cancel := dbContext(ctx)
	defer cancel()
	tx, err := h.Events.DB().BeginTx(ctx, nil)
	if err != nil {
		return errorResponse(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	points, err := h.Users.PointsForUpdateTx(ctx, tx, userID)
	if err != nil {
		return errorResponse(err)
	}
	event, err := h.Events.GetForUpdateTx(ctx, tx, eventID)
	if err != nil {
		return errorResponse(err)
	}
	prior, err := h.Purchases.CountByUserTx(ctx, tx, userID)
	if err != nil {
		return errorResponse(err)
	}

	nominal := event.RegularCost
	if tier == repository.TierVIP {
		nominal = event.VIPCost
	}
	price := ticketPrice(nominal, prior)
	if err := guardPurchase(tier, price, points, event); err != nil {
		return errorResponse(err)
	}

	if err := h.Users.DebitTx(ctx, tx, userID, price); err != nil {
		return errorResponse(err)
	}
	if err := h.Events.DecrementTicketsTx(ctx, tx, eventID, tier); err != nil {
		return errorResponse(err)
	}
	purchaseID, err := h.Purchases.CreateTx(ctx, tx, userID, eventID, tier)
	if err != nil {
		return errorResponse(err)
	}
	if err := tx.Commit(); err != nil {
		return errorResponse(err)
	}
	committed = true
	log.Printf("purchase: user=%d event=%d tier=%s price=%d", userID, eventID, tier, price)

	if h.PublishPurchase != nil {
		h.PublishPurchase(ctx, queue.TicketPurchasedEvent{
			PurchaseID:  purchaseID,
			UserID:      userID,
			EventID:     eventID,
			EventName:   event.Name,
			TicketType:  tier,
			PricePoints: price,
			PurchasedAt: time.Now().UTC().Format(time.RFC3339),
		})
	}

	return protocol.Success().With("message",
		fmt.Sprintf("%s Ticket purchased for %d points", tier, price))
}

// Package queue defines message payloads exchanged over the message broker.
package queue

// TicketPurchasedEvent is published after a purchase transaction commits.
// It carries enough for downstream consumers to log or notify without
// querying the ledger.
type TicketPurchasedEvent struct {
	PurchaseID  int64  `json:"purchase_id"`
	UserID      int64  `json:"user_id"`
	EventID     int64  `json:"event_id"`
	EventName   string `json:"event_name"`
	TicketType  string `json:"ticket_type"`
	PricePoints int64  `json:"price_points"`
	PurchasedAt string `json:"purchased_at"`
}

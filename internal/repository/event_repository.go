package repository

import (
	"context"
	"database/sql"
)

// Ticket tiers. Each tier has its own inventory counter and price on the
// event row.
const (
	TierRegular = "Regular"
	TierVIP     = "VIP"
)

// ValidTier reports whether s names a known ticket tier. Comparison is
// exact; the client normalizes case before sending.
func ValidTier(s string) bool {
	return s == TierRegular || s == TierVIP
}

// Event mirrors the 'events' table.
type Event struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	AvailableTickets int64  `json:"available_tickets"`
	VIPTickets       int64  `json:"vip_tickets"`
	RegularCost      int64  `json:"regular_cost"`
	VIPCost          int64  `json:"vip_cost"`
}

type EventRepo struct{ db *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// DB exposes the underlying pool so handlers can open transactions that
// span repositories.
func (r *EventRepo) DB() *sql.DB { return r.db }

// List returns every event ordered by id ascending.
func (r *EventRepo) List(ctx context.Context) ([]Event, error) {
	const q = `SELECT id, name, available_tickets, vip_tickets, regular_cost, vip_cost
	           FROM events ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]Event, 0)
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Name, &e.AvailableTickets, &e.VIPTickets, &e.RegularCost, &e.VIPCost); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// GetForUpdateTx reads an event under a row lock inside the given
// transaction. Inventory and prices observed through this method stay
// valid until the transaction ends, which is what makes the purchase
// guard-then-decrement sequence safe under concurrency.
func (r *EventRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, eventID int64) (Event, error) {
	const q = `SELECT id, name, available_tickets, vip_tickets, regular_cost, vip_cost
	           FROM events WHERE id = ? FOR UPDATE`
	var e Event
	err := tx.QueryRowContext(ctx, q, eventID).Scan(
		&e.ID, &e.Name, &e.AvailableTickets, &e.VIPTickets, &e.RegularCost, &e.VIPCost)
	if err == sql.ErrNoRows {
		return Event{}, ErrEventNotFound
	}
	return e, err
}

// DecrementTicketsTx takes one ticket from the tier's inventory inside the
// given transaction. The WHERE guard refuses to go below zero; a zero row
// count maps to the tier's sold-out error as a second line of defense
// behind the caller's locked read.
func (r *EventRepo) DecrementTicketsTx(ctx context.Context, tx *sql.Tx, eventID int64, tier string) error {
	var q string
	var soldOut error
	if tier == TierVIP {
		q = "UPDATE events SET vip_tickets = vip_tickets - 1 WHERE id = ? AND vip_tickets > 0"
		soldOut = ErrVIPSoldOut
	} else {
		q = "UPDATE events SET available_tickets = available_tickets - 1 WHERE id = ? AND available_tickets > 0"
		soldOut = ErrRegularSoldOut
	}
	res, err := tx.ExecContext(ctx, q, eventID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return soldOut
	}
	return nil
}

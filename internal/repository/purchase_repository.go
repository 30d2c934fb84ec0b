package repository

import (
	"context"
	"database/sql"
	"time"
)

// unknownEventName is substituted when a purchase references an event that
// no longer exists. History must keep rendering after an event is removed.
const unknownEventName = "Unknown event"

// PurchaseDetail is one row of a user's purchase history, joined against
// the event it was bought for.
type PurchaseDetail struct {
	ID           int64  `json:"id"`
	EventID      int64  `json:"event_id"`
	TicketType   string `json:"ticket_type"`
	PurchaseDate string `json:"purchase_date"`
	EventName    string `json:"event_name"`
}

type PurchaseRepo struct{ db *sql.DB }

func NewPurchaseRepo(db *sql.DB) *PurchaseRepo { return &PurchaseRepo{db: db} }

// CountByUserTx returns how many purchases the user has completed, read
// inside the given transaction. Used for loyalty pricing; the count must
// come from the same transaction that records the new purchase.
func (r *PurchaseRepo) CountByUserTx(ctx context.Context, tx *sql.Tx, userID int64) (int64, error) {
	var count int64
	err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM purchases WHERE user_id = ?", userID).Scan(&count)
	return count, err
}

// CreateTx appends a purchase row inside the given transaction. The
// purchase_date column takes its store-assigned default. The ledger is
// append-only: there is deliberately no update or delete counterpart.
func (r *PurchaseRepo) CreateTx(ctx context.Context, tx *sql.Tx, userID, eventID int64, tier string) (int64, error) {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO purchases (user_id, event_id, ticket_type) VALUES (?, ?, ?)",
		userID, eventID, tier)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListByUser returns the user's purchase history, newest first. Events are
// left-joined so a purchase whose event was removed still lists, with a
// placeholder name. Same-timestamp purchases tie-break on id descending to
// keep the ordering deterministic.
func (r *PurchaseRepo) ListByUser(ctx context.Context, userID int64) ([]PurchaseDetail, error) {
	const q = `SELECT p.id, p.event_id, p.ticket_type, p.purchase_date, COALESCE(e.name, ?)
	           FROM purchases p
	           LEFT JOIN events e ON e.id = p.event_id
	           WHERE p.user_id = ?
	           ORDER BY p.purchase_date DESC, p.id DESC`
	rows, err := r.db.QueryContext(ctx, q, unknownEventName, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	purchases := make([]PurchaseDetail, 0)
	for rows.Next() {
		var d PurchaseDetail
		var purchasedAt time.Time
		if err := rows.Scan(&d.ID, &d.EventID, &d.TicketType, &purchasedAt, &d.EventName); err != nil {
			return nil, err
		}
		d.PurchaseDate = purchasedAt.UTC().Format(time.RFC3339)
		purchases = append(purchases, d)
	}
	return purchases, rows.Err()
}

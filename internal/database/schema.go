package database

import (
	"context"
	"database/sql"
	"log"
)

// Table definitions for the ledger store. Inventory and balance columns
// are plain signed ints; non-negativity is upheld by the purchase
// transaction's guarded updates, not by the schema.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT PRIMARY KEY AUTO_INCREMENT,
		username VARCHAR(64) NOT NULL UNIQUE,
		password VARCHAR(128) NOT NULL,
		points INT NOT NULL DEFAULT 100
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id BIGINT PRIMARY KEY AUTO_INCREMENT,
		name VARCHAR(255) NOT NULL,
		available_tickets INT NOT NULL,
		vip_tickets INT NOT NULL DEFAULT 10,
		regular_cost INT NOT NULL,
		vip_cost INT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS purchases (
		id BIGINT PRIMARY KEY AUTO_INCREMENT,
		user_id BIGINT NOT NULL,
		event_id BIGINT NOT NULL,
		ticket_type VARCHAR(16) NOT NULL,
		purchase_date DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_purchases_user (user_id)
	)`,
}

// seedEvent is one row of the initial concert catalogue.
type seedEvent struct {
	name             string
	availableTickets int
	vipTickets       int
	regularCost      int
	vipCost          int
}

var seedEvents = []seedEvent{
	{"LiSA Live Concert", 50, 10, 40, 80},
	{"Eir Aoi Anime Night", 60, 10, 30, 70},
	{"Aimer: The Nightingale Tour", 70, 10, 35, 75},
	{"Yuki Kajiura: Fate Soundtracks Live", 40, 5, 50, 100},
	{"Hiroyuki Sawano: Attack on Titan OST Concert", 80, 8, 45, 90},
	{"Kenshi Yonezu: Chainsaw Man Opening Live", 100, 12, 50, 100},
	{"ClariS Special Anime Live", 55, 10, 25, 60},
	{"FLOW Naruto & Code Geass Concert", 90, 15, 30, 70},
	{"ReoNa SAO Alicization Tour", 65, 10, 35, 75},
	{"fripSide: Railgun Electro Night", 75, 10, 40, 85},
}

// EnsureSchema creates the ledger tables when missing and seeds the
// concert catalogue on a fresh database. Seeding only runs when the events
// table is empty, so restarts never duplicate the catalogue.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	var count int64
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM events").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	const insert = `INSERT INTO events (name, available_tickets, vip_tickets, regular_cost, vip_cost)
	                VALUES (?, ?, ?, ?, ?)`
	for _, ev := range seedEvents {
		if _, err := db.ExecContext(ctx, insert,
			ev.name, ev.availableTickets, ev.vipTickets, ev.regularCost, ev.vipCost); err != nil {
			return err
		}
	}
	log.Printf("database: seeded %d events", len(seedEvents))
	return nil
}

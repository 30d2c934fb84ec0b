package handler

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/concert-ticket-booking/internal/protocol"
	"github.com/iliyamo/concert-ticket-booking/internal/session"
)

// Amount validation happens before any store access, so these run against
// a zero-value Handler.

func TestAddFundsRejectsInvalidAmounts(t *testing.T) {
	h := &Handler{}
	sess := session.New("test")
	sess.Bind(1)

	cases := []struct {
		name   string
		amount any
	}{
		{"zero", json.Number("0")},
		{"negative", json.Number("-5")},
		{"non-numeric string", "lots"},
		{"expression", "__import__('os')"},
		{"float", json.Number("2.5")},
		{"above cap", json.Number("1000001")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := h.AddFunds(context.Background(), sess, protocol.Request{"amount": tc.amount})
			assert.False(t, resp.IsSuccess())
			assert.Equal(t, "Amount must be a positive integer", resp["message"])
		})
	}
}

func TestPurchaseTicketRejectsBadInput(t *testing.T) {
	h := &Handler{}
	sess := session.New("test")
	sess.Bind(1)

	resp := h.PurchaseTicket(context.Background(), sess, protocol.Request{
		"event_id": "not-a-number", "ticket_type": "Regular",
	})
	assert.Equal(t, "Invalid event_id", resp["message"])

	resp = h.PurchaseTicket(context.Background(), sess, protocol.Request{
		"event_id": json.Number("0"), "ticket_type": "Regular",
	})
	assert.Equal(t, "Invalid event_id", resp["message"])

	resp = h.PurchaseTicket(context.Background(), sess, protocol.Request{
		"event_id": json.Number("1"), "ticket_type": "Premium",
	})
	assert.Equal(t, "Invalid ticket type", resp["message"])
}

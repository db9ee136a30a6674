package domain

import (
	"context"
	"time"
)

// MovementType is the kind of seat-count change a movement records.
type MovementType string

const (
	MovementSale   MovementType = "SALE"
	MovementRefund MovementType = "REFUND"
)

// Movement is one immutable audit record of a sale or refund. Movements are
// only ever inserted, in the same transaction that changes the event's sold
// count, so the ledger and the counter can never diverge at a commit point.
// swagger:model Movement
type Movement struct {
	ID        int64        `json:"id"`
	EventID   int64        `json:"event_id"`
	Type      MovementType `json:"type"`
	Qty       int          `json:"qty"`
	UserID    int64        `json:"user_id"`
	CreatedAt time.Time    `json:"created_at"`
}

// InventoryRepository is the only storage path allowed to change an event's
// sold count. Both operations lock the event row, check the invariant, apply
// the counter change, and append the movement in a single transaction.
type InventoryRepository interface {
	// Sell increments seats_sold by qty and appends a SALE movement.
	// Returns the event state after the sale.
	Sell(ctx context.Context, eventID int64, qty int, userID int64) (*Event, error)
	// Refund decrements seats_sold by qty and appends a REFUND movement.
	// Returns the event state after the refund.
	Refund(ctx context.Context, eventID int64, qty int, userID int64) (*Event, error)
}

// MovementRepository reads the append-only ledger.
type MovementRepository interface {
	ListByEventID(ctx context.Context, eventID int64) ([]*Movement, error)
	// NetSoldByEventID returns SUM(sale qty) - SUM(refund qty) for the event.
	NetSoldByEventID(ctx context.Context, eventID int64) (int, error)
}

// Reconciliation compares an event's sold counter with the ledger net.
// swagger:model Reconciliation
type Reconciliation struct {
	EventID    int64 `json:"event_id"`
	SeatsSold  int   `json:"seats_sold"`
	LedgerNet  int   `json:"ledger_net"`
	Consistent bool  `json:"consistent"`
}

// InventoryService defines sell/refund and the ledger audit surface.
type InventoryService interface {
	Sell(ctx context.Context, eventID int64, qty int, userID int64) error
	Refund(ctx context.Context, eventID int64, qty int, userID int64) error
	ListMovements(ctx context.Context, eventID int64) ([]*Movement, error)
	Reconcile(ctx context.Context, eventID int64) (*Reconciliation, error)
}

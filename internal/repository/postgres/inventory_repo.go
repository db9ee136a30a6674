package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"seatledger/internal/domain"
)

// inventoryRepository is the only code path that writes seats_sold or
// movements. Sell and Refund hold the event row lock for the duration of
// the read-check-write sequence and commit the counter change together
// with the movement insert.
type inventoryRepository struct {
	DB *sql.DB
}

func NewInventoryRepository(db *sql.DB) domain.InventoryRepository {
	return &inventoryRepository{DB: db}
}

func (r *inventoryRepository) Sell(ctx context.Context, eventID int64, qty int, userID int64) (*domain.Event, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	e, err := lockEvent(ctx, tx, eventID)
	if err != nil {
		return nil, err
	}
	if e.SeatsAvailable() < qty {
		return nil, domain.ErrInsufficientSeats
	}

	if err := applyMovement(ctx, tx, e, domain.MovementSale, qty, userID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	e.SeatsSold += qty
	return e, nil
}

func (r *inventoryRepository) Refund(ctx context.Context, eventID int64, qty int, userID int64) (*domain.Event, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	e, err := lockEvent(ctx, tx, eventID)
	if err != nil {
		return nil, err
	}
	if e.SeatsSold-qty < 0 {
		return nil, domain.ErrOverRefund
	}

	if err := applyMovement(ctx, tx, e, domain.MovementRefund, qty, userID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	e.SeatsSold -= qty
	return e, nil
}

// lockEvent reads the event row under an exclusive row lock scoped to tx.
func lockEvent(ctx context.Context, tx *sql.Tx, eventID int64) (*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1
		FOR UPDATE
	`
	e, err := scanEvent(tx.QueryRowContext(ctx, query, eventID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("lock event: %w", err)
	}
	return e, nil
}

// applyMovement adjusts seats_sold and appends the movement row inside tx.
func applyMovement(ctx context.Context, tx *sql.Tx, e *domain.Event, typ domain.MovementType, qty int, userID int64) error {
	delta := qty
	if typ == domain.MovementRefund {
		delta = -qty
	}
	updateQuery := `UPDATE events SET seats_sold = seats_sold + $1, updated_at = NOW() WHERE id = $2`
	if _, err := tx.ExecContext(ctx, updateQuery, delta, e.ID); err != nil {
		return fmt.Errorf("update seats_sold: %w", err)
	}
	insertQuery := `INSERT INTO movements (event_id, type, qty, user_id) VALUES ($1, $2, $3, $4)`
	if _, err := tx.ExecContext(ctx, insertQuery, e.ID, string(typ), qty, userID); err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

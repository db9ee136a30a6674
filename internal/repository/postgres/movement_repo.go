package postgres

import (
	"context"
	"database/sql"

	"seatledger/internal/domain"
)

type movementRepository struct {
	DB *sql.DB
}

func NewMovementRepository(db *sql.DB) domain.MovementRepository {
	return &movementRepository{DB: db}
}

func (r *movementRepository) ListByEventID(ctx context.Context, eventID int64) ([]*domain.Movement, error) {
	query := `
		SELECT id, event_id, type, qty, user_id, created_at
		FROM movements
		WHERE event_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	movements := make([]*domain.Movement, 0)
	for rows.Next() {
		m := &domain.Movement{}
		if err := rows.Scan(&m.ID, &m.EventID, &m.Type, &m.Qty, &m.UserID, &m.CreatedAt); err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}

func (r *movementRepository) NetSoldByEventID(ctx context.Context, eventID int64) (int, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN type = 'SALE' THEN qty ELSE -qty END), 0)
		FROM movements
		WHERE event_id = $1
	`
	var net int
	if err := r.DB.QueryRowContext(ctx, query, eventID).Scan(&net); err != nil {
		return 0, err
	}
	return net, nil
}

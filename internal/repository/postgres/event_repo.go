package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"seatledger/internal/domain"
)

const eventColumns = "id, name, description, starts_at, category, price, seats_total, seats_sold, created_at, updated_at"

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func scanEvent(row interface{ Scan(dest ...any) error }) (*domain.Event, error) {
	e := &domain.Event{}
	err := row.Scan(
		&e.ID, &e.Name, &e.Description, &e.StartsAt, &e.Category,
		&e.Price, &e.SeatsTotal, &e.SeatsSold, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (name, description, starts_at, category, price, seats_total, seats_sold, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $8)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.Name, e.Description, e.StartsAt, e.Category, e.Price, e.SeatsTotal, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1
	`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	return e, nil
}

// Update applies a partial update in one transaction. When seats_total is
// among the fields, the event row is locked first so the floor check against
// seats_sold cannot race a concurrent sale.
func (r *eventRepository) Update(ctx context.Context, id int64, upd domain.EventUpdate) (*domain.Event, error) {
	if upd.Empty() {
		return r.GetByID(ctx, id)
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if upd.SeatsTotal != nil {
		var sold int
		err := tx.QueryRowContext(ctx, `SELECT seats_sold FROM events WHERE id = $1 FOR UPDATE`, id).Scan(&sold)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, domain.ErrEventNotFound
			}
			return nil, fmt.Errorf("lock event: %w", err)
		}
		if *upd.SeatsTotal < sold {
			return nil, domain.ErrCapacityBelowSold
		}
	}

	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	n := 1
	if upd.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", n))
		args = append(args, *upd.Name)
		n++
	}
	if upd.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", n))
		args = append(args, *upd.Description)
		n++
	}
	if upd.StartsAt != nil {
		setClauses = append(setClauses, fmt.Sprintf("starts_at = $%d", n))
		args = append(args, *upd.StartsAt)
		n++
	}
	if upd.Category != nil {
		setClauses = append(setClauses, fmt.Sprintf("category = $%d", n))
		args = append(args, *upd.Category)
		n++
	}
	if upd.Price != nil {
		setClauses = append(setClauses, fmt.Sprintf("price = $%d", n))
		args = append(args, *upd.Price)
		n++
	}
	if upd.SeatsTotal != nil {
		setClauses = append(setClauses, fmt.Sprintf("seats_total = $%d", n))
		args = append(args, *upd.SeatsTotal)
		n++
	}
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE events SET %s
		WHERE id = $%d
		RETURNING `+eventColumns+`
	`, strings.Join(setClauses, ", "), n)
	e, err := scanEvent(tx.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return e, nil
}

func (r *eventRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return domain.ErrEventHasMovements
		}
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *eventRepository) List(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, error) {
	clauses := []string{}
	args := []interface{}{}
	n := 1
	if filter.Keyword != "" {
		clauses = append(clauses, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", n, n+1))
		pattern := "%" + filter.Keyword + "%"
		args = append(args, pattern, pattern)
		n += 2
	}
	if filter.Category != "" {
		clauses = append(clauses, fmt.Sprintf("category = $%d", n))
		args = append(args, filter.Category)
		n++
	}
	switch filter.Status {
	case domain.StatusSoldOut:
		clauses = append(clauses, "(seats_total - seats_sold) = 0")
	case domain.StatusUpcoming:
		clauses = append(clauses, "starts_at >= NOW()")
	case domain.StatusPast:
		clauses = append(clauses, "starts_at < NOW()")
	}
	if filter.DateFrom != nil {
		clauses = append(clauses, fmt.Sprintf("starts_at >= $%d", n))
		args = append(args, *filter.DateFrom)
		n++
	}
	if filter.DateTo != nil {
		clauses = append(clauses, fmt.Sprintf("starts_at <= $%d", n))
		args = append(args, *filter.DateTo)
		n++
	}

	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}
	query := `SELECT ` + eventColumns + ` FROM events` + where + ` ORDER BY starts_at`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Summary(ctx context.Context) (*domain.ReportSummary, error) {
	s := &domain.ReportSummary{SoldOutEvents: []domain.SoldOutEvent{}}

	query := `SELECT COUNT(*), COALESCE(SUM(seats_total - seats_sold), 0) FROM events`
	if err := r.DB.QueryRowContext(ctx, query).Scan(&s.TotalEvents, &s.SumAvailableSeats); err != nil {
		return nil, fmt.Errorf("summary totals: %w", err)
	}

	soldOutQuery := `SELECT id, name FROM events WHERE (seats_total - seats_sold) = 0 ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, soldOutQuery)
	if err != nil {
		return nil, fmt.Errorf("summary sold out: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var so domain.SoldOutEvent
		if err := rows.Scan(&so.ID, &so.Name); err != nil {
			return nil, err
		}
		s.SoldOutEvents = append(s.SoldOutEvents, so)
	}
	return s, rows.Err()
}

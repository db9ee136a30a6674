package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"seatledger/internal/domain"
)

type inventoryService struct {
	inventoryRepo  domain.InventoryRepository
	movementRepo   domain.MovementRepository
	eventRepo      domain.EventRepository
	cache          domain.SummaryCache
	notifier       domain.Notifier
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewInventoryService creates the inventory engine service. cache and
// notifier may be nil.
func NewInventoryService(
	inventoryRepo domain.InventoryRepository,
	movementRepo domain.MovementRepository,
	eventRepo domain.EventRepository,
	cache domain.SummaryCache,
	notifier domain.Notifier,
	logger *slog.Logger,
	timeout time.Duration,
) domain.InventoryService {
	return &inventoryService{
		inventoryRepo:  inventoryRepo,
		movementRepo:   movementRepo,
		eventRepo:      eventRepo,
		cache:          cache,
		notifier:       notifier,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *inventoryService) Sell(ctx context.Context, eventID int64, qty int, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if qty <= 0 {
		return domain.ErrInvalidQuantity
	}

	event, err := s.inventoryRepo.Sell(ctx, eventID, qty, userID)
	if err != nil {
		return err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	s.logger.InfoContext(ctx, "sale recorded",
		"event_id", eventID, "user_id", userID, "qty", qty, "seats_sold", event.SeatsSold)

	if event.SoldOut() && s.notifier != nil {
		if err := s.notifier.NotifySoldOut(ctx, event); err != nil {
			s.logger.WarnContext(ctx, "sold-out notification failed", "event_id", eventID, "err", err)
		}
	}
	return nil
}

func (s *inventoryService) Refund(ctx context.Context, eventID int64, qty int, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if qty <= 0 {
		return domain.ErrInvalidQuantity
	}

	event, err := s.inventoryRepo.Refund(ctx, eventID, qty, userID)
	if err != nil {
		return err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	s.logger.InfoContext(ctx, "refund recorded",
		"event_id", eventID, "user_id", userID, "qty", qty, "seats_sold", event.SeatsSold)
	return nil
}

func (s *inventoryService) ListMovements(ctx context.Context, eventID int64) ([]*domain.Movement, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	// Resolve the event first so a bad id reads as not-found, not an empty list.
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	movements, err := s.movementRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return movements, nil
}

// Reconcile compares the event's sold counter with the ledger net. The two
// are written in one transaction, so any divergence means external tampering
// or a storage fault.
func (s *inventoryService) Reconcile(ctx context.Context, eventID int64) (*domain.Reconciliation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	net, err := s.movementRepo.NetSoldByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("ledger net: %w", err)
	}

	rec := &domain.Reconciliation{
		EventID:    eventID,
		SeatsSold:  event.SeatsSold,
		LedgerNet:  net,
		Consistent: event.SeatsSold == net,
	}
	if !rec.Consistent {
		s.logger.ErrorContext(ctx, "ledger divergence detected",
			"event_id", eventID, "seats_sold", event.SeatsSold, "ledger_net", net)
	}
	return rec, nil
}

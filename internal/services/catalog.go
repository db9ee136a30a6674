package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"seatledger/internal/domain"
)

type catalogService struct {
	eventRepo      domain.EventRepository
	cache          domain.SummaryCache
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewCatalogService creates the event catalog service. cache may be nil.
func NewCatalogService(eventRepo domain.EventRepository, cache domain.SummaryCache, logger *slog.Logger, timeout time.Duration) domain.CatalogService {
	return &catalogService{
		eventRepo:      eventRepo,
		cache:          cache,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *catalogService) CreateEvent(ctx context.Context, in domain.CreateEventInput) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if !domain.ValidCategory(in.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, in.Category)
	}
	if in.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", domain.ErrInvalidInput)
	}
	if in.SeatsTotal < 0 {
		return nil, fmt.Errorf("%w: seats_total cannot be negative", domain.ErrInvalidInput)
	}

	now := time.Now().UTC()
	event := domain.NewEvent(name, strings.TrimSpace(in.Description), in.StartsAt.UTC(), in.Category, in.Price, in.SeatsTotal, now, now)
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.invalidateSummary(ctx)
	s.logger.InfoContext(ctx, "event created", "event_id", event.ID, "seats_total", event.SeatsTotal)
	return event, nil
}

func (s *catalogService) UpdateEvent(ctx context.Context, id int64, upd domain.EventUpdate) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", domain.ErrInvalidInput)
		}
		upd.Name = &name
	}
	if upd.Description != nil {
		desc := strings.TrimSpace(*upd.Description)
		upd.Description = &desc
	}
	if upd.StartsAt != nil {
		utc := upd.StartsAt.UTC()
		upd.StartsAt = &utc
	}
	if upd.Category != nil && !domain.ValidCategory(*upd.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, *upd.Category)
	}
	if upd.Price != nil && *upd.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", domain.ErrInvalidInput)
	}
	if upd.SeatsTotal != nil && *upd.SeatsTotal < 0 {
		return nil, fmt.Errorf("%w: seats_total cannot be negative", domain.ErrInvalidInput)
	}

	event, err := s.eventRepo.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}

	s.invalidateSummary(ctx)
	s.logger.InfoContext(ctx, "event updated", "event_id", id)
	return event, nil
}

func (s *catalogService) DeleteEvent(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateSummary(ctx)
	s.logger.InfoContext(ctx, "event deleted", "event_id", id)
	return nil
}

func (s *catalogService) invalidateSummary(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"seatledger/internal/domain"
)

type queryService struct {
	eventRepo      domain.EventRepository
	cache          domain.SummaryCache
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewQueryService creates the read-only query service. cache may be nil.
func NewQueryService(eventRepo domain.EventRepository, cache domain.SummaryCache, logger *slog.Logger, timeout time.Duration) domain.QueryService {
	return &queryService{
		eventRepo:      eventRepo,
		cache:          cache,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *queryService) ListEvents(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if filter.Status != "" && !domain.ValidStatus(filter.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, filter.Status)
	}

	events, err := s.eventRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (s *queryService) GetEvent(ctx context.Context, id int64) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.eventRepo.GetByID(ctx, id)
}

// ReportSummary serves the aggregate report, preferring the cache. The
// report is a best-effort snapshot; writers invalidate the cache so staleness
// is bounded by the cache TTL.
func (s *queryService) ReportSummary(ctx context.Context) (*domain.ReportSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if s.cache != nil {
		if summary, ok := s.cache.Get(ctx); ok {
			return summary, nil
		}
	}

	summary, err := s.eventRepo.Summary(ctx)
	if err != nil {
		return nil, fmt.Errorf("report summary: %w", err)
	}
	if s.cache != nil {
		s.cache.Set(ctx, summary)
	}
	return summary, nil
}

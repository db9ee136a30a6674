package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"seatledger/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	byID   map[int64]*domain.Event
	nextID int64
	err    error // if set, every method returns this error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		byID:   make(map[int64]*domain.Event),
		nextID: 1,
	}
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	e.ID = f.nextID
	f.nextID++
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	if e, ok := f.byID[id]; ok {
		clone := *e
		return &clone, nil
	}
	return nil, domain.ErrEventNotFound
}

func (f *fakeEventRepo) Update(ctx context.Context, id int64, upd domain.EventUpdate) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	if upd.SeatsTotal != nil && *upd.SeatsTotal < e.SeatsSold {
		return nil, domain.ErrCapacityBelowSold
	}
	if upd.Name != nil {
		e.Name = *upd.Name
	}
	if upd.Description != nil {
		e.Description = *upd.Description
	}
	if upd.StartsAt != nil {
		e.StartsAt = *upd.StartsAt
	}
	if upd.Category != nil {
		e.Category = *upd.Category
	}
	if upd.Price != nil {
		e.Price = *upd.Price
	}
	if upd.SeatsTotal != nil {
		e.SeatsTotal = *upd.SeatsTotal
	}
	clone := *e
	return &clone, nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[id]; !ok {
		return domain.ErrEventNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeEventRepo) List(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []*domain.Event{}
	for _, e := range f.byID {
		clone := *e
		out = append(out, &clone)
	}
	return out, nil
}

func (f *fakeEventRepo) Summary(ctx context.Context) (*domain.ReportSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	s := &domain.ReportSummary{SoldOutEvents: []domain.SoldOutEvent{}}
	for _, e := range f.byID {
		s.TotalEvents++
		s.SumAvailableSeats += e.SeatsAvailable()
		if e.SoldOut() {
			s.SoldOutEvents = append(s.SoldOutEvents, domain.SoldOutEvent{ID: e.ID, Name: e.Name})
		}
	}
	return s, nil
}

// fakeSummaryCache records cache traffic for assertions.
type fakeSummaryCache struct {
	stored      *domain.ReportSummary
	sets        int
	invalidates int
}

func (f *fakeSummaryCache) Get(ctx context.Context) (*domain.ReportSummary, bool) {
	if f.stored == nil {
		return nil, false
	}
	return f.stored, true
}

func (f *fakeSummaryCache) Set(ctx context.Context, summary *domain.ReportSummary) {
	f.stored = summary
	f.sets++
}

func (f *fakeSummaryCache) Invalidate(ctx context.Context) {
	f.stored = nil
	f.invalidates++
}

func TestCatalogService_CreateEvent(t *testing.T) {
	ctx := context.Background()
	starts := time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC)

	valid := domain.CreateEventInput{
		Name:       "Go Deep Dive",
		StartsAt:   starts,
		Category:   domain.CategoryTalk,
		Price:      2500,
		SeatsTotal: 100,
	}

	t.Run("success", func(t *testing.T) {
		repo := newFakeEventRepo()
		cache := &fakeSummaryCache{stored: &domain.ReportSummary{}}
		svc := NewCatalogService(repo, cache, testLogger(), time.Second)

		in := valid
		in.Name = "  Go Deep Dive  "
		got, err := svc.CreateEvent(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.ID)
		assert.Equal(t, "Go Deep Dive", got.Name)
		assert.Equal(t, 0, got.SeatsSold)
		assert.Equal(t, 1, cache.invalidates)
	})

	t.Run("validation failures", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(in *domain.CreateEventInput)
		}{
			{"empty name", func(in *domain.CreateEventInput) { in.Name = "   " }},
			{"unknown category", func(in *domain.CreateEventInput) { in.Category = "Concert" }},
			{"negative price", func(in *domain.CreateEventInput) { in.Price = -1 }},
			{"negative seats", func(in *domain.CreateEventInput) { in.SeatsTotal = -5 }},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				repo := newFakeEventRepo()
				svc := NewCatalogService(repo, nil, testLogger(), time.Second)

				in := valid
				tt.mutate(&in)
				got, err := svc.CreateEvent(ctx, in)
				require.ErrorIs(t, err, domain.ErrInvalidInput)
				assert.Nil(t, got)
				assert.Empty(t, repo.byID)
			})
		}
	})

	t.Run("repo error", func(t *testing.T) {
		repo := newFakeEventRepo()
		repo.err = context.DeadlineExceeded
		svc := NewCatalogService(repo, nil, testLogger(), time.Second)

		got, err := svc.CreateEvent(ctx, valid)
		require.Error(t, err)
		assert.Nil(t, got)
	})
}

func TestCatalogService_UpdateEvent(t *testing.T) {
	ctx := context.Background()
	starts := time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC)

	seed := func(repo *fakeEventRepo, sold int) *domain.Event {
		e := domain.NewEvent("Go Deep Dive", "", starts, domain.CategoryTalk, 2500, 100, starts, starts)
		_ = repo.Create(ctx, e)
		e.SeatsSold = sold
		return e
	}

	t.Run("success trims and invalidates cache", func(t *testing.T) {
		repo := newFakeEventRepo()
		seed(repo, 0)
		cache := &fakeSummaryCache{stored: &domain.ReportSummary{}}
		svc := NewCatalogService(repo, cache, testLogger(), time.Second)

		name := "  Renamed  "
		got, err := svc.UpdateEvent(ctx, 1, domain.EventUpdate{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Name)
		assert.Equal(t, 1, cache.invalidates)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		repo := newFakeEventRepo()
		seed(repo, 0)
		svc := NewCatalogService(repo, nil, testLogger(), time.Second)

		name := "   "
		_, err := svc.UpdateEvent(ctx, 1, domain.EventUpdate{Name: &name})
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("unknown category rejected", func(t *testing.T) {
		repo := newFakeEventRepo()
		seed(repo, 0)
		svc := NewCatalogService(repo, nil, testLogger(), time.Second)

		cat := "Concert"
		_, err := svc.UpdateEvent(ctx, 1, domain.EventUpdate{Category: &cat})
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("capacity below sold propagates", func(t *testing.T) {
		repo := newFakeEventRepo()
		seed(repo, 60)
		cache := &fakeSummaryCache{}
		svc := NewCatalogService(repo, cache, testLogger(), time.Second)

		total := 50
		_, err := svc.UpdateEvent(ctx, 1, domain.EventUpdate{SeatsTotal: &total})
		require.ErrorIs(t, err, domain.ErrCapacityBelowSold)
		assert.Equal(t, 0, cache.invalidates)
	})

	t.Run("capacity shrink to sold count allowed", func(t *testing.T) {
		repo := newFakeEventRepo()
		seed(repo, 60)
		svc := NewCatalogService(repo, nil, testLogger(), time.Second)

		total := 60
		got, err := svc.UpdateEvent(ctx, 1, domain.EventUpdate{SeatsTotal: &total})
		require.NoError(t, err)
		assert.Equal(t, 60, got.SeatsTotal)
		assert.True(t, got.SoldOut())
	})

	t.Run("not found", func(t *testing.T) {
		repo := newFakeEventRepo()
		svc := NewCatalogService(repo, nil, testLogger(), time.Second)

		name := "x"
		_, err := svc.UpdateEvent(ctx, 42, domain.EventUpdate{Name: &name})
		require.ErrorIs(t, err, domain.ErrEventNotFound)
	})
}

func TestCatalogService_DeleteEvent(t *testing.T) {
	ctx := context.Background()
	starts := time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		repo := newFakeEventRepo()
		_ = repo.Create(ctx, domain.NewEvent("Go Deep Dive", "", starts, domain.CategoryTalk, 2500, 100, starts, starts))
		cache := &fakeSummaryCache{}
		svc := NewCatalogService(repo, cache, testLogger(), time.Second)

		require.NoError(t, svc.DeleteEvent(ctx, 1))
		assert.Empty(t, repo.byID)
		assert.Equal(t, 1, cache.invalidates)
	})

	t.Run("not found", func(t *testing.T) {
		repo := newFakeEventRepo()
		svc := NewCatalogService(repo, nil, testLogger(), time.Second)

		require.ErrorIs(t, svc.DeleteEvent(ctx, 42), domain.ErrEventNotFound)
	})

	t.Run("event with movements", func(t *testing.T) {
		repo := newFakeEventRepo()
		repo.err = domain.ErrEventHasMovements
		svc := NewCatalogService(repo, nil, testLogger(), time.Second)

		require.ErrorIs(t, svc.DeleteEvent(ctx, 1), domain.ErrEventHasMovements)
	})
}

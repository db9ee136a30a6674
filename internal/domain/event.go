package domain

import (
	"context"
	"time"
)

// Event categories. Values outside this set are rejected at the delivery
// boundary before they reach the catalog service.
const (
	CategoryTalk     = "Talk"
	CategoryWorkshop = "Workshop"
	CategoryShow     = "Show"
	CategoryOther    = "Other"
)

// Categories lists the valid event categories.
var Categories = []string{CategoryTalk, CategoryWorkshop, CategoryShow, CategoryOther}

// ValidCategory reports whether c is one of the fixed event categories.
func ValidCategory(c string) bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// Event represents a schedulable event with a fixed seat capacity and a
// sold-seat counter. SeatsSold is mutated only by the inventory engine;
// the invariant 0 <= SeatsSold <= SeatsTotal holds at every commit point.
// swagger:model Event
type Event struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"starts_at"`
	Category    string    `json:"category"`
	Price       int64     `json:"price"`
	SeatsTotal  int       `json:"seats_total"`
	SeatsSold   int       `json:"seats_sold"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SeatsAvailable returns the number of seats still sellable.
func (e *Event) SeatsAvailable() int {
	return e.SeatsTotal - e.SeatsSold
}

// SoldOut reports whether no seats remain.
func (e *Event) SoldOut() bool {
	return e.SeatsAvailable() == 0
}

// NewEvent returns a new Event with the given fields. ID is set by the
// repository on create; SeatsSold always starts at 0.
func NewEvent(name, description string, startsAt time.Time, category string, price int64, seatsTotal int, createdAt, updatedAt time.Time) *Event {
	return &Event{
		Name:        name,
		Description: description,
		StartsAt:    startsAt,
		Category:    category,
		Price:       price,
		SeatsTotal:  seatsTotal,
		SeatsSold:   0,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// EventUpdate carries a partial update for an event. Nil fields are left
// unchanged. When SeatsTotal is set, the repository must verify the new
// total is not below the current sold count inside the same transaction
// that performs the update.
type EventUpdate struct {
	Name        *string
	Description *string
	StartsAt    *time.Time
	Category    *string
	Price       *int64
	SeatsTotal  *int
}

// Empty reports whether the update carries no fields.
func (u EventUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil && u.StartsAt == nil &&
		u.Category == nil && u.Price == nil && u.SeatsTotal == nil
}

// Event status filters for listing.
const (
	StatusSoldOut  = "soldout"
	StatusUpcoming = "upcoming"
	StatusPast     = "past"
)

// ValidStatus reports whether s is a recognized listing status filter.
func ValidStatus(s string) bool {
	return s == StatusSoldOut || s == StatusUpcoming || s == StatusPast
}

// EventFilter holds optional listing filters; zero values mean no filter.
// All supplied filters are ANDed.
type EventFilter struct {
	Keyword  string
	Category string
	Status   string
	DateFrom *time.Time
	DateTo   *time.Time
}

// SoldOutEvent is an (id, name) pair in the report summary.
// swagger:model SoldOutEvent
type SoldOutEvent struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ReportSummary is the aggregate operational report over all events.
// swagger:model ReportSummary
type ReportSummary struct {
	TotalEvents       int            `json:"total_events"`
	SumAvailableSeats int            `json:"sum_available_seats"`
	SoldOutEvents     []SoldOutEvent `json:"sold_out_events"`
}

// EventRepository defines storage operations for the event catalog and the
// read-only query side.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id int64) (*Event, error)
	// Update applies a partial update. If upd.SeatsTotal is set, the check
	// against the current sold count and the update itself run in one
	// transaction with the row locked.
	Update(ctx context.Context, id int64, upd EventUpdate) (*Event, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter EventFilter) ([]*Event, error)
	Summary(ctx context.Context) (*ReportSummary, error)
}

// CatalogService defines create/update/delete over events. It never touches
// SeatsSold; that column belongs to the inventory engine.
type CatalogService interface {
	CreateEvent(ctx context.Context, in CreateEventInput) (*Event, error)
	UpdateEvent(ctx context.Context, id int64, upd EventUpdate) (*Event, error)
	DeleteEvent(ctx context.Context, id int64) error
}

// CreateEventInput carries the fields accepted when creating an event.
type CreateEventInput struct {
	Name        string
	Description string
	StartsAt    time.Time
	Category    string
	Price       int64
	SeatsTotal  int
}

// QueryService defines the read-only surface over events and the report
// summary. Reads take no locks.
type QueryService interface {
	ListEvents(ctx context.Context, filter EventFilter) ([]*Event, error)
	GetEvent(ctx context.Context, id int64) (*Event, error)
	ReportSummary(ctx context.Context) (*ReportSummary, error)
}

// SummaryCache caches the report summary. Implementations are best-effort:
// a miss or backend failure falls through to the repository.
type SummaryCache interface {
	Get(ctx context.Context) (*ReportSummary, bool)
	Set(ctx context.Context, summary *ReportSummary)
	Invalidate(ctx context.Context)
}

// Notifier delivers operational notifications. Failures are logged by the
// caller, never propagated into the operation that triggered them.
type Notifier interface {
	NotifySoldOut(ctx context.Context, event *Event) error
}

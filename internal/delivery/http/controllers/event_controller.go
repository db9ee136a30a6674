package controllers

import (
	"log/slog"
	"net/http"
	"time"

	"seatledger/internal/delivery/http/helpers"
	"seatledger/internal/domain"
)

type EventController struct {
	Logger  *slog.Logger
	Catalog domain.CatalogService
	Query   domain.QueryService
}

func NewEventController(logger *slog.Logger, catalog domain.CatalogService, query domain.QueryService) *EventController {
	return &EventController{
		Logger:  logger,
		Catalog: catalog,
		Query:   query,
	}
}

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"starts_at"`
	Category    string    `json:"category"`
	Price       int64     `json:"price"`
	SeatsTotal  int       `json:"seats_total"`
}

// Validate implements Validator.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if c.Name == "" {
		errs = append(errs, "name is required")
	}
	if c.StartsAt.IsZero() {
		errs = append(errs, "starts_at is required")
	}
	if !domain.ValidCategory(c.Category) {
		errs = append(errs, "category must be one of Talk, Workshop, Show, Other")
	}
	if c.Price < 0 {
		errs = append(errs, "price cannot be negative")
	}
	if c.SeatsTotal < 0 {
		errs = append(errs, "seats_total cannot be negative")
	}
	return errs
}

// EventSuccessResponse is the success response envelope carrying one event.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// EventListSuccessResponse is the success response envelope for GET /events (200).
type EventListSuccessResponse struct {
	Data  []*domain.Event   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CreateEvent godoc
// @Summary Create a new event
// @Description Creates an event with a fixed seat capacity. Seats sold starts at 0. Admin only.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Catalog.CreateEvent(r.Context(), domain.CreateEventInput{
		Name:        req.Name,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		Category:    req.Category,
		Price:       req.Price,
		SeatsTotal:  req.SeatsTotal,
	})
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// ListEvents godoc
// @Summary List events
// @Description Lists events ordered by start time. Optional filters: q (keyword over name and description), category, status (soldout, upcoming, past), from, to (RFC3339). All filters are ANDed.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param q query string false "Keyword, matched case-insensitively against name or description"
// @Param category query string false "Category" Enums(Talk, Workshop, Show, Other)
// @Param status query string false "Status filter" Enums(soldout, upcoming, past)
// @Param from query string false "Earliest start time (RFC3339)"
// @Param to query string false "Latest start time (RFC3339)"
// @Success 200 {object} controllers.EventListSuccessResponse "data contains the matching events"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.EventFilter{
		Keyword:  q.Get("q"),
		Category: q.Get("category"),
		Status:   q.Get("status"),
	}
	if filter.Status != "" && !domain.ValidStatus(filter.Status) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "status must be one of soldout, upcoming, past")
		return
	}
	if s := q.Get("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "from must be RFC3339")
			return
		}
		filter.DateFrom = &t
	}
	if s := q.Get("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "to must be RFC3339")
			return
		}
		filter.DateTo = &t
	}
	events, err := c.Query.ListEvents(r.Context(), filter)
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// GetEvent godoc
// @Summary Get an event by ID
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathEventID(w, r)
	if !ok {
		return
	}
	event, err := c.Query.GetEvent(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// UpdateEventRequest is the request body for PATCH /events/{eventID}.
// All fields optional; omitted fields are unchanged.
type UpdateEventRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	StartsAt    *time.Time `json:"starts_at"`
	Category    *string    `json:"category"`
	Price       *int64     `json:"price"`
	SeatsTotal  *int       `json:"seats_total"`
}

// Validate implements Validator.
func (u UpdateEventRequest) Validate() []string {
	var errs []string
	if u.Category != nil && !domain.ValidCategory(*u.Category) {
		errs = append(errs, "category must be one of Talk, Workshop, Show, Other")
	}
	if u.Price != nil && *u.Price < 0 {
		errs = append(errs, "price cannot be negative")
	}
	if u.SeatsTotal != nil && *u.SeatsTotal < 0 {
		errs = append(errs, "seats_total cannot be negative")
	}
	return errs
}

// UpdateEvent godoc
// @Summary Update event details
// @Description Applies a partial update. Shrinking seats_total below the current sold count is rejected with 409. Admin only.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Param body body UpdateEventRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (seats_total below seats_sold)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathEventID(w, r)
	if !ok {
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Catalog.UpdateEvent(r.Context(), id, domain.EventUpdate{
		Name:        req.Name,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		Category:    req.Category,
		Price:       req.Price,
		SeatsTotal:  req.SeatsTotal,
	})
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Hard-deletes an event. Events with movements cannot be deleted; the ledger keeps its referent. Admin only.
// @Tags events
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Success 204 "deleted"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (event has movements)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathEventID(w, r)
	if !ok {
		return
	}
	if err := c.Catalog.DeleteEvent(r.Context(), id); err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

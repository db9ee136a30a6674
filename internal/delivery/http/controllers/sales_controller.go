package controllers

import (
	"log/slog"
	"net/http"

	"seatledger/internal/delivery/http/helpers"
	"seatledger/internal/delivery/http/middleware"
	"seatledger/internal/domain"
)

type SalesController struct {
	Logger  *slog.Logger
	Service domain.InventoryService
}

func NewSalesController(logger *slog.Logger, svc domain.InventoryService) *SalesController {
	return &SalesController{
		Logger:  logger,
		Service: svc,
	}
}

// QuantityRequest is the request body for sales and refunds.
type QuantityRequest struct {
	Qty int `json:"qty"`
}

// Validate implements Validator.
func (q QuantityRequest) Validate() []string {
	var errs []string
	if q.Qty <= 0 {
		errs = append(errs, "qty must be greater than zero")
	}
	return errs
}

// MovementListSuccessResponse is the success response envelope for GET /events/{eventID}/movements (200).
type MovementListSuccessResponse struct {
	Data  []*domain.Movement `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// ReconciliationSuccessResponse is the success response envelope for GET /events/{eventID}/reconciliation (200).
type ReconciliationSuccessResponse struct {
	Data  *domain.Reconciliation `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// Sell godoc
// @Summary Sell seats
// @Description Sells qty seats against the event's remaining capacity and appends a SALE movement attributed to the caller. Fails with 409 when fewer than qty seats remain. Admin only.
// @Tags sales
// @Accept json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Param body body QuantityRequest true "Quantity to sell"
// @Success 204 "sale recorded"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (not enough seats)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/sales [post]
func (c *SalesController) Sell(w http.ResponseWriter, r *http.Request) {
	id, ok := pathEventID(w, r)
	if !ok {
		return
	}
	var req QuantityRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.Sell(r.Context(), id, req.Qty, actor.UserID); err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Refund godoc
// @Summary Refund seats
// @Description Refunds qty seats and appends a REFUND movement attributed to the caller. Fails with 409 when qty exceeds the current sold count. Admin only.
// @Tags sales
// @Accept json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Param body body QuantityRequest true "Quantity to refund"
// @Success 204 "refund recorded"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (refund exceeds sold)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/refunds [post]
func (c *SalesController) Refund(w http.ResponseWriter, r *http.Request) {
	id, ok := pathEventID(w, r)
	if !ok {
		return
	}
	var req QuantityRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.Refund(r.Context(), id, req.Qty, actor.UserID); err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListMovements godoc
// @Summary List an event's movements
// @Description Returns the append-only audit trail of sales and refunds for the event, newest first.
// @Tags sales
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Success 200 {object} controllers.MovementListSuccessResponse "data contains the movements"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/movements [get]
func (c *SalesController) ListMovements(w http.ResponseWriter, r *http.Request) {
	id, ok := pathEventID(w, r)
	if !ok {
		return
	}
	movements, err := c.Service.ListMovements(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, movements)
}

// Reconcile godoc
// @Summary Reconcile an event against its ledger
// @Description Compares the event's sold counter with the ledger net (sales minus refunds). Admin only.
// @Tags sales
// @Produce json
// @Security BearerAuth
// @Param eventID path int true "Event ID"
// @Success 200 {object} controllers.ReconciliationSuccessResponse "data contains the reconciliation result"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/reconciliation [get]
func (c *SalesController) Reconcile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathEventID(w, r)
	if !ok {
		return
	}
	rec, err := c.Service.Reconcile(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, rec)
}

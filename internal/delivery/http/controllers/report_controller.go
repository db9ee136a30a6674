package controllers

import (
	"log/slog"
	"net/http"

	"seatledger/internal/delivery/http/helpers"
	"seatledger/internal/domain"
)

type ReportController struct {
	Logger  *slog.Logger
	Service domain.QueryService
}

func NewReportController(logger *slog.Logger, svc domain.QueryService) *ReportController {
	return &ReportController{
		Logger:  logger,
		Service: svc,
	}
}

// SummarySuccessResponse is the success response envelope for GET /reports/summary (200).
type SummarySuccessResponse struct {
	Data  *domain.ReportSummary `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// Summary godoc
// @Summary Report summary over all events
// @Description Returns the total event count, the sum of available seats, and the sold-out events. Best-effort snapshot, may lag concurrent writes by the cache TTL.
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.SummarySuccessResponse "data contains the summary"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /reports/summary [get]
func (c *ReportController) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := c.Service.ReportSummary(r.Context())
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, summary)
}

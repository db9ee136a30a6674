package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"seatledger/internal/delivery/http/helpers"
	"seatledger/internal/domain"
)

// writeDomainError maps domain sentinel errors to HTTP responses. Anything
// unrecognized is logged and reported as a 500.
func writeDomainError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrEventNotFound) || errors.Is(err, domain.ErrUserNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrInvalidRole):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrInsufficientSeats) ||
		errors.Is(err, domain.ErrOverRefund) ||
		errors.Is(err, domain.ErrCapacityBelowSold) ||
		errors.Is(err, domain.ErrEventHasMovements) ||
		errors.Is(err, domain.ErrUserExists):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, err.Error())
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}

// pathEventID parses the eventID path segment. Writes a 400 and returns
// false when the segment is not a valid id.
func pathEventID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("eventID"), 10, 64)
	if err != nil || id <= 0 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid event id")
		return 0, false
	}
	return id, true
}

package domain

import "errors"

// Sentinel errors shared across the inventory, catalog, and query services.
// Delivery maps these to HTTP status codes; the services never wrap them in
// a way that breaks errors.Is.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrEventNotFound     = errors.New("event not found")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrInsufficientSeats = errors.New("not enough seats available")
	ErrOverRefund        = errors.New("cannot refund more seats than sold")
	ErrCapacityBelowSold = errors.New("seats total cannot be below seats sold")
	ErrEventHasMovements = errors.New("event has movements and cannot be deleted")

	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("username already in use")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"seatledger/internal/delivery/http/controllers"
	"seatledger/internal/delivery/http/middleware"
	"seatledger/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
// Mutating routes require the admin role; reads require any authenticated
// operator.
func NewRouter(
	authController *controllers.AuthController,
	eventController *controllers.EventController,
	salesController *controllers.SalesController,
	reportController *controllers.ReportController,
	verifier domain.TokenVerifier,
) *http.ServeMux {
	mux := http.NewServeMux()

	authed := middleware.RequireAuth(verifier)
	admin := func(next http.HandlerFunc) http.HandlerFunc {
		return authed(middleware.RequireRole(domain.RoleAdmin)(next))
	}

	// Auth
	mux.HandleFunc("POST /auth/login", authController.Login)
	mux.HandleFunc("POST /auth/signup", admin(authController.SignUp))

	// Catalog and queries
	mux.HandleFunc("POST /events", admin(eventController.CreateEvent))
	mux.HandleFunc("GET /events", authed(eventController.ListEvents))
	mux.HandleFunc("GET /events/{eventID}", authed(eventController.GetEvent))
	mux.HandleFunc("PATCH /events/{eventID}", admin(eventController.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", admin(eventController.DeleteEvent))

	// Inventory and ledger
	mux.HandleFunc("POST /events/{eventID}/sales", admin(salesController.Sell))
	mux.HandleFunc("POST /events/{eventID}/refunds", admin(salesController.Refund))
	mux.HandleFunc("GET /events/{eventID}/movements", authed(salesController.ListMovements))
	mux.HandleFunc("GET /events/{eventID}/reconciliation", admin(salesController.Reconcile))

	// Reports
	mux.HandleFunc("GET /reports/summary", authed(reportController.Summary))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

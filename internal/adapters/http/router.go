// Package http provides the inbound HTTP adapter including routing and server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/donation-gateway/internal/adapters/http/handlers"
)

// NewRouter creates an HTTP handler with all application routes registered.
// Middleware is applied globally in the order given.
func NewRouter(
	eventHandler *handlers.EventHandler,
	donationHandler *handlers.DonationHandler,
	healthHandler *handlers.HealthHandler,
	middlewares ...func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	// Health endpoints (outside /api/v1 prefix).
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	// API v1 routes.
	r.Route("/api/v1", func(r chi.Router) {
		// Event configuration and event-scoped donation operations.
		r.Get("/events/{eventId}", eventHandler.GetEvent)
		r.Get("/events/{eventId}/donations", eventHandler.ListEventDonations)
		r.Post("/events/{eventId}/donations/validate", eventHandler.ValidateDonation)
		r.Get("/events/{eventId}/screen", eventHandler.ScreenEvent)

		// Donation save flow and bid management.
		r.Get("/donations/{id}", donationHandler.GetDonation)
		r.Patch("/donations/{id}", donationHandler.SaveDonation)
		r.Post("/donations/{id}/bids", donationHandler.AddBid)
		r.Delete("/donations/{id}/bids/{bidId}", donationHandler.RemoveBid)

		// Cumulative validation counters.
		r.Get("/stats", donationHandler.Stats)
	})

	return r
}

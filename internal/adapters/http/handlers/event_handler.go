// Package handlers provides HTTP request handlers for the gateway's API
// endpoints.
package handlers

import (
	"net/http"

	"github.com/jsamuelsen11/donation-gateway/internal/adapters/http/dto"
	"github.com/jsamuelsen11/donation-gateway/internal/ports"
)

// EventHandler handles HTTP requests for event configuration and
// event-scoped donation operations.
type EventHandler struct {
	svc ports.DonationService
}

// NewEventHandler creates a new EventHandler with the given service port.
func NewEventHandler(svc ports.DonationService) *EventHandler {
	return &EventHandler{svc: svc}
}

// GetEvent handles GET /api/v1/events/{eventId}.
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseID(r, "eventId")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	details, err := h.svc.GetEvent(r.Context(), eventID)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToEventResponse(details))
}

// ListEventDonations handles GET /api/v1/events/{eventId}/donations.
func (h *EventHandler) ListEventDonations(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseID(r, "eventId")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	donations, err := h.svc.ListDonations(r.Context(), eventID)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToDonationListResponse(donations))
}

// ValidateDonation handles POST /api/v1/events/{eventId}/donations/validate.
// Validation findings are payload, not an HTTP error: an invalid donation
// still yields 200 with valid=false and the ordered findings.
func (h *EventHandler) ValidateDonation(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseID(r, "eventId")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.ValidateDonationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	d := req.Donation.ToDomainDonation()
	d.EventID = eventID

	result, err := h.svc.ValidateDonation(r.Context(), eventID, d, dto.ToDomainBids(req.Bids))
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToValidationResultResponse(result))
}

// ScreenEvent handles GET /api/v1/events/{eventId}/screen.
func (h *EventHandler) ScreenEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseID(r, "eventId")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	report, err := h.svc.ScreenEvent(r.Context(), eventID)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToScreenReportResponse(report))
}

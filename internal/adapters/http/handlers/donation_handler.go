package handlers

import (
	"fmt"
	"net/http"

	"github.com/jsamuelsen11/donation-gateway/internal/adapters/http/dto"
	"github.com/jsamuelsen11/donation-gateway/internal/domain"
	"github.com/jsamuelsen11/donation-gateway/internal/domain/donation"
	"github.com/jsamuelsen11/donation-gateway/internal/ports"
)

// DonationHandler handles HTTP requests for individual donations and their
// bid allocations.
type DonationHandler struct {
	svc ports.DonationService
}

// NewDonationHandler creates a new DonationHandler with the given service port.
func NewDonationHandler(svc ports.DonationService) *DonationHandler {
	return &DonationHandler{svc: svc}
}

// GetDonation handles GET /api/v1/donations/{id}.
func (h *DonationHandler) GetDonation(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	d, bids, err := h.svc.GetDonation(r.Context(), id)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToDonationResponse(d, bids))
}

// SaveDonation handles PATCH /api/v1/donations/{id}. Omitted donation fields
// keep their current values; an omitted bids list leaves the existing bid
// set untouched, while a present one fully replaces it. The save is
// validated and written transactionally by the service.
func (h *DonationHandler) SaveDonation(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.SaveDonationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	current, existing, err := h.svc.GetDonation(r.Context(), id)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	d := *current
	if req.Amount != nil {
		d.Amount = req.Amount
	}
	if req.Name != nil {
		d.Name = *req.Name
	}
	if req.Email != nil {
		d.Email = *req.Email
	}
	if req.Comment != nil {
		d.Comment = *req.Comment
	}

	desired := existing
	if req.Bids != nil {
		desired = dto.ToDomainBids(*req.Bids)
	}

	updated, err := h.svc.SaveDonation(r.Context(), &d, desired)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	// Re-read the bid set so the response carries server-assigned IDs for
	// any bids the save created.
	_, bids, err := h.svc.GetDonation(r.Context(), id)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToDonationResponse(updated, bids))
}

// AddBid handles POST /api/v1/donations/{id}/bids. The new bid joins the
// donation's existing set and the whole donation is re-validated before
// anything is written.
func (h *DonationHandler) AddBid(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.AddBidRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	current, existing, err := h.svc.GetDonation(r.Context(), id)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	desired := append(existing, donation.Bid{
		DonationID:       id,
		IncentiveID:      req.IncentiveID,
		Amount:           req.Amount,
		CustomOptionName: req.CustomOptionName,
	})

	updated, err := h.svc.SaveDonation(r.Context(), current, desired)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	_, bids, err := h.svc.GetDonation(r.Context(), id)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ToDonationResponse(updated, bids))
}

// RemoveBid handles DELETE /api/v1/donations/{id}/bids/{bidId}. The
// remaining set is re-validated before the removal is written, so a delete
// that would unbalance the bid sum is rejected.
func (h *DonationHandler) RemoveBid(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	bidID, err := parseID(r, "bidId")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	current, existing, err := h.svc.GetDonation(r.Context(), id)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	desired := make([]donation.Bid, 0, len(existing))
	for _, b := range existing {
		if b.ID != bidID {
			desired = append(desired, b)
		}
	}
	if len(desired) == len(existing) {
		dto.WriteErrorResponse(w, r, fmt.Errorf("bid %d: %w", bidID, domain.ErrNotFound))
		return
	}

	if _, err := h.svc.SaveDonation(r.Context(), current, desired); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Stats handles GET /api/v1/stats.
func (h *DonationHandler) Stats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, dto.ToStatsResponse(h.svc.Stats()))
}

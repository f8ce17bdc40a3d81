package dto

import (
	"fmt"

	"github.com/jsamuelsen11/donation-gateway/internal/domain"
	"github.com/jsamuelsen11/donation-gateway/internal/domain/donation"
)

const msgRequired = "is required"

// DonationPayload carries the donation fields a client submits for
// validation. Amount is a pointer so that an unset amount survives the
// round trip; the validator treats nil as "not set".
type DonationPayload struct {
	Amount  *float64 `json:"amount"`
	Name    string   `json:"name,omitempty"`
	Email   string   `json:"email,omitempty"`
	Comment string   `json:"comment,omitempty"`
}

// BidPayload carries a single bid allocation in request bodies. ID is only
// meaningful on save: zero means a new bid, non-zero references an existing
// one to keep.
type BidPayload struct {
	ID               int64   `json:"id,omitempty"`
	IncentiveID      int64   `json:"incentive_id"`
	Amount           float64 `json:"amount"`
	CustomOptionName string  `json:"custom_option_name,omitempty"`
}

// ValidateDonationRequest represents the JSON body for validating a
// candidate donation against an event's limits.
type ValidateDonationRequest struct {
	Donation DonationPayload `json:"donation"`
	Bids     []BidPayload    `json:"bids,omitempty"`
}

// Validate checks the structural shape of the request. Business checks
// (amount bounds, bid sums, option lengths) are the validator's job and are
// returned as payload, never as a request error.
// Returns a *domain.ValidationError if any checks fail.
func (r *ValidateDonationRequest) Validate() error {
	if findings := validateBidPayloads(r.Bids); len(findings) > 0 {
		return &domain.ValidationError{Findings: findings}
	}
	return nil
}

// SaveDonationRequest represents the JSON body for updating a donation and
// its bid set. Donation fields are optional; nil means "do not change this
// field". Bids, when present, is the complete desired bid set: existing bids
// absent from it are deleted, entries without an ID are created. A nil Bids
// leaves the existing set untouched.
type SaveDonationRequest struct {
	Amount  *float64      `json:"amount,omitempty"`
	Name    *string       `json:"name,omitempty"`
	Email   *string       `json:"email,omitempty"`
	Comment *string       `json:"comment,omitempty"`
	Bids    *[]BidPayload `json:"bids,omitempty"`
}

// Validate checks that any provided bids are structurally valid.
// Returns a *domain.ValidationError if any checks fail.
func (r *SaveDonationRequest) Validate() error {
	if r.Bids == nil {
		return nil
	}
	if findings := validateBidPayloads(*r.Bids); len(findings) > 0 {
		return &domain.ValidationError{Findings: findings}
	}
	return nil
}

// AddBidRequest represents the JSON body for attaching a single bid to an
// existing donation.
type AddBidRequest struct {
	IncentiveID      int64   `json:"incentive_id"`
	Amount           float64 `json:"amount"`
	CustomOptionName string  `json:"custom_option_name,omitempty"`
}

// Validate checks that required fields are present.
// Returns a *domain.ValidationError if any checks fail.
func (r *AddBidRequest) Validate() error {
	var findings []domain.Finding

	if r.IncentiveID <= 0 {
		findings = append(findings, domain.Finding{Field: "incentive_id", Message: msgRequired})
	}
	if r.Amount < 0 {
		findings = append(findings, domain.Finding{Field: "amount", Message: "must not be negative"})
	}

	if len(findings) > 0 {
		return &domain.ValidationError{Findings: findings}
	}
	return nil
}

// validateBidPayloads runs structural checks over a bid list, producing
// findings in list order.
func validateBidPayloads(bids []BidPayload) []domain.Finding {
	var findings []domain.Finding
	for i, b := range bids {
		if b.IncentiveID <= 0 {
			findings = append(findings, domain.Finding{
				Field:   fmt.Sprintf("bids[%d].incentive_id", i),
				Message: msgRequired,
			})
		}
		if b.Amount < 0 {
			findings = append(findings, domain.Finding{
				Field:   fmt.Sprintf("bids[%d].amount", i),
				Message: "must not be negative",
			})
		}
	}
	return findings
}

// ToDomainDonation converts the payload to a domain Donation. The event and
// donation IDs come from the URL, not the body.
func (p *DonationPayload) ToDomainDonation() donation.Donation {
	return donation.Donation{
		Amount:  p.Amount,
		Name:    p.Name,
		Email:   p.Email,
		Comment: p.Comment,
	}
}

// ToDomainBids converts bid payloads to domain bids.
func ToDomainBids(payloads []BidPayload) []donation.Bid {
	bids := make([]donation.Bid, len(payloads))
	for i, p := range payloads {
		bids[i] = donation.Bid{
			ID:               p.ID,
			IncentiveID:      p.IncentiveID,
			Amount:           p.Amount,
			CustomOptionName: p.CustomOptionName,
		}
	}
	return bids
}

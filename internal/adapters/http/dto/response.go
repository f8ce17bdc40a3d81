// Package dto provides HTTP request/response data transfer objects and
// RFC 9457 Problem Details error responses for the inbound HTTP adapter layer.
package dto

import (
	"sort"
	"time"

	"github.com/jsamuelsen11/donation-gateway/internal/domain"
	"github.com/jsamuelsen11/donation-gateway/internal/domain/donation"
	"github.com/jsamuelsen11/donation-gateway/internal/domain/event"
	"github.com/jsamuelsen11/donation-gateway/internal/ports"
)

// FindingResponse represents a single field-level validation finding in
// HTTP responses.
type FindingResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResultResponse represents the outcome of validating a donation.
// Errors is always present, empty for a valid donation, and preserves the
// order in which the checks ran.
type ValidationResultResponse struct {
	Valid  bool              `json:"valid"`
	Errors []FindingResponse `json:"errors"`
}

// ToValidationResultResponse converts a domain ValidationResult to an HTTP
// response DTO.
func ToValidationResultResponse(result donation.ValidationResult) ValidationResultResponse {
	return ValidationResultResponse{
		Valid:  result.Valid,
		Errors: toFindingResponses(result.Errors),
	}
}

func toFindingResponses(findings []domain.Finding) []FindingResponse {
	out := make([]FindingResponse, len(findings))
	for i, f := range findings {
		out[i] = FindingResponse{Field: f.Field, Message: f.Message}
	}
	return out
}

// DonationResponse represents a single donation in HTTP responses.
// Bids are included only when the caller fetched them.
type DonationResponse struct {
	ID           int64         `json:"id"`
	EventID      int64         `json:"event_id"`
	Amount       *float64      `json:"amount"`
	Name         string        `json:"name,omitempty"`
	Email        string        `json:"email,omitempty"`
	Comment      string        `json:"comment,omitempty"`
	TimeReceived string        `json:"time_received,omitempty"`
	Bids         []BidResponse `json:"bids,omitempty"`
}

// DonationListResponse represents a list of donations in HTTP responses.
type DonationListResponse struct {
	Donations []DonationResponse `json:"donations"`
	Count     int                `json:"count"`
}

// ToDonationResponse converts a domain Donation entity to an HTTP response
// DTO. Pass nil bids to omit the bid list.
func ToDonationResponse(d *donation.Donation, bids []donation.Bid) DonationResponse {
	resp := DonationResponse{
		ID:      d.ID,
		EventID: d.EventID,
		Amount:  d.Amount,
		Name:    d.Name,
		Email:   d.Email,
		Comment: d.Comment,
	}
	if !d.TimeReceived.IsZero() {
		resp.TimeReceived = d.TimeReceived.Format(time.RFC3339)
	}
	if len(bids) > 0 {
		resp.Bids = make([]BidResponse, len(bids))
		for i := range bids {
			resp.Bids[i] = ToBidResponse(&bids[i])
		}
	}
	return resp
}

// ToDonationListResponse converts a slice of domain Donation entities to an
// HTTP list response DTO.
func ToDonationListResponse(donations []donation.Donation) DonationListResponse {
	items := make([]DonationResponse, len(donations))
	for i := range donations {
		items[i] = ToDonationResponse(&donations[i], nil)
	}
	return DonationListResponse{
		Donations: items,
		Count:     len(items),
	}
}

// BidResponse represents a single bid allocation in HTTP responses.
type BidResponse struct {
	ID               int64   `json:"id"`
	IncentiveID      int64   `json:"incentive_id"`
	Amount           float64 `json:"amount"`
	CustomOptionName string  `json:"custom_option_name,omitempty"`
}

// ToBidResponse converts a domain Bid entity to an HTTP response DTO.
func ToBidResponse(b *donation.Bid) BidResponse {
	return BidResponse{
		ID:               b.ID,
		IncentiveID:      b.IncentiveID,
		Amount:           b.Amount,
		CustomOptionName: b.CustomOptionName,
	}
}

// EventResponse represents an event's validation-relevant configuration in
// HTTP responses.
type EventResponse struct {
	ID              int64               `json:"id"`
	Name            string              `json:"name"`
	MinimumDonation float64             `json:"minimum_donation"`
	MaximumDonation float64             `json:"maximum_donation"`
	Incentives      []IncentiveResponse `json:"incentives"`
}

// IncentiveResponse represents a single incentive in HTTP responses.
type IncentiveResponse struct {
	ID                  int64  `json:"id"`
	Name                string `json:"name"`
	Description         string `json:"description,omitempty"`
	AllowsCustomOptions bool   `json:"allows_custom_options"`
	MaxOptionLength     *int   `json:"max_option_length,omitempty"`
}

// ToEventResponse converts domain event details to an HTTP response DTO.
// Incentives are sorted by ID for stable output; the domain holds them in
// a map.
func ToEventResponse(details *event.Details) EventResponse {
	incentives := make([]IncentiveResponse, 0, len(details.AvailableIncentives))
	for _, inc := range details.AvailableIncentives {
		incentives = append(incentives, IncentiveResponse{
			ID:                  inc.ID,
			Name:                inc.Name,
			Description:         inc.Description,
			AllowsCustomOptions: inc.AllowsCustomOptions,
			MaxOptionLength:     inc.MaxOptionLength,
		})
	}
	sort.Slice(incentives, func(i, j int) bool {
		return incentives[i].ID < incentives[j].ID
	})

	return EventResponse{
		ID:              details.ID,
		Name:            details.Name,
		MinimumDonation: details.MinimumDonation,
		MaximumDonation: details.MaximumDonation,
		Incentives:      incentives,
	}
}

// ScreenedDonationResponse represents one flagged donation within a screen
// report. Either Errors (validation findings) or Error (a fetch failure) is
// populated, never both.
type ScreenedDonationResponse struct {
	DonationID int64             `json:"donation_id"`
	Errors     []FindingResponse `json:"errors,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// ScreenReportResponse represents the outcome of screening an event's
// donations.
type ScreenReportResponse struct {
	EventID  int64                      `json:"event_id"`
	Screened int                        `json:"screened"`
	Flagged  []ScreenedDonationResponse `json:"flagged"`
}

// ToScreenReportResponse converts a ports.ScreenReport to an HTTP response
// DTO. Flagged entries keep donation order.
func ToScreenReportResponse(report *ports.ScreenReport) ScreenReportResponse {
	flagged := make([]ScreenedDonationResponse, len(report.Flagged))
	for i, f := range report.Flagged {
		item := ScreenedDonationResponse{DonationID: f.DonationID}
		if f.Err != nil {
			item.Error = f.Err.Error()
		} else {
			item.Errors = toFindingResponses(f.Findings)
		}
		flagged[i] = item
	}

	return ScreenReportResponse{
		EventID:  report.EventID,
		Screened: report.Screened,
		Flagged:  flagged,
	}
}

// StatsResponse represents cumulative validation counters in HTTP responses.
type StatsResponse struct {
	Performed int64 `json:"performed"`
	Passed    int64 `json:"passed"`
	Failed    int64 `json:"failed"`
}

// ToStatsResponse converts ports.ValidationStats to an HTTP response DTO.
func ToStatsResponse(stats ports.ValidationStats) StatsResponse {
	return StatsResponse{
		Performed: stats.Performed,
		Passed:    stats.Passed,
		Failed:    stats.Failed,
	}
}

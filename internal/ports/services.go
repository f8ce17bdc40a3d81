package ports

import (
	"context"

	"github.com/jsamuelsen11/donation-gateway/internal/domain"
	"github.com/jsamuelsen11/donation-gateway/internal/domain/donation"
	"github.com/jsamuelsen11/donation-gateway/internal/domain/event"
)

// DonationService defines the service port for donation operations.
// Implemented by the application layer; called by inbound adapters (handlers).
// Validation is performed against the owning event's configuration, fetched
// through the anti-corruption layer.
type DonationService interface {
	// ValidateDonation checks a candidate donation and its bids against the
	// event's configured limits and returns the ordered findings. A result
	// with Valid=false is not an error: the call fails only when the event
	// configuration cannot be fetched.
	// Returns domain.ErrNotFound if the event does not exist.
	ValidateDonation(ctx context.Context, eventID int64, d donation.Donation, bids []donation.Bid) (donation.ValidationResult, error)

	// GetEvent returns the event configuration relevant to validation.
	// Returns domain.ErrNotFound if the event does not exist.
	GetEvent(ctx context.Context, id int64) (*event.Details, error)

	// GetDonation returns a donation together with its bid allocations.
	// Returns domain.ErrNotFound if the donation does not exist.
	GetDonation(ctx context.Context, id int64) (*donation.Donation, []donation.Bid, error)

	// ListDonations returns all donations recorded for an event.
	// Returns domain.ErrNotFound if the event does not exist.
	ListDonations(ctx context.Context, eventID int64) ([]donation.Donation, error)

	// SaveDonation validates and persists changes to a donation and its bids.
	// Writes are staged and executed together; if any write fails, already
	// executed writes are rolled back in reverse order.
	// Returns domain.ErrValidation (carrying the ordered findings) if the
	// donation fails validation; nothing is written in that case.
	// Returns domain.ErrNotFound if the donation or its event does not exist.
	SaveDonation(ctx context.Context, d *donation.Donation, bids []donation.Bid) (*donation.Donation, error)

	// ScreenEvent validates every donation of an event concurrently and
	// reports the ones that fail. Uses partial success semantics: donations
	// whose bids cannot be fetched are recorded in the report rather than
	// failing the whole screen.
	// Returns domain.ErrNotFound if the event does not exist.
	ScreenEvent(ctx context.Context, eventID int64) (*ScreenReport, error)

	// Stats returns cumulative validation counters for this process.
	Stats() ValidationStats
}

// ScreenedDonation records the findings for one donation that failed
// screening, or the fetch error that prevented screening it.
type ScreenedDonation struct {
	DonationID int64
	Findings   []domain.Finding
	Err        error
}

// ScreenReport holds the outcome of screening an event's donations.
// Screened counts every donation examined; Flagged contains only the
// donations with findings or fetch errors, in donation order.
type ScreenReport struct {
	EventID  int64
	Screened int
	Flagged  []ScreenedDonation
}

// ValidationStats are cumulative per-process counters maintained by the
// service. Performed = Passed + Failed.
type ValidationStats struct {
	Performed int64
	Passed    int64
	Failed    int64
}

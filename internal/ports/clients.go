package ports

import (
	"context"

	"github.com/jsamuelsen11/donation-gateway/internal/domain/donation"
	"github.com/jsamuelsen11/donation-gateway/internal/domain/event"
)

// TrackerClient defines the client port for downstream donation-tracker
// operations. Implemented by the ACL adapter; called by the application layer.
// The ACL translates between our domain entities and the tracker's serialized
// model records, including its "bid target" concept which maps to Incentive.
type TrackerClient interface {
	// GetEvent returns the event configuration relevant to validation,
	// including the event's available incentives.
	// Returns domain.ErrNotFound if the event does not exist.
	GetEvent(ctx context.Context, id int64) (*event.Details, error)

	// GetDonation returns a single donation by ID.
	// Returns domain.ErrNotFound if the donation does not exist.
	GetDonation(ctx context.Context, id int64) (*donation.Donation, error)

	// ListDonations returns all donations recorded for an event.
	// Returns domain.ErrNotFound if the event does not exist.
	ListDonations(ctx context.Context, eventID int64) ([]donation.Donation, error)

	// ListDonationBids returns the bid allocations attached to a donation.
	// A donation with no bids yields an empty slice, not an error.
	ListDonationBids(ctx context.Context, donationID int64) ([]donation.Bid, error)

	// UpdateDonation updates an existing donation and returns the updated
	// entity. Returns domain.ErrNotFound if the donation does not exist.
	UpdateDonation(ctx context.Context, d *donation.Donation) (*donation.Donation, error)

	// CreateBid attaches a new bid to a donation and returns the created
	// entity with its server-assigned ID.
	CreateBid(ctx context.Context, b *donation.Bid) (*donation.Bid, error)

	// DeleteBid removes a bid by ID.
	// Returns domain.ErrNotFound if the bid does not exist.
	DeleteBid(ctx context.Context, id int64) error
}

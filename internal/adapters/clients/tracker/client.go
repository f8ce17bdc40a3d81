package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/jsamuelsen11/donation-gateway/internal/domain"
	"github.com/jsamuelsen11/donation-gateway/internal/domain/donation"
	"github.com/jsamuelsen11/donation-gateway/internal/domain/event"
	"github.com/jsamuelsen11/donation-gateway/internal/platform/httpclient"
	"github.com/jsamuelsen11/donation-gateway/internal/ports"
)

// Compile-time interface check.
var _ ports.TrackerClient = (*Client)(nil)

// Client is the outbound adapter for the donation tracker. It implements
// [ports.TrackerClient] over the tracker's generic model API: reads go
// through GET /search with type filters, writes through form-encoded POSTs
// to /add, /edit, and /delete.
//
// All methods translate between domain entities and the tracker's
// serialized records, including the tracker's "bid" concept which maps to
// our Incentive. HTTP errors are mapped to domain errors (ErrNotFound,
// ErrValidation, etc.) by [TranslateHTTPError].
//
// The underlying [httpclient.Client] provides circuit breaking, rate
// limiting, retry with exponential backoff, OpenTelemetry tracing, and
// health checking for every outbound call.
type Client struct {
	req         *Requester
	maxDonation float64
	logger      *slog.Logger
}

// NewClient creates a Client that sends requests through the given
// [httpclient.Client]. The client's BaseURL should point to the tracker's
// API root (e.g. "https://tracker.example.com/api/v1"). maxDonation is the
// gateway's payment ceiling, injected into every event's details because
// the tracker only configures a per-event minimum.
func NewClient(client *httpclient.Client, maxDonation float64, logger *slog.Logger) *Client {
	return &Client{
		req:         NewRequester(client, logger),
		maxDonation: maxDonation,
		logger:      logger,
	}
}

// GetEvent fetches an event and its bid targets with two searches and
// assembles the validation-relevant configuration. Returns
// [domain.ErrNotFound] if the event does not exist.
func (c *Client) GetEvent(ctx context.Context, id int64) (*event.Details, error) {
	params := url.Values{}
	params.Set("type", "event")
	params.Set("id", strconv.FormatInt(id, 10))

	records, err := c.req.Search(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("event %d: %w", id, domain.ErrNotFound)
	}

	bidParams := url.Values{}
	bidParams.Set("type", "bidtarget")
	bidParams.Set("event", strconv.FormatInt(id, 10))

	bids, err := c.req.Search(ctx, bidParams)
	if err != nil {
		return nil, err
	}

	return toDomainEvent(records[0], bids, c.maxDonation)
}

// GetDonation fetches a single donation by ID. Returns [domain.ErrNotFound]
// if the donation does not exist (the search API returns an empty list for
// unknown primary keys rather than 404).
func (c *Client) GetDonation(ctx context.Context, id int64) (*donation.Donation, error) {
	params := url.Values{}
	params.Set("type", "donation")
	params.Set("id", strconv.FormatInt(id, 10))

	records, err := c.req.Search(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("donation %d: %w", id, domain.ErrNotFound)
	}
	return toDomainDonation(records[0])
}

// ListDonations fetches all donations recorded for an event. The search API
// returns an empty list both for an empty event and for an unknown one, so
// an empty result triggers an event existence check to honor the port's
// ErrNotFound contract.
func (c *Client) ListDonations(ctx context.Context, eventID int64) ([]donation.Donation, error) {
	params := url.Values{}
	params.Set("type", "donation")
	params.Set("event", strconv.FormatInt(eventID, 10))

	records, err := c.req.Search(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		if _, err := c.GetEvent(ctx, eventID); err != nil {
			return nil, err
		}
		return []donation.Donation{}, nil
	}

	donations := make([]donation.Donation, 0, len(records))
	for _, rec := range records {
		d, err := toDomainDonation(rec)
		if err != nil {
			return nil, err
		}
		donations = append(donations, *d)
	}
	return donations, nil
}

// ListDonationBids fetches the bid allocations attached to a donation.
// A donation with no bids yields an empty slice.
func (c *Client) ListDonationBids(ctx context.Context, donationID int64) ([]donation.Bid, error) {
	params := url.Values{}
	params.Set("type", "donationbid")
	params.Set("donation", strconv.FormatInt(donationID, 10))

	records, err := c.req.Search(ctx, params)
	if err != nil {
		return nil, err
	}

	bids := make([]donation.Bid, 0, len(records))
	for _, rec := range records {
		b, err := toDomainBid(rec)
		if err != nil {
			return nil, err
		}
		bids = append(bids, b)
	}
	return bids, nil
}

// UpdateDonation posts the donation's editable fields to /edit and returns
// the updated entity as the tracker recorded it. Returns
// [domain.ErrNotFound] if the donation does not exist.
func (c *Client) UpdateDonation(ctx context.Context, d *donation.Donation) (*donation.Donation, error) {
	records, err := c.req.Submit(ctx, "/edit", donationEditParams(d))
	if err != nil {
		return nil, err
	}
	return toDomainDonation(records[0])
}

// CreateBid posts a new bid allocation to /add and returns the created
// entity with its server-assigned ID. Returns [domain.ErrValidation] if the
// tracker rejects the allocation.
func (c *Client) CreateBid(ctx context.Context, b *donation.Bid) (*donation.Bid, error) {
	records, err := c.req.Submit(ctx, "/add", bidAddParams(b))
	if err != nil {
		return nil, err
	}
	created, err := toDomainBid(records[0])
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteBid removes a bid allocation via /delete. Returns
// [domain.ErrNotFound] if the bid does not exist.
func (c *Client) DeleteBid(ctx context.Context, id int64) error {
	return c.req.Delete(ctx, bidDeleteParams(id))
}

// Package app provides application services that orchestrate use cases by
// coordinating between domain logic and infrastructure through port interfaces.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/metric"

	"github.com/jsamuelsen11/donation-gateway/internal/app/dispatch"
	"github.com/jsamuelsen11/donation-gateway/internal/app/fanout"
	"github.com/jsamuelsen11/donation-gateway/internal/domain"
	"github.com/jsamuelsen11/donation-gateway/internal/domain/donation"
	"github.com/jsamuelsen11/donation-gateway/internal/domain/event"
	"github.com/jsamuelsen11/donation-gateway/internal/platform/config"
	"github.com/jsamuelsen11/donation-gateway/internal/platform/telemetry"
	"github.com/jsamuelsen11/donation-gateway/internal/ports"
)

// Compile-time check that DonationService implements ports.DonationService.
var _ ports.DonationService = (*DonationService)(nil)

// DonationService implements ports.DonationService by orchestrating calls to
// the downstream donation tracker through the TrackerClient port. It runs
// domain validation, stages multi-step writes with rollback, and maintains
// cumulative validation counters. Business rules live in the domain packages;
// this layer only coordinates.
type DonationService struct {
	tracker ports.TrackerClient
	cfg     config.ValidationConfig
	metrics *telemetry.Metrics
	logger  *slog.Logger
	stats   *dispatch.SafeRef[ports.ValidationStats]
}

// NewDonationService creates a DonationService. The client port provides
// access to the downstream tracker; metrics may be nil when telemetry is
// disabled (in tests).
func NewDonationService(client ports.TrackerClient, cfg config.ValidationConfig, metrics *telemetry.Metrics, logger *slog.Logger) *DonationService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DonationService{
		tracker: client,
		cfg:     cfg,
		metrics: metrics,
		logger:  logger,
		stats:   dispatch.NewRef(ports.ValidationStats{}),
	}
}

// eventDetails fetches an event's configuration, memoized per request when a
// dispatch.RequestContext is present on the context.
func (s *DonationService) eventDetails(ctx context.Context, eventID int64) (*event.Details, error) {
	rc, ok := dispatch.From(ctx)
	if !ok {
		return s.tracker.GetEvent(ctx, eventID)
	}
	key := fmt.Sprintf("event:%d", eventID)
	return dispatch.GetOrFetch(rc, key, func(ctx context.Context) (*event.Details, error) {
		return s.tracker.GetEvent(ctx, eventID)
	})
}

// recordValidation updates the cumulative counters and emits metrics for a
// single validation run.
func (s *DonationService) recordValidation(ctx context.Context, eventID int64, result donation.ValidationResult) {
	s.stats.Update(func(st *ports.ValidationStats) {
		st.Performed++
		if result.Valid {
			st.Passed++
		} else {
			st.Failed++
		}
	})

	if s.metrics == nil {
		return
	}

	outcome := "pass"
	if !result.Valid {
		outcome = "fail"
	}
	attrs := metric.WithAttributes(
		telemetry.AttrResult.String(outcome),
		telemetry.AttrEventID.Int64(eventID),
	)
	s.metrics.ValidationTotal.Add(ctx, 1, attrs)
	if n := len(result.Errors); n > 0 {
		s.metrics.ValidationFindings.Add(ctx, int64(n), attrs)
	}
}

// ValidateDonation checks a candidate donation and its bids against the
// event's configured limits. A failing result is returned without error;
// only fetch failures surface as errors.
func (s *DonationService) ValidateDonation(ctx context.Context, eventID int64, d donation.Donation, bids []donation.Bid) (donation.ValidationResult, error) {
	s.logger.InfoContext(ctx, "validating donation",
		slog.Int64("event_id", eventID),
		slog.Int("bids", len(bids)),
	)

	details, err := s.eventDetails(ctx, eventID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to fetch event",
			slog.String("operation", "ValidateDonation"),
			slog.Int64("event_id", eventID),
			slog.Any("error", err),
		)
		return donation.ValidationResult{}, err
	}

	result := donation.Validate(*details, d, bids)
	s.recordValidation(ctx, eventID, result)

	if !result.Valid {
		s.logger.InfoContext(ctx, "donation failed validation",
			slog.Int64("event_id", eventID),
			slog.Int("findings", len(result.Errors)),
		)
	}
	return result, nil
}

// GetEvent returns the event configuration relevant to validation.
func (s *DonationService) GetEvent(ctx context.Context, id int64) (*event.Details, error) {
	s.logger.InfoContext(ctx, "fetching event", slog.Int64("id", id))

	details, err := s.eventDetails(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to fetch event",
			slog.String("operation", "GetEvent"),
			slog.Int64("id", id),
			slog.Any("error", err),
		)
		return nil, err
	}
	return details, nil
}

// GetDonation returns a donation together with its bid allocations.
func (s *DonationService) GetDonation(ctx context.Context, id int64) (*donation.Donation, []donation.Bid, error) {
	s.logger.InfoContext(ctx, "fetching donation", slog.Int64("id", id))

	d, err := s.tracker.GetDonation(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to fetch donation",
			slog.String("operation", "GetDonation"),
			slog.Int64("id", id),
			slog.Any("error", err),
		)
		return nil, nil, err
	}

	bids, err := s.tracker.ListDonationBids(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to fetch donation bids",
			slog.String("operation", "GetDonation"),
			slog.Int64("donation_id", id),
			slog.Any("error", err),
		)
		return nil, nil, err
	}

	return d, bids, nil
}

// ListDonations returns all donations recorded for an event.
func (s *DonationService) ListDonations(ctx context.Context, eventID int64) ([]donation.Donation, error) {
	s.logger.InfoContext(ctx, "listing donations", slog.Int64("event_id", eventID))

	donations, err := s.tracker.ListDonations(ctx, eventID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list donations",
			slog.String("operation", "ListDonations"),
			slog.Int64("event_id", eventID),
			slog.Any("error", err),
		)
		return nil, err
	}
	return donations, nil
}

// SaveDonation validates a donation with its desired bid set and persists
// the changes as a unit. The donation update is staged first, then new bids
// (ID zero) as a parallel group, then removals of existing bids absent from
// the desired set. If any write fails, completed writes are rolled back in
// reverse order and the first error is returned.
func (s *DonationService) SaveDonation(ctx context.Context, d *donation.Donation, bids []donation.Bid) (*donation.Donation, error) {
	if d == nil {
		return nil, domain.NewValidationError(domain.Finding{Field: "donation", Message: "Donation is required."})
	}

	s.logger.InfoContext(ctx, "saving donation",
		slog.Int64("id", d.ID),
		slog.Int("bids", len(bids)),
	)

	rc, ok := dispatch.From(ctx)
	if !ok {
		rc = dispatch.New(ctx)
	}

	priorKey := fmt.Sprintf("donation:%d", d.ID)
	prior, err := dispatch.GetOrFetch(rc, priorKey, func(ctx context.Context) (*donation.Donation, error) {
		return s.tracker.GetDonation(ctx, d.ID)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to fetch donation",
			slog.String("operation", "SaveDonation"),
			slog.Int64("id", d.ID),
			slog.Any("error", err),
		)
		return nil, err
	}
	d.EventID = prior.EventID

	details, err := s.eventDetails(ctx, prior.EventID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to fetch event",
			slog.String("operation", "SaveDonation"),
			slog.Int64("event_id", prior.EventID),
			slog.Any("error", err),
		)
		return nil, err
	}

	result := donation.Validate(*details, *d, bids)
	s.recordValidation(ctx, prior.EventID, result)
	if !result.Valid {
		s.logger.InfoContext(ctx, "donation rejected",
			slog.Int64("id", d.ID),
			slog.Int("findings", len(result.Errors)),
		)
		return nil, result.Err()
	}

	existing, err := s.tracker.ListDonationBids(ctx, d.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to fetch donation bids",
			slog.String("operation", "SaveDonation"),
			slog.Int64("donation_id", d.ID),
			slog.Any("error", err),
		)
		return nil, err
	}

	update := &updateDonationAction{tracker: s.tracker, next: d, prior: prior}
	if err := rc.Stage(priorKey, d, update); err != nil {
		return nil, err
	}

	creates := stageBidCreations(s.tracker, d.ID, bids)
	if len(creates) > 0 {
		if err := rc.AddGroup(creates...); err != nil {
			return nil, err
		}
	}

	for _, b := range removedBids(existing, bids) {
		if err := rc.AddAction(&deleteBidAction{tracker: s.tracker, bid: b}); err != nil {
			return nil, err
		}
	}

	if err := rc.Commit(ctx); err != nil {
		return nil, err
	}

	if update.updated != nil {
		return update.updated, nil
	}
	return d, nil
}

// stageBidCreations builds create actions for bids without a server-assigned
// ID, stamping them with the owning donation.
func stageBidCreations(tracker ports.TrackerClient, donationID int64, bids []donation.Bid) []domain.Action {
	var actions []domain.Action
	for i := range bids {
		if bids[i].ID != 0 {
			continue
		}
		b := bids[i]
		b.DonationID = donationID
		actions = append(actions, &createBidAction{tracker: tracker, bid: &b})
	}
	return actions
}

// removedBids returns the existing bids that are absent from the desired set.
func removedBids(existing, desired []donation.Bid) []donation.Bid {
	keep := make(map[int64]struct{}, len(desired))
	for _, b := range desired {
		if b.ID != 0 {
			keep[b.ID] = struct{}{}
		}
	}

	var removed []donation.Bid
	for _, b := range existing {
		if _, ok := keep[b.ID]; !ok {
			removed = append(removed, b)
		}
	}
	return removed
}

// ScreenEvent validates every donation of an event concurrently and reports
// the ones with findings. Bid fetch failures for individual donations are
// recorded in the report instead of failing the whole screen.
func (s *DonationService) ScreenEvent(ctx context.Context, eventID int64) (*ports.ScreenReport, error) {
	s.logger.InfoContext(ctx, "screening event", slog.Int64("event_id", eventID))

	details, err := s.eventDetails(ctx, eventID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to fetch event",
			slog.String("operation", "ScreenEvent"),
			slog.Int64("event_id", eventID),
			slog.Any("error", err),
		)
		return nil, err
	}

	donations, err := s.tracker.ListDonations(ctx, eventID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list donations",
			slog.String("operation", "ScreenEvent"),
			slog.Int64("event_id", eventID),
			slog.Any("error", err),
		)
		return nil, err
	}

	workers := s.cfg.ScreenWorkers
	if workers < 1 {
		workers = 1
	}

	results := fanout.Run(ctx, workers, donations, func(ctx context.Context, d donation.Donation) (donation.ValidationResult, error) {
		bids, err := s.tracker.ListDonationBids(ctx, d.ID)
		if err != nil {
			return donation.ValidationResult{}, err
		}
		result := donation.Validate(*details, d, bids)
		s.recordValidation(ctx, eventID, result)
		return result, nil
	})

	report := &ports.ScreenReport{
		EventID:  eventID,
		Screened: len(donations),
	}
	for i, r := range results {
		switch {
		case r.Err != nil:
			report.Flagged = append(report.Flagged, ports.ScreenedDonation{
				DonationID: donations[i].ID,
				Err:        r.Err,
			})
		case !r.Value.Valid:
			report.Flagged = append(report.Flagged, ports.ScreenedDonation{
				DonationID: donations[i].ID,
				Findings:   r.Value.Errors,
			})
		}
	}

	s.logger.InfoContext(ctx, "event screen complete",
		slog.Int64("event_id", eventID),
		slog.Int("screened", report.Screened),
		slog.Int("flagged", len(report.Flagged)),
	)
	return report, nil
}

// Stats returns cumulative validation counters for this process.
func (s *DonationService) Stats() ports.ValidationStats {
	return s.stats.Get()
}

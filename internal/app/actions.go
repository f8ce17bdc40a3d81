package app

import (
	"context"
	"fmt"

	"github.com/jsamuelsen11/donation-gateway/internal/domain"
	"github.com/jsamuelsen11/donation-gateway/internal/domain/donation"
	"github.com/jsamuelsen11/donation-gateway/internal/ports"
)

// Compile-time checks that all staged write actions implement domain.Action.
var (
	_ domain.Action = (*updateDonationAction)(nil)
	_ domain.Action = (*createBidAction)(nil)
	_ domain.Action = (*deleteBidAction)(nil)
)

// updateDonationAction writes changed donation fields to the tracker.
// Rollback restores the donation to its state before the update.
type updateDonationAction struct {
	tracker ports.TrackerClient
	next    *donation.Donation
	prior   *donation.Donation

	// updated holds the tracker's response after a successful Execute.
	updated *donation.Donation
}

func (a *updateDonationAction) Execute(ctx context.Context) error {
	updated, err := a.tracker.UpdateDonation(ctx, a.next)
	if err != nil {
		return err
	}
	a.updated = updated
	return nil
}

func (a *updateDonationAction) Rollback(ctx context.Context) error {
	_, err := a.tracker.UpdateDonation(ctx, a.prior)
	return err
}

func (a *updateDonationAction) Description() string {
	return fmt.Sprintf("update donation %d", a.next.ID)
}

// createBidAction attaches a new bid to a donation. Rollback deletes the
// bid the tracker created.
type createBidAction struct {
	tracker ports.TrackerClient
	bid     *donation.Bid

	// created holds the tracker's response, including the assigned bid ID.
	created *donation.Bid
}

func (a *createBidAction) Execute(ctx context.Context) error {
	created, err := a.tracker.CreateBid(ctx, a.bid)
	if err != nil {
		return err
	}
	a.created = created
	return nil
}

func (a *createBidAction) Rollback(ctx context.Context) error {
	if a.created == nil {
		return nil
	}
	return a.tracker.DeleteBid(ctx, a.created.ID)
}

func (a *createBidAction) Description() string {
	return fmt.Sprintf("create bid for donation %d", a.bid.DonationID)
}

// deleteBidAction removes a bid from a donation. Rollback recreates the
// bid; the tracker assigns it a fresh ID.
type deleteBidAction struct {
	tracker ports.TrackerClient
	bid     donation.Bid
}

func (a *deleteBidAction) Execute(ctx context.Context) error {
	return a.tracker.DeleteBid(ctx, a.bid.ID)
}

func (a *deleteBidAction) Rollback(ctx context.Context) error {
	restored := a.bid
	restored.ID = 0
	_, err := a.tracker.CreateBid(ctx, &restored)
	return err
}

func (a *deleteBidAction) Description() string {
	return fmt.Sprintf("delete bid %d", a.bid.ID)
}

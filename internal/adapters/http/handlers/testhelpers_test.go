package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/donation-gateway/internal/domain/donation"
	"github.com/jsamuelsen11/donation-gateway/internal/domain/event"
	"github.com/jsamuelsen11/donation-gateway/internal/ports"
)

var testTime = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

// stubService is a hand-rolled double for ports.DonationService. Unset
// function fields fail the call with an "unexpected call" error.
type stubService struct {
	validateFn      func(ctx context.Context, eventID int64, d donation.Donation, bids []donation.Bid) (donation.ValidationResult, error)
	getEventFn      func(ctx context.Context, id int64) (*event.Details, error)
	getDonationFn   func(ctx context.Context, id int64) (*donation.Donation, []donation.Bid, error)
	listDonationsFn func(ctx context.Context, eventID int64) ([]donation.Donation, error)
	saveFn          func(ctx context.Context, d *donation.Donation, bids []donation.Bid) (*donation.Donation, error)
	screenFn        func(ctx context.Context, eventID int64) (*ports.ScreenReport, error)
	statsFn         func() ports.ValidationStats
}

func (s *stubService) ValidateDonation(ctx context.Context, eventID int64, d donation.Donation, bids []donation.Bid) (donation.ValidationResult, error) {
	if s.validateFn == nil {
		return donation.ValidationResult{}, errors.New("unexpected call: ValidateDonation")
	}
	return s.validateFn(ctx, eventID, d, bids)
}

func (s *stubService) GetEvent(ctx context.Context, id int64) (*event.Details, error) {
	if s.getEventFn == nil {
		return nil, errors.New("unexpected call: GetEvent")
	}
	return s.getEventFn(ctx, id)
}

func (s *stubService) GetDonation(ctx context.Context, id int64) (*donation.Donation, []donation.Bid, error) {
	if s.getDonationFn == nil {
		return nil, nil, errors.New("unexpected call: GetDonation")
	}
	return s.getDonationFn(ctx, id)
}

func (s *stubService) ListDonations(ctx context.Context, eventID int64) ([]donation.Donation, error) {
	if s.listDonationsFn == nil {
		return nil, errors.New("unexpected call: ListDonations")
	}
	return s.listDonationsFn(ctx, eventID)
}

func (s *stubService) SaveDonation(ctx context.Context, d *donation.Donation, bids []donation.Bid) (*donation.Donation, error) {
	if s.saveFn == nil {
		return nil, errors.New("unexpected call: SaveDonation")
	}
	return s.saveFn(ctx, d, bids)
}

func (s *stubService) ScreenEvent(ctx context.Context, eventID int64) (*ports.ScreenReport, error) {
	if s.screenFn == nil {
		return nil, errors.New("unexpected call: ScreenEvent")
	}
	return s.screenFn(ctx, eventID)
}

func (s *stubService) Stats() ports.ValidationStats {
	if s.statsFn == nil {
		return ports.ValidationStats{}
	}
	return s.statsFn()
}

func withChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func validEventDetails() *event.Details {
	maxLen := 8
	return &event.Details{
		ID:              7,
		Name:            "Charity Marathon 2026",
		MinimumDonation: 5,
		MaximumDonation: 1000,
		AvailableIncentives: map[int64]event.Incentive{
			10: {
				ID:                  10,
				Name:                "Filename",
				AllowsCustomOptions: true,
				MaxOptionLength:     &maxLen,
			},
		},
	}
}

func validDonation() *donation.Donation {
	amount := 50.0
	return &donation.Donation{
		ID:           100,
		EventID:      7,
		Amount:       &amount,
		Name:         "jsmith",
		Email:        "jsmith@example.com",
		Comment:      "Good luck!",
		TimeReceived: testTime,
	}
}

func validBids() []donation.Bid {
	return []donation.Bid{
		{ID: 55, DonationID: 100, IncentiveID: 10, Amount: 50, CustomOptionName: "quake"},
	}
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(v); err != nil {
		t.Fatalf("failed to encode JSON body: %v", err)
	}
	return buf
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var result T
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode JSON response: %v", err)
	}
	return result
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Errorf("status = %d, want %d; body = %s", rec.Code, want, rec.Body.String())
	}
}

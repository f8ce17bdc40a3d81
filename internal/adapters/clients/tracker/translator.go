package tracker

import (
	"net/url"
	"strconv"
	"time"

	"github.com/jsamuelsen11/donation-gateway/internal/domain/donation"
	"github.com/jsamuelsen11/donation-gateway/internal/domain/event"
)

// toDomainEvent builds event.Details from a serialized event record and the
// event's bid target records. The tracker only configures a per-event
// minimum; the maximum is the gateway's payment ceiling, injected by the
// client from configuration.
func toDomainEvent(rec modelRecord, bids []modelRecord, maxDonation float64) (*event.Details, error) {
	var ef eventFields
	if err := decodeFields(rec, &ef); err != nil {
		return nil, err
	}

	incentives := make(map[int64]event.Incentive, len(bids))
	for _, b := range bids {
		var bf bidFields
		if err := decodeFields(b, &bf); err != nil {
			return nil, err
		}
		// Only targets accept donation allocations; parent bids group
		// targets and must not appear as incentives.
		if !bf.IsTarget {
			continue
		}
		inc := toDomainIncentive(b.PK, bf)
		incentives[inc.ID] = inc
	}

	return &event.Details{
		ID:                  rec.PK,
		Name:                ef.Name,
		MinimumDonation:     float64(ef.MinimumDonation),
		MaximumDonation:     maxDonation,
		AvailableIncentives: incentives,
	}, nil
}

// toDomainIncentive converts decoded bid target fields. The length
// constraint only applies when the target accepts donor-suggested options;
// targets without allowuseroptions carry no constraint.
func toDomainIncentive(pk int64, bf bidFields) event.Incentive {
	inc := event.Incentive{
		ID:                  pk,
		Name:                bf.Name,
		Description:         bf.Description,
		AllowsCustomOptions: bf.AllowUserOptions,
	}
	if bf.AllowUserOptions {
		inc.MaxOptionLength = bf.OptionMaxLength
	}
	return inc
}

// toDomainDonation converts a serialized donation record. The tracker's
// requestedalias and requestedemail fields map to our donor name and email.
func toDomainDonation(rec modelRecord) (*donation.Donation, error) {
	var df donationFields
	if err := decodeFields(rec, &df); err != nil {
		return nil, err
	}

	d := &donation.Donation{
		ID:      rec.PK,
		EventID: df.Event,
		Name:    df.RequestedAlias,
		Email:   df.RequestedEmail,
		Comment: df.Comment,
	}
	if df.Amount != nil {
		amount := float64(*df.Amount)
		d.Amount = &amount
	}
	if df.TimeReceived != "" {
		// The tracker serializes timestamps in RFC 3339; a parse failure
		// leaves the zero time rather than failing the whole record.
		if ts, err := time.Parse(time.RFC3339, df.TimeReceived); err == nil {
			d.TimeReceived = ts
		}
	}
	return d, nil
}

// toDomainBid converts a serialized donation bid record.
func toDomainBid(rec modelRecord) (donation.Bid, error) {
	var bf donationBidFields
	if err := decodeFields(rec, &bf); err != nil {
		return donation.Bid{}, err
	}

	return donation.Bid{
		ID:               rec.PK,
		DonationID:       bf.Donation,
		IncentiveID:      bf.Bid,
		Amount:           float64(bf.Amount),
		CustomOptionName: bf.CustomOptionName,
	}, nil
}

// formatAmount renders a money value the way the tracker's form parser
// expects: plain decimal, no exponent.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// donationEditParams builds the form parameters for editing a donation.
// Only gateway-editable fields are sent; the tracker rejects fields the
// caller has no permission to change.
func donationEditParams(d *donation.Donation) url.Values {
	params := url.Values{}
	params.Set("type", "donation")
	params.Set("id", strconv.FormatInt(d.ID, 10))
	params.Set("requestedalias", d.Name)
	params.Set("requestedemail", d.Email)
	params.Set("comment", d.Comment)
	if d.Amount != nil {
		params.Set("amount", formatAmount(*d.Amount))
	}
	return params
}

// bidAddParams builds the form parameters for attaching a bid to a donation.
func bidAddParams(b *donation.Bid) url.Values {
	params := url.Values{}
	params.Set("type", "donationbid")
	params.Set("donation", strconv.FormatInt(b.DonationID, 10))
	params.Set("bid", strconv.FormatInt(b.IncentiveID, 10))
	params.Set("amount", formatAmount(b.Amount))
	if b.CustomOptionName != "" {
		params.Set("customoptionname", b.CustomOptionName)
	}
	return params
}

// bidDeleteParams builds the form parameters for deleting a bid.
func bidDeleteParams(id int64) url.Values {
	params := url.Values{}
	params.Set("type", "donationbid")
	params.Set("id", strconv.FormatInt(id, 10))
	return params
}

package donation

import "time"

// Donation is a candidate donation record. Amount is nil until the donor
// (or a processor editing the donation) has entered a value; the remaining
// descriptive fields are carried through but never influence validation.
type Donation struct {
	ID           int64
	EventID      int64
	Amount       *float64
	Name         string
	Email        string
	Comment      string
	TimeReceived time.Time
}

// Bid allocates part of a donation's amount toward a specific incentive.
// CustomOptionName is the donor-supplied option text for incentives that
// accept custom options; empty means none was provided.
type Bid struct {
	ID               int64
	DonationID       int64
	IncentiveID      int64
	Amount           float64
	CustomOptionName string
}

// SumBids returns the total of all bid amounts. Zero for an empty slice.
func SumBids(bids []Bid) float64 {
	var sum float64
	for _, b := range bids {
		sum += b.Amount
	}
	return sum
}

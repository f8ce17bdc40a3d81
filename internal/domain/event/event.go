// Package event defines the fundraising event configuration consumed by
// donation validation: donation bounds and the incentives bids may be
// allocated toward.
package event

// Incentive is an event-defined prize or perk that donation bids can be
// allocated toward. An incentive that allows custom options may constrain
// how long a donor-supplied option name can be.
type Incentive struct {
	ID                  int64
	Name                string
	Description         string
	AllowsCustomOptions bool
	// MaxOptionLength bounds the length of a bid's custom option name.
	// Nil means no length constraint.
	MaxOptionLength *int
}

// Details is the event configuration relevant to donation validation.
// It is immutable for the duration of a validation call.
type Details struct {
	ID              int64
	Name            string
	MinimumDonation float64
	MaximumDonation float64
	// AvailableIncentives maps incentive ID to its configuration.
	AvailableIncentives map[int64]Incentive
}

// Incentive looks up an incentive by ID. The second return value reports
// whether the incentive exists for this event.
func (d *Details) Incentive(id int64) (Incentive, bool) {
	inc, ok := d.AvailableIncentives[id]
	return inc, ok
}

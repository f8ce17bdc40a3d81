// Package donation defines donation and bid entities and the pure
// validation routine that checks them against event-configured limits.
package donation

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/jsamuelsen11/donation-gateway/internal/domain"
	"github.com/jsamuelsen11/donation-gateway/internal/domain/event"
)

// MaxBidsPerDonation is the upper bound on bid allocations per donation.
const MaxBidsPerDonation = 10

// ValidationResult is the outcome of validating a donation. Errors keeps
// the order in which checks ran and is stable for identical inputs.
// Valid is true iff Errors is empty.
type ValidationResult struct {
	Valid  bool
	Errors []domain.Finding
}

// Err converts an invalid result into a *domain.ValidationError preserving
// finding order, or returns nil for a valid result. Write paths use this to
// reject a save; the validation endpoint returns the result itself.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return &domain.ValidationError{Findings: r.Errors}
}

// Validate checks a donation and its bid allocations against the event's
// configured limits. It is pure: inputs are never mutated, the result is
// freshly allocated, and the same inputs always produce the same findings
// in the same order.
//
// When the donation amount is unset, only the "amount is not set" finding
// is produced from the amount branch; bound and bid-sum checks require a
// present amount. Custom option length checks run for every bid regardless
// of the amount branch. Incentives missing from the event, or without a
// length constraint, impose no limit.
func Validate(details event.Details, d Donation, bids []Bid) ValidationResult {
	var errs []domain.Finding

	sumOfBids := SumBids(bids)

	if d.Amount == nil {
		errs = append(errs, domain.Finding{
			Field:   "amount",
			Message: "Donation amount is not set",
		})
	} else {
		amount := *d.Amount

		if amount < details.MinimumDonation {
			errs = append(errs, domain.Finding{
				Field:   "amount",
				Message: fmt.Sprintf("This donation is below the allowed minimum (%s)", formatAmount(details.MinimumDonation)),
			})
		}
		if amount > details.MaximumDonation {
			errs = append(errs, domain.Finding{
				Field:   "amount",
				Message: fmt.Sprintf("This donation is above the allowed maximum (%s)", formatAmount(details.MaximumDonation)),
			})
		}
		if len(bids) > MaxBidsPerDonation {
			errs = append(errs, domain.Finding{
				Field:   "bids",
				Message: fmt.Sprintf("Only %d bids can be set per donation.", MaxBidsPerDonation),
			})
		}
		if len(bids) > 0 {
			// Deliberately two independent ifs, not if/else: the conditions
			// are mutually exclusive today only by arithmetic.
			if sumOfBids > amount {
				errs = append(errs, domain.Finding{
					Field:   "bid amounts",
					Message: "Sum of bid amounts exceeds donation total.",
				})
			}
			if sumOfBids < amount {
				errs = append(errs, domain.Finding{
					Field:   "bid amounts",
					Message: "Sum of bid amounts is lower than donation total.",
				})
			}
		}
	}

	for _, b := range bids {
		inc, ok := details.Incentive(b.IncentiveID)
		if !ok || inc.MaxOptionLength == nil || b.CustomOptionName == "" {
			continue
		}
		if utf8.RuneCountInString(b.CustomOptionName) > *inc.MaxOptionLength {
			errs = append(errs, domain.Finding{
				Field:   "bid",
				Message: fmt.Sprintf("New option name for %s is too long (max %d)", inc.Name, *inc.MaxOptionLength),
			})
		}
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// formatAmount renders a donation bound without trailing zeros, so that
// whole-number limits read naturally in messages (5, not 5.00).
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

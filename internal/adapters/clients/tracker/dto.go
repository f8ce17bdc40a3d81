package tracker

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// modelRecord is the tracker's serialized model shape: every search and
// write response is a list of these.
type modelRecord struct {
	PK     int64           `json:"pk"`
	Model  string          `json:"model"`
	Fields json.RawMessage `json:"fields"`
}

// decimal handles the tracker's money fields, which arrive either as JSON
// numbers or as Django-serialized decimal strings ("25.00").
type decimal float64

func (d *decimal) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*d = 0
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("parsing decimal %q: %w", data, err)
	}
	*d = decimal(v)
	return nil
}

// eventFields matches the serialized event model. Only the fields relevant
// to donation validation are decoded.
type eventFields struct {
	Short           string  `json:"short"`
	Name            string  `json:"name"`
	MinimumDonation decimal `json:"minimumdonation"`
}

// bidFields matches the serialized bid target model. The tracker calls
// validation incentives "bids"; a target with allowuseroptions accepts
// donor-suggested option names up to option_max_length runes.
type bidFields struct {
	Event            int64  `json:"event"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	IsTarget         bool   `json:"istarget"`
	AllowUserOptions bool   `json:"allowuseroptions"`
	OptionMaxLength  *int   `json:"option_max_length"`
}

// donationFields matches the serialized donation model. Amount is a pointer
// because imported or pending donations may not have one yet.
type donationFields struct {
	Event          int64    `json:"event"`
	Amount         *decimal `json:"amount"`
	RequestedAlias string   `json:"requestedalias"`
	RequestedEmail string   `json:"requestedemail"`
	Comment        string   `json:"comment"`
	TimeReceived   string   `json:"timereceived"`
}

// donationBidFields matches the serialized donation bid model, which
// allocates part of a donation's amount to a bid target.
type donationBidFields struct {
	Donation         int64   `json:"donation"`
	Bid              int64   `json:"bid"`
	Amount           decimal `json:"amount"`
	CustomOptionName string  `json:"customoptionname"`
}

// deleteResult matches the tracker's delete response.
type deleteResult struct {
	Result string `json:"result"`
}

// decodeFields unmarshals a record's fields into the given typed struct.
func decodeFields(rec modelRecord, out any) error {
	if err := json.Unmarshal(rec.Fields, out); err != nil {
		return fmt.Errorf("decoding %s record %d: %w", rec.Model, rec.PK, err)
	}
	return nil
}

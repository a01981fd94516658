package models

import (
	"encoding/json"

	"github.com/guregu/null/v6"
)

// Instrument is a display label paired with a provider symbol
type Instrument struct {
	Label  string `json:"label" yaml:"label" binding:"required"`
	Symbol string `json:"symbol" yaml:"symbol" binding:"required"`
}

// Fundamentals holds optional reference data shown next to a watchlist entry
type Fundamentals struct {
	Currency  null.String `json:"currency"`
	MarketCap null.Float  `json:"marketCap"`
	PE        null.Float  `json:"pe"`
	Volume    null.Float  `json:"volume"`
}

// InstrumentResult is the computed record for one instrument. Nullable fields
// are invalid when the value could not be computed.
type InstrumentResult struct {
	Label        string
	Symbol       string
	CurrentValue null.Float
	Returns      map[Period]null.Float
	Fundamentals *Fundamentals
	Error        string
}

// Return looks up the return for a period; missing periods are null.
func (r InstrumentResult) Return(p Period) null.Float {
	return r.Returns[p]
}

type instrumentResultJSON struct {
	Name    string     `json:"name"`
	Ticker  string     `json:"ticker"`
	Value   null.Float `json:"value"`
	Delta1d null.Float `json:"delta1d"`
	MTD     null.Float `json:"mtd"`
	YTD     null.Float `json:"ytd"`
	*Fundamentals
	Error string `json:"error,omitempty"`
}

// MarshalJSON flattens the result into the item shape served to clients.
func (r InstrumentResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(instrumentResultJSON{
		Name:         r.Label,
		Ticker:       r.Symbol,
		Value:        r.CurrentValue,
		Delta1d:      r.Return(PeriodDay),
		MTD:          r.Return(PeriodMonthToDate),
		YTD:          r.Return(PeriodYearToDate),
		Fundamentals: r.Fundamentals,
		Error:        r.Error,
	})
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (r *InstrumentResult) UnmarshalJSON(b []byte) error {
	var raw instrumentResultJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*r = InstrumentResult{
		Label:        raw.Name,
		Symbol:       raw.Ticker,
		CurrentValue: raw.Value,
		Returns: map[Period]null.Float{
			PeriodDay:         raw.Delta1d,
			PeriodMonthToDate: raw.MTD,
			PeriodYearToDate:  raw.YTD,
		},
		Fundamentals: raw.Fundamentals,
		Error:        raw.Error,
	}
	return nil
}

// InstrumentSet is a named, configured list of instruments served as one response
type InstrumentSet struct {
	Name         string       `json:"name" yaml:"name"`
	Instruments  []Instrument `json:"instruments" yaml:"instruments"`
	Fundamentals bool         `json:"fundamentals" yaml:"fundamentals"`
	ValuePlaces  int32        `json:"value_places,omitempty" yaml:"value_places"`
	// FlagTooShort reports series with fewer than two closes as warnings
	FlagTooShort bool `json:"flag_too_short,omitempty" yaml:"flag_too_short"`
}

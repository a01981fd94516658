package models

import (
	"time"

	"github.com/guregu/null/v6"
)

// Column names used in a RawFrame
const (
	ColumnOpen   = "Open"
	ColumnHigh   = "High"
	ColumnLow    = "Low"
	ColumnClose  = "Close"
	ColumnVolume = "Volume"
)

// PricePoint is a single daily close on a calendar date (UTC midnight)
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// PriceSeries is strictly increasing by Date with no duplicates and no NaN closes.
// An empty series is valid and means "unavailable".
type PriceSeries []PricePoint

// Len returns the number of points in the series
func (s PriceSeries) Len() int { return len(s) }

// Empty reports whether the series has no points
func (s PriceSeries) Empty() bool { return len(s) == 0 }

// First returns the oldest point. The second result is false for an empty series.
func (s PriceSeries) First() (PricePoint, bool) {
	if len(s) == 0 {
		return PricePoint{}, false
	}
	return s[0], true
}

// Last returns the most recent point. The second result is false for an empty series.
func (s PriceSeries) Last() (PricePoint, bool) {
	if len(s) == 0 {
		return PricePoint{}, false
	}
	return s[len(s)-1], true
}

// Through returns the prefix of the series dated on or before date.
func (s PriceSeries) Through(date time.Time) PriceSeries {
	n := len(s)
	for n > 0 && s[n-1].Date.After(date) {
		n--
	}
	return s[:n]
}

// RawFrame is a provider-shaped table for one instrument: a timestamp axis plus
// named columns aligned with it. Timestamps may carry any location; zone-naive
// inputs are expected to be parsed as UTC.
type RawFrame struct {
	Timestamps []time.Time
	Columns    map[string][]null.Float
}

// Empty reports whether the frame has no samples at all
func (f RawFrame) Empty() bool { return len(f.Timestamps) == 0 }

// RawTable holds raw frames keyed by instrument symbol
type RawTable map[string]RawFrame

// SingleTable wraps a single-instrument frame into a RawTable
func SingleTable(symbol string, frame RawFrame) RawTable {
	return RawTable{symbol: frame}
}

// FetchResult is what a price provider returns for a batch of symbols.
// Symbols that could not be fetched are listed in Failures and absent from Table.
type FetchResult struct {
	Table    RawTable
	Failures map[string]error
}

// NewFetchResult creates an empty FetchResult
func NewFetchResult() *FetchResult {
	return &FetchResult{
		Table:    make(RawTable),
		Failures: make(map[string]error),
	}
}

// HasData reports whether at least one symbol returned any samples
func (r *FetchResult) HasData() bool {
	for _, f := range r.Table {
		if !f.Empty() {
			return true
		}
	}
	return false
}

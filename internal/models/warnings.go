package models

// WarningCode categorizes warnings by subsystem.
// W2xxx = pricing, W3xxx = validation.
type WarningCode string

const (
	WarnFetchFailed      WarningCode = "W2001" // provider could not return data for one symbol
	WarnMalformedSeries  WarningCode = "W2002" // raw frame for one symbol could not be normalized
	WarnComputeFailed    WarningCode = "W2003" // unexpected failure while computing returns
	WarnFundamentals     WarningCode = "W2004" // fundamentals lookup failed, prices unaffected
	WarnSeriesTooShort   WarningCode = "W3001" // fewer than two closes, 1-day return unavailable
	WarnDuplicateSymbols WarningCode = "W3002" // the same symbol was requested more than once
)

// Warning represents a non-fatal issue encountered during processing.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}

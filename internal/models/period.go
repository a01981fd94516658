package models

import "time"

// Period identifies which return is computed for an instrument
type Period int

const (
	PeriodDay Period = iota
	PeriodMonthToDate
	PeriodYearToDate
)

// Periods lists every period in output order
var Periods = []Period{PeriodDay, PeriodMonthToDate, PeriodYearToDate}

func (p Period) String() string {
	switch p {
	case PeriodDay:
		return "day"
	case PeriodMonthToDate:
		return "month-to-date"
	case PeriodYearToDate:
		return "year-to-date"
	default:
		return "unknown"
	}
}

// JSONKey returns the response field name for the period
func (p Period) JSONKey() string {
	switch p {
	case PeriodDay:
		return "delta1d"
	case PeriodMonthToDate:
		return "mtd"
	case PeriodYearToDate:
		return "ytd"
	default:
		return ""
	}
}

// AnchorDate returns the calendar date the period return is measured from.
// PeriodDay has no calendar anchor (it uses the previous trading day in the
// series), so the second result is false for it.
func (p Period) AnchorDate(asOf time.Time) (time.Time, bool) {
	switch p {
	case PeriodMonthToDate:
		return time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, time.UTC), true
	case PeriodYearToDate:
		return time.Date(asOf.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), true
	default:
		return time.Time{}, false
	}
}

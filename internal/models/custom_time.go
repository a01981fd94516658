package models

import (
	"encoding/json"
	"strings"
	"time"
)

// FlexibleDate is a custom time type that can unmarshal both RFC3339 and "YYYY-MM-DD" formats
type FlexibleDate struct {
	time.Time
}

// ParseFlexibleDate parses s as RFC3339 first, then as a date-only string.
func ParseFlexibleDate(s string) (FlexibleDate, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return FlexibleDate{Time: t}, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err != nil {
		return FlexibleDate{}, err
	}
	return FlexibleDate{Time: t}, nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *FlexibleDate) UnmarshalJSON(b []byte) error {
	parsed, err := ParseFlexibleDate(strings.Trim(string(b), `"`))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (f FlexibleDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Time)
}

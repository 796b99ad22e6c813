// Package temporal provides one abstraction over the date and time
// precisions FHIR allows in a single field.
//
// The documentation mentions the following formats:
//
//	instant   YYYY-MM-DDThh:mm:ss.sss+zz:zz
//	dateTime  YYYY, YYYY-MM, YYYY-MM-DD or YYYY-MM-DDThh:mm:ss+zz:zz
//	date      YYYY, YYYY-MM, or YYYY-MM-DD
//	time      hh:mm:ss
//
// A Value keeps the raw source text alongside the parsed time and the
// precision it was parsed at, so callers can round-trip the original
// representation and still compare or order values.
package temporal

import (
	"fmt"
	"time"
)

// Precision is the precision a Value was parsed at.
type Precision int

const (
	// PrecisionInstant is a full timestamp with a zone offset.
	PrecisionInstant Precision = iota
	// PrecisionDateTime is a local date and time without a zone offset.
	PrecisionDateTime
	// PrecisionDate is a calendar date.
	PrecisionDate
	// PrecisionYearMonth is a year and month.
	PrecisionYearMonth
	// PrecisionYear is a bare year, seen in incomplete birth dates.
	PrecisionYear
	// PrecisionTime is a time of day.
	PrecisionTime
)

// String returns the precision name.
func (p Precision) String() string {
	switch p {
	case PrecisionInstant:
		return "Instant"
	case PrecisionDateTime:
		return "DateTime"
	case PrecisionDate:
		return "Date"
	case PrecisionYearMonth:
		return "YearMonth"
	case PrecisionYear:
		return "Year"
	case PrecisionTime:
		return "Time"
	default:
		return ""
	}
}

// Value is a temporal value at one of the FHIR precisions. The zero
// Value is empty.
type Value struct {
	// Raw is the source text exactly as it appeared in the document.
	Raw string

	// Precision the raw text was parsed at.
	Precision Precision

	// Time holds the parsed value. Components below the precision are
	// at their zero position (January, day 1, midnight, UTC).
	Time time.Time
}

// IsZero reports whether the value is empty.
func (v Value) IsZero() bool {
	return v.Raw == ""
}

// String returns the raw source text.
func (v Value) String() string {
	return v.Raw
}

var layoutsByPrecision = []struct {
	precision Precision
	layouts   []string
}{
	{PrecisionInstant, []string{time.RFC3339}},
	{PrecisionDateTime, []string{"2006-01-02T15:04:05", "2006-01-02T15:04"}},
	{PrecisionDate, []string{"2006-01-02"}},
	{PrecisionYearMonth, []string{"2006-01"}},
	{PrecisionYear, []string{"2006"}},
	{PrecisionTime, []string{"15:04:05", "15:04"}},
}

// Parse parses s trying the supported precisions from the most specific
// to the least.
func Parse(s string) (Value, error) {
	for _, group := range layoutsByPrecision {
		for _, layout := range group.layouts {
			if t, err := time.Parse(layout, s); err == nil {
				return Value{Raw: s, Precision: group.precision, Time: t}, nil
			}
		}
	}
	return Value{}, fmt.Errorf("temporal: cannot parse %q", s)
}

// ParseDate parses a bare calendar date.
func ParseDate(s string) (Value, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Value{}, fmt.Errorf("temporal: cannot parse date %q", s)
	}
	return Value{Raw: s, Precision: PrecisionDate, Time: t}, nil
}

// ParseInstant parses a full timestamp with zone offset.
func ParseInstant(s string) (Value, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Value{}, fmt.Errorf("temporal: cannot parse instant %q", s)
	}
	return Value{Raw: s, Precision: PrecisionInstant, Time: t}, nil
}

// ParseTimeOfDay parses an hh:mm or hh:mm:ss clock time.
func ParseTimeOfDay(s string) (Value, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return Value{Raw: s, Precision: PrecisionTime, Time: t}, nil
		}
	}
	return Value{}, fmt.Errorf("temporal: cannot parse time %q", s)
}

package models

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used for input and query parameters.
const DateLayout = "2006-01-02"

// DefaultRangeDays is the span of the window offered before the user picks one.
const DefaultRangeDays = 28

// DateRange is an inclusive window of calendar dates.
type DateRange struct {
	Since time.Time
	Until time.Time
}

// Date truncates t to midnight UTC of its calendar day in t's location.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NewDateRange builds a range from two calendar dates.
func NewDateRange(since, until time.Time) DateRange {
	return DateRange{Since: Date(since), Until: Date(until)}
}

// ParseDateRange parses two YYYY-MM-DD strings.
func ParseDateRange(since, until string) (DateRange, error) {
	s, err := time.Parse(DateLayout, since)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid start date %q: %w", since, err)
	}
	u, err := time.Parse(DateLayout, until)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid end date %q: %w", until, err)
	}
	return NewDateRange(s, u), nil
}

// DefaultDateRange returns the window of the given number of days ending today.
// A non-positive days falls back to DefaultRangeDays.
func DefaultDateRange(today time.Time, days int) DateRange {
	if days <= 0 {
		days = DefaultRangeDays
	}
	until := Date(today)
	return DateRange{Since: until.AddDate(0, 0, -days), Until: until}
}

// Days returns the number of days between Since and Until.
// A single-day range has a span of zero.
func (r DateRange) Days() int {
	return int(Date(r.Until).Sub(Date(r.Since)).Hours() / 24)
}

// IsZero reports whether neither bound is set.
func (r DateRange) IsZero() bool {
	return r.Since.IsZero() && r.Until.IsZero()
}

// SinceString returns Since formatted as YYYY-MM-DD.
func (r DateRange) SinceString() string {
	return r.Since.Format(DateLayout)
}

// UntilString returns Until formatted as YYYY-MM-DD.
func (r DateRange) UntilString() string {
	return r.Until.Format(DateLayout)
}

func (r DateRange) String() string {
	return r.SinceString() + " → " + r.UntilString()
}

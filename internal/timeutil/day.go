package timeutil

import (
	"fmt"
	"time"
)

// JST is the fixed UTC+9 offset used for every day-boundary decision.
// Persisted completion dates and "is this today" checks must all go through
// this zone; mixing offsets shifts streaks by one day.
var JST = time.FixedZone("JST", 9*60*60)

const dayLayout = "2006-01-02"

// Day is a civil calendar date in JST, formatted as YYYY-MM-DD.
// The string form orders lexicographically, so Day values compare with <.
type Day string

// DayOf returns the JST calendar date containing t.
func DayOf(t time.Time) Day {
	return Day(t.In(JST).Format(dayLayout))
}

// Today returns the current JST calendar date.
func Today() Day {
	return DayOf(time.Now())
}

// ParseDay validates a YYYY-MM-DD string and returns it as a Day.
func ParseDay(s string) (Day, error) {
	t, err := time.ParseInLocation(dayLayout, s, JST)
	if err != nil {
		return "", fmt.Errorf("parsing day %q: %w", s, err)
	}
	return DayOf(t), nil
}

// Time returns midnight JST at the start of the day.
func (d Day) Time() time.Time {
	t, err := time.ParseInLocation(dayLayout, string(d), JST)
	if err != nil {
		return time.Time{}
	}
	return t
}

// AddDays returns the day n calendar days after d (n may be negative).
func (d Day) AddDays(n int) Day {
	return DayOf(d.Time().AddDate(0, 0, n))
}

// Next returns the following calendar day.
func (d Day) Next() Day { return d.AddDays(1) }

// Prev returns the preceding calendar day.
func (d Day) Prev() Day { return d.AddDays(-1) }

// Before reports whether d is strictly earlier than other.
func (d Day) Before(other Day) bool { return d < other }

// DaysBetween returns the number of calendar days from a to b (b − a).
func DaysBetween(a, b Day) int {
	return int(b.Time().Sub(a.Time()) / (24 * time.Hour))
}

// Bounds returns the half-open UTC instant window [start, end) covering the
// full 24-hour JST day.
func (d Day) Bounds() (start, end time.Time) {
	start = d.Time().UTC()
	end = d.Time().Add(24 * time.Hour).UTC()
	return start, end
}

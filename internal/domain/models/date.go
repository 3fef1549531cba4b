package models

import "time"

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// ParseDay parses a YYYY-MM-DD string into a UTC midnight timestamp.
func ParseDay(raw string) (time.Time, error) {
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "date", Message: "expected YYYY-MM-DD"}
	}
	return t.UTC(), nil
}

// Day truncates a timestamp to UTC midnight.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DayBounds returns the inclusive start and end of the calendar day holding t.
// The end bound sits at 23:59:59.999 so stored whole-day timestamps compare
// with exact day-boundary semantics.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := Day(t)
	end := start.Add(24*time.Hour - time.Millisecond)
	return start, end
}

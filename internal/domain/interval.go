package domain

import (
	"fmt"
	"time"
)

// Overlaps reports whether two half-open intervals [aStart,aEnd) and
// [bStart,bEnd) share at least one instant. An order ending at 10:00 does
// not conflict with one starting at 10:00.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// SpansMultipleDays reports whether start and end fall on different calendar
// days. Operating hours are defined per day, so such intervals are never
// bookable.
func SpansMultipleDays(start, end time.Time) bool {
	ys, ds := start.Year(), start.YearDay()
	ye, de := end.Year(), end.YearDay()
	return ys != ye || ds != de
}

// WithinOpenHours reports whether the interval's times of day sit inside
// [open, close]. open and close are HH:MM clock strings as stored on courts.
func WithinOpenHours(start, end time.Time, open, close string) (bool, error) {
	openMin, err := ClockMinutes(open)
	if err != nil {
		return false, err
	}
	closeMin, err := ClockMinutes(close)
	if err != nil {
		return false, err
	}
	return secondOfDay(start) >= openMin*60 && secondOfDay(end) <= closeMin*60, nil
}

// ClockMinutes parses an HH:MM string into minutes since midnight.
func ClockMinutes(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("bad clock value %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func secondOfDay(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}

package utils

import "time"

// TruncateToDay strips the time-of-day component, keeping the location.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsWeekend reports whether the given date falls on Saturday or Sunday.
// Exchange holidays are not modelled; weekend skip only.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// CalendarDays returns the number of calendar days between start and end.
func CalendarDays(start, end time.Time) float64 {
	return end.Sub(start).Hours() / 24
}

// NextTradingDay advances one calendar day, then skips over a weekend.
func NextTradingDay(t time.Time) time.Time {
	next := t.AddDate(0, 0, 1)
	for IsWeekend(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

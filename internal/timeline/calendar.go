package timeline

import "time"

// ISODate is the wire format for calendar dates. It sorts
// lexicographically in chronological order, which the sprint resolver
// relies on for string comparisons.
const ISODate = "2006-01-02"

// ParseDay parses an ISO calendar date into a UTC midnight instant.
func ParseDay(s string) (time.Time, error) {
	return time.ParseInLocation(ISODate, s, time.UTC)
}

// FormatDay renders a date in ISO calendar form.
func FormatDay(t time.Time) string {
	return t.Format(ISODate)
}

// Midnight truncates an instant to its UTC calendar day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// AddDays shifts a date by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// DaysBetween returns the number of whole days from a to b. Negative
// when b precedes a.
func DaysBetween(a, b time.Time) int {
	return int(Midnight(b).Sub(Midnight(a)).Hours() / 24)
}

// IsWeekend reports whether the day falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// StartOfMonth returns the first day of the date's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// SameMonth reports whether two dates share a calendar month.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// dayLetters holds the French single-letter weekday labels used in the
// timeline header, indexed by time.Weekday (Sunday first).
var dayLetters = [7]string{"D", "L", "M", "M", "J", "V", "S"}

// DayLabel returns the French single-letter weekday label.
func DayLabel(t time.Time) string {
	return dayLetters[t.Weekday()]
}

// DayNumber returns the zero-padded day of month.
func DayNumber(t time.Time) string {
	return t.Format("02")
}

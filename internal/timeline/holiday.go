package timeline

import "time"

// fixedHolidays lists the French public holidays that fall on the same
// month and day every year: New Year, Labour Day, Victory Day,
// Bastille Day, Assumption, All Saints, Armistice and Christmas.
var fixedHolidays = [8]struct {
	month time.Month
	day   int
}{
	{time.January, 1},
	{time.May, 1},
	{time.May, 8},
	{time.July, 14},
	{time.August, 15},
	{time.November, 1},
	{time.November, 11},
	{time.December, 25},
}

// EasterSunday computes the Gregorian Easter date for a year using the
// anonymous Gauss/Meeus algorithm. Valid for the Gregorian calendar's
// practical range (1583 onwards).
func EasterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// IsHoliday reports whether a day is a public holiday or an
// organisation-specific closed day. Closed days are keyed by ISO date.
func IsHoliday(day time.Time, closedDays map[string]struct{}) bool {
	if _, ok := closedDays[FormatDay(day)]; ok {
		return true
	}
	for _, h := range fixedHolidays {
		if day.Month() == h.month && day.Day() == h.day {
			return true
		}
	}
	easter := EasterSunday(day.Year())
	for _, offset := range [4]int{0, 1, 39, 50} {
		if Midnight(day).Equal(AddDays(easter, offset)) {
			return true
		}
	}
	return false
}

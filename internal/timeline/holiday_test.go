package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, iso string) time.Time {
	t.Helper()
	d, err := ParseDay(iso)
	require.NoError(t, err)
	return d
}

func TestEasterSunday(t *testing.T) {
	cases := map[int]string{
		1999: "1999-04-04",
		2000: "2000-04-23",
		2024: "2024-03-31",
		2025: "2025-04-20",
		2026: "2026-04-05",
		2038: "2038-04-25",
	}
	for year, want := range cases {
		assert.Equal(t, want, FormatDay(EasterSunday(year)), "year %d", year)
	}
}

func TestIsHolidayEasterRelative(t *testing.T) {
	cases := []struct {
		iso  string
		want bool
	}{
		{"2025-04-20", true},  // Easter Sunday
		{"2025-04-21", true},  // Easter Monday
		{"2025-05-29", true},  // Ascension
		{"2025-06-09", true},  // Whit Monday
		{"2025-04-22", false}, // plain Tuesday after Easter
		{"2025-06-10", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, IsHoliday(day(t, tc.iso), nil), tc.iso)
	}
}

func TestIsHolidayFixed(t *testing.T) {
	for _, iso := range []string{
		"2025-01-01", "2025-05-01", "2025-05-08", "2025-07-14",
		"2025-08-15", "2025-11-01", "2025-11-11", "2025-12-25",
		// fixed holidays are year-agnostic
		"1997-07-14", "2031-12-25",
	} {
		assert.True(t, IsHoliday(day(t, iso), nil), iso)
	}
	assert.False(t, IsHoliday(day(t, "2025-03-03"), nil))
}

func TestIsHolidayClosedDays(t *testing.T) {
	closed := map[string]struct{}{"2025-01-02": {}}
	assert.True(t, IsHoliday(day(t, "2025-01-02"), closed))
	assert.False(t, IsHoliday(day(t, "2025-01-03"), closed))
	// same inputs, same answer
	assert.True(t, IsHoliday(day(t, "2025-01-02"), closed))
}

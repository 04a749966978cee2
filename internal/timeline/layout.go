package timeline

import "time"

// DateToX converts a date into a horizontal pixel offset relative to
// the timeline origin. Dates before the origin clamp to zero.
func DateToX(date, origin time.Time, dayWidth int) int {
	days := DaysBetween(origin, date)
	if days < 0 {
		return 0
	}
	return days * dayWidth
}

// SegmentWidth returns the pixel width of an inclusive day span.
func SegmentWidth(start, end time.Time, dayWidth int) int {
	return (DaysBetween(start, end) + 1) * dayWidth
}

// MonthBand groups consecutive days of one calendar month for header
// rendering.
type MonthBand struct {
	Date       time.Time     `json:"date"`
	Days       []DayMetadata `json:"days"`
	PixelWidth int           `json:"pixelWidth"`
}

// BuildMonthBands partitions an ordered, contiguous day sequence into
// per-month bands. The sequence may start or end mid-month; bands at
// the window edges simply carry fewer days.
func BuildMonthBands(days []DayMetadata, dayWidth int) []MonthBand {
	var bands []MonthBand
	for i := 0; i < len(days); {
		j := i + 1
		for j < len(days) && SameMonth(days[i].Date, days[j].Date) {
			j++
		}
		run := days[i:j]
		bands = append(bands, MonthBand{
			Date:       StartOfMonth(run[0].Date),
			Days:       run,
			PixelWidth: len(run) * dayWidth,
		})
		i = j
	}
	return bands
}

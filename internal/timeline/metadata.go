package timeline

import "time"

// Window is the visible date range of the timeline, inclusive.
type Window struct {
	From time.Time
	To   time.Time
}

// DayMetadata is the per-day render descriptor consumed by the grid.
type DayMetadata struct {
	Date      time.Time `json:"date"`
	ISO       string    `json:"iso"`
	IsWeekend bool      `json:"isWeekend"`
	IsHoliday bool      `json:"isHoliday"`
	IsToday   bool      `json:"isToday"`
	Label     string    `json:"label"`
	DayNum    string    `json:"dayNum"`
	SprintInfo
	MilestoneFlags
}

// Snapshot is one full regeneration of the timeline metadata. It is a
// fresh allocation every time; callers replace their previous snapshot
// wholesale instead of patching it.
type Snapshot struct {
	Days       []DayMetadata `json:"days"`
	Months     []MonthBand   `json:"months"`
	DayWidth   int           `json:"dayWidth"`
	PixelWidth int           `json:"pixelWidth"`
}

// Regenerate computes the render metadata for a window from scratch.
// Pure: sprints, closed days and the reference instant for "today" are
// all inputs, so the host decides its own refresh cadence.
func Regenerate(w Window, sprints []Sprint, closedDays map[string]struct{}, today time.Time, dayWidth int) Snapshot {
	from := Midnight(w.From)
	to := Midnight(w.To)
	todayISO := FormatDay(today)

	var days []DayMetadata
	for day := from; !day.After(to); day = AddDays(day, 1) {
		iso := FormatDay(day)
		days = append(days, DayMetadata{
			Date:           day,
			ISO:            iso,
			IsWeekend:      IsWeekend(day),
			IsHoliday:      IsHoliday(day, closedDays),
			IsToday:        iso == todayISO,
			Label:          DayLabel(day),
			DayNum:         DayNumber(day),
			SprintInfo:     ResolveSprintInfo(iso, sprints, todayISO),
			MilestoneFlags: ResolveMilestones(iso, sprints),
		})
	}

	return Snapshot{
		Days:       days,
		Months:     BuildMonthBands(days, dayWidth),
		DayWidth:   dayWidth,
		PixelWidth: len(days) * dayWidth,
	}
}

package timeline

import "sort"

// Sprint is a read-only milestone definition supplied by the sprint
// service. All date fields are ISO calendar dates; milestone dates may
// be empty.
type Sprint struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	StartDate        string `json:"startDate"`
	EndDate          string `json:"endDate"`
	CodeFreezeDate   string `json:"codeFreezeDate,omitempty"`
	ReleaseDateBack  string `json:"releaseDateBack,omitempty"`
	ReleaseDateFront string `json:"releaseDateFront,omitempty"`
}

// SprintInfo describes which sprint covers a given day. Active is nil
// when no sprint matches; Index is the position in the ascending
// start-date order and drives the alternating header colors.
type SprintInfo struct {
	Active          *Sprint `json:"activeSprint,omitempty"`
	Index           int     `json:"sprintIndex"`
	IsSprintStart   bool    `json:"isSprintStart"`
	IsCurrentSprint bool    `json:"isCurrentSprint"`
}

// MilestoneFlags marks a day carrying sprint milestone dates. Each
// flag is an OR across all sprints, independent of which sprint is
// active on the day.
type MilestoneFlags struct {
	IsCodeFreeze bool `json:"isCodeFreeze"`
	IsMepBack    bool `json:"isMepBack"`
	IsMepFront   bool `json:"isMepFront"`
}

// sortedByStart returns a copy ordered ascending by start date.
// Sorting here keeps first-match resolution deterministic even when
// the caller passes an unsorted list; sprint counts are small enough
// that copying per resolution pass is not a concern.
func sortedByStart(sprints []Sprint) []Sprint {
	out := make([]Sprint, len(sprints))
	copy(out, sprints)
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartDate < out[j].StartDate })
	return out
}

// ResolveSprintInfo finds the first sprint whose inclusive
// [StartDate, EndDate] range contains the day. Overlapping sprints
// surface only the earliest one. ISO string comparison is safe because
// the format sorts chronologically.
func ResolveSprintInfo(dateISO string, sprints []Sprint, todayISO string) SprintInfo {
	ordered := sortedByStart(sprints)
	for i := range ordered {
		s := ordered[i]
		if dateISO < s.StartDate || dateISO > s.EndDate {
			continue
		}
		return SprintInfo{
			Active:          &ordered[i],
			Index:           i,
			IsSprintStart:   s.StartDate == dateISO,
			IsCurrentSprint: todayISO >= s.StartDate && todayISO <= s.EndDate,
		}
	}
	return SprintInfo{Index: -1}
}

// ResolveMilestones collects the milestone markers for a day.
func ResolveMilestones(dateISO string, sprints []Sprint) MilestoneFlags {
	var flags MilestoneFlags
	for _, s := range sprints {
		if s.CodeFreezeDate != "" && s.CodeFreezeDate == dateISO {
			flags.IsCodeFreeze = true
		}
		if s.ReleaseDateBack != "" && s.ReleaseDateBack == dateISO {
			flags.IsMepBack = true
		}
		if s.ReleaseDateFront != "" && s.ReleaseDateFront == dateISO {
			flags.IsMepFront = true
		}
	}
	return flags
}

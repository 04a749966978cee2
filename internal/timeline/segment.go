package timeline

import "time"

// Half describes which part of a boundary day an absence covers.
type Half int

const (
	FullDay Half = iota
	MorningOnly
	AfternoonOnly
)

// Shape tags a segment for rendering: a FULL bar, or a triangular
// AM/PM half-day cell.
type Shape string

const (
	ShapeFull Shape = "FULL"
	ShapeAM   Shape = "AM"
	ShapePM   Shape = "PM"
)

// DateRange is an inclusive day range with optional half-day bounds.
type DateRange struct {
	Start     time.Time
	End       time.Time
	StartHalf Half
	EndHalf   Half
}

// Segment is a contiguous shape-tagged sub-range of an absence, with
// inclusive day bounds. AM and PM segments always cover exactly one
// calendar day.
type Segment struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Shape Shape     `json:"shape"`
}

// ComputeSegments splits a date range into render segments. A PM
// segment is carved off an afternoon-only start, an AM segment off a
// morning-only end, and the remaining days are grouped into maximal
// runs of working days. isNonWorking decides which days a FULL run may
// not span; AM/PM boundary segments are emitted regardless.
//
// Output order is PM segment, FULL runs in date order, then the AM
// segment. Consumers key on Shape, not position.
//
// Invalid ranges (zero dates, start after end) yield nil.
func ComputeSegments(r DateRange, isNonWorking func(time.Time) bool) []Segment {
	if r.Start.IsZero() || r.End.IsZero() {
		return nil
	}
	start := Midnight(r.Start)
	end := Midnight(r.End)
	if start.After(end) {
		return nil
	}

	var segments []Segment
	var trailing []Segment

	effStart := start
	effEnd := end

	if r.StartHalf == AfternoonOnly {
		segments = append(segments, Segment{Start: effStart, End: effStart, Shape: ShapePM})
		effStart = AddDays(effStart, 1)
	}

	// The AM boundary keys on the original end day, so a single-day
	// afternoon-start morning-end row still renders both half cells.
	if r.EndHalf == MorningOnly {
		trailing = append(trailing, Segment{Start: end, End: end, Shape: ShapeAM})
		effEnd = AddDays(end, -1)
	}

	var runStart, runEnd time.Time
	open := false
	for day := effStart; !day.After(effEnd); day = AddDays(day, 1) {
		if isNonWorking != nil && isNonWorking(day) {
			if open {
				segments = append(segments, Segment{Start: runStart, End: runEnd, Shape: ShapeFull})
				open = false
			}
			continue
		}
		if !open {
			runStart = day
			open = true
		}
		runEnd = day
	}
	if open {
		segments = append(segments, Segment{Start: runStart, End: runEnd, Shape: ShapeFull})
	}

	return append(segments, trailing...)
}

package absence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/squadboard/squadboard/internal/shared"
	"github.com/squadboard/squadboard/internal/timeline"
)

// ClosedDaySource supplies the organisation's closed-day set.
type ClosedDaySource interface {
	ClosedSet(ctx context.Context) (map[string]struct{}, error)
}

// Service wraps absence business rules.
type Service struct {
	repo       Repository
	closedDays ClosedDaySource
}

// NewService constructs a new Service.
func NewService(repo Repository, closedDays ClosedDaySource) *Service {
	return &Service{repo: repo, closedDays: closedDays}
}

// WithSegments pairs an absence with its precomputed render segments.
type WithSegments struct {
	Absence
	Segments []timeline.Segment `json:"segments"`
}

// CreateRequest carries user-entered absence fields.
type CreateRequest struct {
	UserID      string `json:"userId" validate:"required"`
	StartDate   string `json:"startDate" validate:"required"`
	EndDate     string `json:"endDate" validate:"required"`
	Type        Type   `json:"type" validate:"required,oneof=ABSENCE FORMATION TELETRAVAIL"`
	StartPeriod Period `json:"startPeriod" validate:"omitempty,oneof=MORNING AFTERNOON"`
	EndPeriod   Period `json:"endPeriod" validate:"omitempty,oneof=MORNING AFTERNOON"`
}

// normalize applies the historical defaults: an absence starts in the
// morning and ends in the afternoon unless stated otherwise.
func (r *CreateRequest) normalize() {
	if r.StartPeriod == "" {
		r.StartPeriod = PeriodMorning
	}
	if r.EndPeriod == "" {
		r.EndPeriod = PeriodAfternoon
	}
}

// validateRange checks date parseability, ordering, and the
// contradictory single-day afternoon-start/morning-end combination,
// which is rejected at entry rather than rendered as overlapping
// half-day shapes.
func validateRange(startDate, endDate string, startPeriod, endPeriod Period) error {
	start, err := timeline.ParseDay(startDate)
	if err != nil {
		return fmt.Errorf("%w: start date %q", shared.ErrInvalidRange, startDate)
	}
	end, err := timeline.ParseDay(endDate)
	if err != nil {
		return fmt.Errorf("%w: end date %q", shared.ErrInvalidRange, endDate)
	}
	if start.After(end) {
		return fmt.Errorf("%w: start after end", shared.ErrInvalidRange)
	}
	if start.Equal(end) && startPeriod == PeriodAfternoon && endPeriod == PeriodMorning {
		return shared.ErrInvalidPeriods
	}
	return nil
}

// Create validates and persists a new absence.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Absence, error) {
	req.normalize()
	if err := validateRange(req.StartDate, req.EndDate, req.StartPeriod, req.EndPeriod); err != nil {
		return nil, err
	}
	a := Absence{
		ID:          uuid.NewString(),
		UserID:      req.UserID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Type:        req.Type,
		StartPeriod: req.StartPeriod,
		EndPeriod:   req.EndPeriod,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create absence: %w", err)
	}
	return &a, nil
}

// Update validates and rewrites an existing absence.
func (s *Service) Update(ctx context.Context, id string, req CreateRequest) (*Absence, error) {
	req.normalize()
	if err := validateRange(req.StartDate, req.EndDate, req.StartPeriod, req.EndPeriod); err != nil {
		return nil, err
	}
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	existing.UserID = req.UserID
	existing.StartDate = req.StartDate
	existing.EndDate = req.EndDate
	existing.Type = req.Type
	existing.StartPeriod = req.StartPeriod
	existing.EndPeriod = req.EndPeriod
	if err := s.repo.Update(ctx, *existing); err != nil {
		return nil, fmt.Errorf("update absence: %w", err)
	}
	return existing, nil
}

// Delete removes an absence.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// ListBetween returns absences overlapping a window together with
// their render segments. Segments come out of the pure computation
// core; legacy rows that predate period validation still render the
// way they always did.
func (s *Service) ListBetween(ctx context.Context, from, to string) ([]WithSegments, error) {
	if _, err := timeline.ParseDay(from); err != nil {
		return nil, fmt.Errorf("%w: from %q", shared.ErrInvalidRange, from)
	}
	if _, err := timeline.ParseDay(to); err != nil {
		return nil, fmt.Errorf("%w: to %q", shared.ErrInvalidRange, to)
	}

	closed, err := s.closedDays.ClosedSet(ctx)
	if err != nil {
		return nil, fmt.Errorf("load closed days: %w", err)
	}
	nonWorking := func(d time.Time) bool {
		return timeline.IsWeekend(d) || timeline.IsHoliday(d, closed)
	}

	absences, err := s.repo.ListBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list absences: %w", err)
	}

	out := make([]WithSegments, 0, len(absences))
	for _, a := range absences {
		out = append(out, WithSegments{Absence: a, Segments: segmentsFor(a, nonWorking)})
	}
	return out, nil
}

// Users returns the roster.
func (s *Service) Users(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

func segmentsFor(a Absence, nonWorking func(time.Time) bool) []timeline.Segment {
	start, err := timeline.ParseDay(a.StartDate)
	if err != nil {
		return nil
	}
	end, err := timeline.ParseDay(a.EndDate)
	if err != nil {
		return nil
	}
	r := timeline.DateRange{Start: start, End: end}
	if a.StartPeriod == PeriodAfternoon {
		r.StartHalf = timeline.AfternoonOnly
	}
	if a.EndPeriod == PeriodMorning {
		r.EndHalf = timeline.MorningOnly
	}
	return timeline.ComputeSegments(r, nonWorking)
}

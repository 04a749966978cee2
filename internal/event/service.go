package event

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/squadboard/squadboard/internal/shared"
	"github.com/squadboard/squadboard/internal/timeline"
)

// Service wraps event business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SaveRequest carries event fields for create and update.
type SaveRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	StartDate   string   `json:"startDate" validate:"required"`
	EndDate     string   `json:"endDate" validate:"required"`
	Category    Category `json:"category" validate:"required,oneof=MEETING WORKSHOP TEAM OTHER"`
}

func (r SaveRequest) validateDates() error {
	start, err := timeline.ParseDay(r.StartDate)
	if err != nil {
		return fmt.Errorf("%w: start date %q", shared.ErrInvalidRange, r.StartDate)
	}
	end, err := timeline.ParseDay(r.EndDate)
	if err != nil {
		return fmt.Errorf("%w: end date %q", shared.ErrInvalidRange, r.EndDate)
	}
	if start.After(end) {
		return fmt.Errorf("%w: start after end", shared.ErrInvalidRange)
	}
	return nil
}

// ListBetween returns events overlapping a window.
func (s *Service) ListBetween(ctx context.Context, from, to string) ([]Event, error) {
	if _, err := timeline.ParseDay(from); err != nil {
		return nil, fmt.Errorf("%w: from %q", shared.ErrInvalidRange, from)
	}
	if _, err := timeline.ParseDay(to); err != nil {
		return nil, fmt.Errorf("%w: to %q", shared.ErrInvalidRange, to)
	}
	return s.repo.ListBetween(ctx, from, to)
}

// Create validates and persists a new event.
func (s *Service) Create(ctx context.Context, req SaveRequest, createdBy string) (*Event, error) {
	if err := req.validateDates(); err != nil {
		return nil, err
	}
	e := Event{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Category:    req.Category,
		CreatedBy:   createdBy,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return &e, nil
}

// Update validates and rewrites an existing event.
func (s *Service) Update(ctx context.Context, id string, req SaveRequest) (*Event, error) {
	if err := req.validateDates(); err != nil {
		return nil, err
	}
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	existing.Title = req.Title
	existing.Description = req.Description
	existing.StartDate = req.StartDate
	existing.EndDate = req.EndDate
	existing.Category = req.Category
	if err := s.repo.Update(ctx, *existing); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return existing, nil
}

// Delete removes an event.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

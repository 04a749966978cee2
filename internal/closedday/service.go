package closedday

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/squadboard/squadboard/internal/shared"
	"github.com/squadboard/squadboard/internal/timeline"
)

// CacheInvalidator bumps the timeline snapshot cache version when the
// closed-day set changes.
type CacheInvalidator interface {
	Bump(ctx context.Context) error
}

// Service wraps closed-day business rules.
type Service struct {
	repo   Repository
	cache  CacheInvalidator
	logger *slog.Logger
}

// NewService constructs a new Service.
func NewService(repo Repository, cache CacheInvalidator, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger}
}

// CreateRequest carries a new closed-day entry.
type CreateRequest struct {
	Date  string `json:"date" validate:"required"`
	Label string `json:"label" validate:"required"`
}

// List returns all closed days.
func (s *Service) List(ctx context.Context) ([]ClosedDay, error) {
	return s.repo.List(ctx)
}

// Create validates and persists a closed day.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*ClosedDay, error) {
	if _, err := timeline.ParseDay(req.Date); err != nil {
		return nil, fmt.Errorf("%w: date %q", shared.ErrInvalidRange, req.Date)
	}
	d := ClosedDay{ID: uuid.NewString(), Date: req.Date, Label: req.Label}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return &d, nil
}

// Delete removes a closed day.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// ClosedSet exposes the ISO date set consumed by the timeline core and
// the absence segment computation.
func (s *Service) ClosedSet(ctx context.Context) (map[string]struct{}, error) {
	days, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(days))
	for _, d := range days {
		set[d.Date] = struct{}{}
	}
	return set, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Bump(ctx); err != nil {
		s.logger.Warn("bump timeline cache", slog.Any("error", err))
	}
}

package sprint

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/squadboard/squadboard/internal/shared"
	"github.com/squadboard/squadboard/internal/timeline"
)

// CacheInvalidator bumps the timeline snapshot cache version when
// sprint data changes.
type CacheInvalidator interface {
	Bump(ctx context.Context) error
}

// Service wraps sprint business rules.
type Service struct {
	repo   Repository
	cache  CacheInvalidator
	logger *slog.Logger
}

// NewService constructs a new Service.
func NewService(repo Repository, cache CacheInvalidator, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger}
}

// SaveRequest carries sprint fields for create and update.
type SaveRequest struct {
	Name             string `json:"name" validate:"required"`
	StartDate        string `json:"startDate" validate:"required"`
	EndDate          string `json:"endDate" validate:"required"`
	CodeFreezeDate   string `json:"codeFreezeDate" validate:"omitempty"`
	ReleaseDateBack  string `json:"releaseDateBack" validate:"omitempty"`
	ReleaseDateFront string `json:"releaseDateFront" validate:"omitempty"`
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
	for field, value := range map[string]string{
		"codeFreezeDate":   r.CodeFreezeDate,
		"releaseDateBack":  r.ReleaseDateBack,
		"releaseDateFront": r.ReleaseDateFront,
	} {
		if value == "" {
			continue
		}
		if _, err := timeline.ParseDay(value); err != nil {
			return fmt.Errorf("%w: %s %q", shared.ErrInvalidRange, field, value)
		}
	}
	return nil
}

// List returns all sprints ascending by start date.
func (s *Service) List(ctx context.Context) ([]Sprint, error) {
	return s.repo.List(ctx)
}

// Create validates and persists a new sprint.
func (s *Service) Create(ctx context.Context, req SaveRequest) (*Sprint, error) {
	if err := req.validateDates(); err != nil {
		return nil, err
	}
	sp := Sprint{
		ID:               uuid.NewString(),
		Name:             req.Name,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		CodeFreezeDate:   req.CodeFreezeDate,
		ReleaseDateBack:  req.ReleaseDateBack,
		ReleaseDateFront: req.ReleaseDateFront,
	}
	if err := s.repo.Create(ctx, sp); err != nil {
		return nil, fmt.Errorf("create sprint: %w", err)
	}
	s.invalidate(ctx)
	return &sp, nil
}

// Update validates and rewrites an existing sprint.
func (s *Service) Update(ctx context.Context, id string, req SaveRequest) (*Sprint, error) {
	if err := req.validateDates(); err != nil {
		return nil, err
	}
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	existing.Name = req.Name
	existing.StartDate = req.StartDate
	existing.EndDate = req.EndDate
	existing.CodeFreezeDate = req.CodeFreezeDate
	existing.ReleaseDateBack = req.ReleaseDateBack
	existing.ReleaseDateFront = req.ReleaseDateFront
	if err := s.repo.Update(ctx, *existing); err != nil {
		return nil, fmt.Errorf("update sprint: %w", err)
	}
	s.invalidate(ctx)
	return existing, nil
}

// Delete removes a sprint.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Overlay converts stored sprints into the timeline's value type.
func (s *Service) Overlay(ctx context.Context) ([]timeline.Sprint, error) {
	sprints, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]timeline.Sprint, 0, len(sprints))
	for _, sp := range sprints {
		out = append(out, timeline.Sprint{
			ID:               sp.ID,
			Name:             sp.Name,
			StartDate:        sp.StartDate,
			EndDate:          sp.EndDate,
			CodeFreezeDate:   sp.CodeFreezeDate,
			ReleaseDateBack:  sp.ReleaseDateBack,
			ReleaseDateFront: sp.ReleaseDateFront,
		})
	}
	return out, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Bump(ctx); err != nil {
		s.logger.Warn("bump timeline cache", slog.Any("error", err))
	}
}

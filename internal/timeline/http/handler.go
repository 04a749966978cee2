package timelinehttp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/squadboard/squadboard/internal/shared"
	"github.com/squadboard/squadboard/internal/timeline"
)

// SprintSource supplies the sprint overlay definitions.
type SprintSource interface {
	Overlay(ctx context.Context) ([]timeline.Sprint, error)
}

// ClosedDaySource supplies the organisation's closed-day set.
type ClosedDaySource interface {
	ClosedSet(ctx context.Context) (map[string]struct{}, error)
}

// MetricsRecorder observes snapshot cache outcomes and build times.
type MetricsRecorder interface {
	SnapshotCacheHit()
	SnapshotCacheMiss()
	ObserveSnapshotBuild(d time.Duration)
}

// Handler serves the per-day render metadata for the timeline grid.
type Handler struct {
	logger     *slog.Logger
	sprints    SprintSource
	closedDays ClosedDaySource
	cache      *Cache
	dayWidth   int
	metrics    MetricsRecorder
	now        func() time.Time
}

// NewHandler constructs a Handler instance. A nil cache disables
// snapshot caching.
func NewHandler(logger *slog.Logger, sprints SprintSource, closedDays ClosedDaySource, cache *Cache, dayWidth int) *Handler {
	return &Handler{
		logger:     logger,
		sprints:    sprints,
		closedDays: closedDays,
		cache:      cache,
		dayWidth:   dayWidth,
		now:        time.Now,
	}
}

// WithMetrics attaches a metrics recorder and returns the handler.
func (h *Handler) WithMetrics(m MetricsRecorder) *Handler {
	h.metrics = m
	return h
}

// MountRoutes registers timeline routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/timeline", h.snapshot)
}

func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	window, err := parseWindow(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	fromISO := timeline.FormatDay(window.From)
	toISO := timeline.FormatDay(window.To)

	if cached, err := h.cache.Get(ctx, fromISO, toISO); err != nil {
		h.logger.Warn("timeline cache read", slog.Any("error", err))
	} else if cached != nil {
		if h.metrics != nil {
			h.metrics.SnapshotCacheHit()
		}
		shared.WriteJSON(w, http.StatusOK, cached)
		return
	}
	if h.metrics != nil {
		h.metrics.SnapshotCacheMiss()
	}

	snap, err := h.Build(ctx, window)
	if err != nil {
		h.logger.Error("build timeline snapshot", slog.Any("error", err))
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, snap)
}

// Build assembles a snapshot for a window and stores it in the cache.
// Sprint and closed-day inputs load in parallel; the regeneration
// itself is a pure pass over the assembled inputs.
func (h *Handler) Build(ctx context.Context, window timeline.Window) (timeline.Snapshot, error) {
	var (
		sprints []timeline.Sprint
		closed  map[string]struct{}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sprints, err = h.sprints.Overlay(gctx)
		if err != nil {
			return fmt.Errorf("load sprints: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		closed, err = h.closedDays.ClosedSet(gctx)
		if err != nil {
			return fmt.Errorf("load closed days: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return timeline.Snapshot{}, err
	}

	start := time.Now()
	snap := timeline.Regenerate(window, sprints, closed, h.now(), h.dayWidth)
	if h.metrics != nil {
		h.metrics.ObserveSnapshotBuild(time.Since(start))
	}

	fromISO := timeline.FormatDay(window.From)
	toISO := timeline.FormatDay(window.To)
	if err := h.cache.Put(ctx, fromISO, toISO, snap); err != nil {
		h.logger.Warn("timeline cache write", slog.Any("error", err))
	}
	return snap, nil
}

func parseWindow(fromISO, toISO string) (timeline.Window, error) {
	from, err := timeline.ParseDay(fromISO)
	if err != nil {
		return timeline.Window{}, fmt.Errorf("%w: from %q", shared.ErrInvalidRange, fromISO)
	}
	to, err := timeline.ParseDay(toISO)
	if err != nil {
		return timeline.Window{}, fmt.Errorf("%w: to %q", shared.ErrInvalidRange, toISO)
	}
	if from.After(to) {
		return timeline.Window{}, fmt.Errorf("%w: from after to", shared.ErrInvalidRange)
	}
	return timeline.Window{From: from, To: to}, nil
}

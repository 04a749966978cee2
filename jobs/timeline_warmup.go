package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/squadboard/squadboard/internal/jobs"
	"github.com/squadboard/squadboard/internal/timeline"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// SnapshotBuilder regenerates a timeline snapshot for a window,
// populating the Redis cache as a side effect.
type SnapshotBuilder interface {
	Build(ctx context.Context, window timeline.Window) (timeline.Snapshot, error)
}

// TimelineWarmupJob pre-builds the default timeline window so the first
// morning request is served from cache.
type TimelineWarmupJob struct {
	Builder SnapshotBuilder
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewTimelineWarmupJob wires dependencies for the warmup handler.
func NewTimelineWarmupJob(builder SnapshotBuilder, logger *slog.Logger, metrics *jobmetrics.Metrics) *TimelineWarmupJob {
	return &TimelineWarmupJob{
		Builder: builder,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes timeline warmup tasks.
func (j *TimelineWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Builder == nil {
		return errors.New("timeline warmup: handler not configured")
	}
	var payload TimelineWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.PastDays <= 0 {
		payload.PastDays = 30
	}
	if payload.FutureDays <= 0 {
		payload.FutureDays = 90
	}

	tracker := j.metrics().Track(TaskTimelineWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	today := timeline.Midnight(j.now())
	window := timeline.Window{
		From: timeline.AddDays(today, -payload.PastDays),
		To:   timeline.AddDays(today, payload.FutureDays),
	}

	logger := j.logger().With(
		slog.String("from", timeline.FormatDay(window.From)),
		slog.String("to", timeline.FormatDay(window.To)),
	)
	logger.Info("starting timeline warmup")

	snap, err := j.Builder.Build(ctx, window)
	if err != nil {
		resultErr = err
		logger.Error("build snapshot", slog.Any("error", err))
		return resultErr
	}

	logger.Info("timeline warmup complete", slog.Int("days", len(snap.Days)))
	return resultErr
}

func (j *TimelineWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *TimelineWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}

func (j *TimelineWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}

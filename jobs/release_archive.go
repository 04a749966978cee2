package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	jobmetrics "github.com/squadboard/squadboard/internal/jobs"
)

// ReleaseArchiveJob marks in-progress releases as completed once their
// release date has passed, so the board stops showing them as pending.
type ReleaseArchiveJob struct {
	Pool    *pgxpool.Pool
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewReleaseArchiveJob wires dependencies for the archive handler.
func NewReleaseArchiveJob(pool *pgxpool.Pool, logger *slog.Logger, metrics *jobmetrics.Metrics) *ReleaseArchiveJob {
	return &ReleaseArchiveJob{
		Pool:    pool,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes release archive tasks.
func (j *ReleaseArchiveJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Pool == nil {
		return errors.New("release archive: handler not configured")
	}
	var payload ReleaseArchivePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	tracker := j.metrics().Track(TaskReleaseArchive)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	today := j.now().Format("2006-01-02")
	query := `UPDATE releases SET status = 'completed', updated_at = $2
		WHERE status = 'in_progress' AND release_date < $1
		RETURNING id, name`
	rows, err := j.Pool.Query(ctx, query, today, j.now())
	if err != nil {
		resultErr = err
		j.logger().Error("archive releases", slog.Any("error", err))
		return resultErr
	}
	type archived struct{ id, name string }
	var done []archived
	for rows.Next() {
		var a archived
		if err := rows.Scan(&a.id, &a.name); err != nil {
			rows.Close()
			resultErr = err
			return resultErr
		}
		done = append(done, a)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		resultErr = err
		return resultErr
	}

	historyQuery := `INSERT INTO release_history (id, release_id, action, actor, detail, created_at)
		VALUES ($1, $2, 'updated', 'scheduler', $3, $4)`
	for _, a := range done {
		if _, err := j.Pool.Exec(ctx, historyQuery, uuid.NewString(), a.id, a.name+" marked completed", j.now()); err != nil {
			j.logger().Warn("record archive history", slog.String("release", a.id), slog.Any("error", err))
		}
	}

	if len(done) > 0 {
		j.logger().Info("archived past releases", slog.Int("count", len(done)))
	}
	return resultErr
}

func (j *ReleaseArchiveJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *ReleaseArchiveJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}

func (j *ReleaseArchiveJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/squadboard/squadboard/internal/app"
	"github.com/squadboard/squadboard/internal/closedday"
	"github.com/squadboard/squadboard/internal/platform/cache"
	"github.com/squadboard/squadboard/internal/platform/db"
	"github.com/squadboard/squadboard/internal/sprint"
	timelinehttp "github.com/squadboard/squadboard/internal/timeline/http"
	"github.com/squadboard/squadboard/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	snapshotCache := timelinehttp.NewCache(redisClient, cfg.TimelineCacheTTL)
	closedDayService := closedday.NewService(closedday.NewRepository(pool), snapshotCache, logger)
	sprintService := sprint.NewService(sprint.NewRepository(pool), snapshotCache, logger)
	builder := timelinehttp.NewHandler(logger, sprintService, closedDayService, snapshotCache, cfg.TimelineDayWidth)

	warmupJob := jobs.NewTimelineWarmupJob(builder, logger, nil)
	archiveJob := jobs.NewReleaseArchiveJob(pool, logger, nil)

	warmupTask, err := jobs.NewTimelineWarmupTask(cfg.TimelinePastDays, cfg.TimelineFutureDays)
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}
	archiveTask, err := jobs.NewReleaseArchiveTask()
	if err != nil {
		logger.Error("build archive task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTimelineWarmup, Handler: warmupJob.Handle},
			{Type: jobs.TaskReleaseArchive, Handler: archiveJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "15 5 * * *", Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "0 6 * * *", Task: archiveTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/squadboard/squadboard/internal/absence"
	"github.com/squadboard/squadboard/internal/app"
	"github.com/squadboard/squadboard/internal/auth"
	"github.com/squadboard/squadboard/internal/closedday"
	"github.com/squadboard/squadboard/internal/event"
	"github.com/squadboard/squadboard/internal/observability"
	"github.com/squadboard/squadboard/internal/platform/cache"
	"github.com/squadboard/squadboard/internal/platform/db"
	"github.com/squadboard/squadboard/internal/release"
	"github.com/squadboard/squadboard/internal/shared"
	"github.com/squadboard/squadboard/internal/sprint"
	timelinehttp "github.com/squadboard/squadboard/internal/timeline/http"
	"github.com/squadboard/squadboard/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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
		logger.Error("connect postgres", slog.Any("error", err))
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

	sessionManager := shared.NewSessionManager(redisClient, "squadboard_session", cfg.SessionTTL, cfg.IsProduction())
	metrics := observability.NewMetrics()

	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager)

	snapshotCache := timelinehttp.NewCache(redisClient, cfg.TimelineCacheTTL)

	closedDayRepo := closedday.NewRepository(pool)
	closedDayService := closedday.NewService(closedDayRepo, snapshotCache, logger)
	closedDayHandler := closedday.NewHandler(logger, closedDayService)

	sprintRepo := sprint.NewRepository(pool)
	sprintService := sprint.NewService(sprintRepo, snapshotCache, logger)
	sprintHandler := sprint.NewHandler(logger, sprintService)

	absenceRepo := absence.NewRepository(pool)
	absenceService := absence.NewService(absenceRepo, closedDayService)
	absenceHandler := absence.NewHandler(logger, absenceService)

	eventRepo := event.NewRepository(pool)
	eventService := event.NewService(eventRepo)
	eventHandler := event.NewHandler(logger, eventService)

	releaseRepo := release.NewRepository(pool)
	releaseService := release.NewService(releaseRepo)
	releaseHandler := release.NewHandler(logger, releaseService)

	timelineHandler := timelinehttp.NewHandler(logger, sprintService, closedDayService, snapshotCache, cfg.TimelineDayWidth).WithMetrics(metrics)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		SessionManager:   sessionManager,
		AuthHandler:      authHandler,
		TimelineHandler:  timelineHandler,
		AbsenceHandler:   absenceHandler,
		SprintHandler:    sprintHandler,
		ClosedDayHandler: closedDayHandler,
		EventHandler:     eventHandler,
		ReleaseHandler:   releaseHandler,
		JobHandler:       jobHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

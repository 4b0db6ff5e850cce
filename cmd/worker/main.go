package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/crewdesk/crewdesk/internal/app"
	"github.com/crewdesk/crewdesk/internal/directory"
	"github.com/crewdesk/crewdesk/internal/platform/cache"
	"github.com/crewdesk/crewdesk/internal/platform/db"
	"github.com/crewdesk/crewdesk/internal/scoring"
	"github.com/crewdesk/crewdesk/jobs"
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

	directoryRepo := directory.NewRepository(pool)
	scoringCache := scoring.NewCache(redisClient, cfg.LeaderboardCacheTTL)
	scoringRepo := scoring.NewRepository(pool)
	scoringService := scoring.NewService(scoringRepo, directoryRepo, scoringCache, logger)

	warmupJob := jobs.NewLeaderboardWarmupJob(scoringService, logger, nil)

	warmupTask, err := jobs.NewLeaderboardWarmupTask(jobs.LeaderboardWarmupPayload{Periods: cfg.WarmupPeriods})
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskLeaderboardWarmup, Handler: warmupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "*/10 * * * *", Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
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

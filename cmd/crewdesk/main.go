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

	"github.com/crewdesk/crewdesk/internal/app"
	"github.com/crewdesk/crewdesk/internal/auth"
	"github.com/crewdesk/crewdesk/internal/capability"
	"github.com/crewdesk/crewdesk/internal/checklist"
	"github.com/crewdesk/crewdesk/internal/directory"
	"github.com/crewdesk/crewdesk/internal/observability"
	"github.com/crewdesk/crewdesk/internal/platform/cache"
	"github.com/crewdesk/crewdesk/internal/platform/db"
	"github.com/crewdesk/crewdesk/internal/scoring"
	"github.com/crewdesk/crewdesk/internal/shared"
	"github.com/crewdesk/crewdesk/internal/submissions"
	"github.com/crewdesk/crewdesk/jobs"
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

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

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

	sessionManager := shared.NewSessionManager(redisClient, "crewdesk_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	metrics := observability.NewMetrics()

	directoryRepo := directory.NewRepository(dbpool)

	capabilityRepo := capability.NewRepository(dbpool)
	capabilityMetrics := capability.NewMetrics(metrics.Registerer())
	capabilityService := capability.NewService(capabilityRepo, logger, capabilityMetrics)
	capabilityMW := capability.Middleware{Service: capabilityService, Subjects: directoryRepo, Logger: logger}
	permissionsHandler := capability.NewHandler(logger, capabilityService, capabilityMW)

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, capabilityService, sessionManager, csrfManager)

	checklistRepo := checklist.NewRepository(dbpool, logger)
	checklistService := checklist.NewService(checklistRepo, logger)
	checklistHandler := checklist.NewHandler(logger, checklistService, directoryRepo, capabilityMW)

	scoringCache := scoring.NewCache(redisClient, cfg.LeaderboardCacheTTL)
	scoringRepo := scoring.NewRepository(dbpool)
	scoringService := scoring.NewService(scoringRepo, directoryRepo, scoringCache, logger)
	leaderboardHandler := scoring.NewHandler(logger, scoringService, capabilityMW)

	submissionsRepo := submissions.NewRepository(dbpool)
	submissionsService := submissions.NewService(submissionsRepo, scoringService, logger)
	submissionsHandler := submissions.NewHandler(logger, submissionsService, capabilityMW)

	directoryHandler := directory.NewHandler(logger, directoryRepo, capabilityMW)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		SessionManager:     sessionManager,
		CSRFManager:        csrfManager,
		AuthHandler:        authHandler,
		PermissionsHandler: permissionsHandler,
		ChecklistHandler:   checklistHandler,
		SubmissionsHandler: submissionsHandler,
		LeaderboardHandler: leaderboardHandler,
		DirectoryHandler:   directoryHandler,
		JobHandler:         jobHandler,
		Metrics:            metrics,
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

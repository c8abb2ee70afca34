package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/robfig/cron/v3"

	"github.com/masx-ai/flashpoint-pipeline/internal/app"
	workerPkg "github.com/masx-ai/flashpoint-pipeline/internal/infra/worker"
	"github.com/masx-ai/flashpoint-pipeline/internal/pkg/config"
	"github.com/masx-ai/flashpoint-pipeline/internal/pkg/dateutil"
)

// main wires the daily batch process: a cron-scheduled run of the Feed
// Processor over the configured date (defaulting to today), alongside a
// health-check server and Prometheus metrics for the scheduler itself.
func main() {
	logger := initLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	workerMetrics := workerPkg.NewWorkerMetrics()
	workerMetrics.MustRegister()
	workerConfig, err := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	if err != nil {
		logger.Error("failed to load worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Int("max_workers", workerConfig.MaxWorkers),
		slog.Duration("process_timeout", workerConfig.ProcessTimeout),
		slog.Int("health_port", workerConfig.HealthPort))

	appCfg := config.LoadAppConfigFromEnv(logger, config.NewConfigMetrics("worker_app"))
	appCfg.MaxWorkers = workerConfig.MaxWorkers

	application, err := app.New(ctx, appCfg, logger)
	if err != nil {
		logger.Error("failed to build application", slog.Any("error", err))
		os.Exit(1)
	}
	if err := application.Start(ctx); err != nil {
		logger.Error("failed to start application", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := application.Stop(context.Background()); err != nil {
			logger.Error("failed to stop application", slog.Any("error", err))
		}
	}()

	startMetricsServer(ctx, logger)

	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()
	logger.Info("health check server started", slog.String("addr", healthAddr))

	startCronWorker(ctx, logger, application, workerConfig, workerMetrics, healthServer)
}

// initLogger initializes and returns a structured logger based on environment configuration.
func initLogger() *slog.Logger {
	logLevel := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// startCronWorker starts the cron scheduler and runs the daily feed job on
// the configured schedule.
func startCronWorker(ctx context.Context, logger *slog.Logger, application *app.Application, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics, healthServer *workerPkg.HealthServer) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC", slog.String("timezone", cfg.Timezone), slog.Any("error", err))
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))

	_, err = c.AddFunc(cfg.CronSchedule, func() {
		runFeedJob(ctx, logger, application, cfg, metrics)
	})
	if err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()
	defer c.Stop()

	healthServer.SetReady(true)
	logger.Info("worker marked as ready")
	logger.Info("worker started", slog.String("schedule", cfg.CronSchedule), slog.String("timezone", cfg.Timezone))

	<-ctx.Done()
	logger.Info("worker shutting down")
}

// runFeedJob runs a single daily batch over today's date, in batch mode
// (every flashpoint's articles processed together), bounded by
// ProcessTimeout.
func runFeedJob(ctx context.Context, logger *slog.Logger, application *app.Application, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics) {
	start := time.Now()
	metrics.RecordJobRun("started")

	date := dateutil.Today()
	logger.Info("feed run started", slog.String("date", date))

	jobCtx, cancel := context.WithTimeout(ctx, cfg.ProcessTimeout)
	defer cancel()

	result, err := application.Feed.ProcessAll(jobCtx, date, true)
	if err != nil {
		logger.Error("feed run failed", slog.String("date", date), slog.Any("error", err))
		metrics.RecordJobRun("failure")
		metrics.RecordJobDuration(time.Since(start).Seconds())
		return
	}

	metrics.RecordJobRun("success")
	metrics.RecordJobDuration(time.Since(start).Seconds())
	metrics.RecordFeedsProcessed(result.Successful)
	metrics.RecordLastSuccess()

	logger.Info("feed run completed",
		slog.String("date", date),
		slog.Int("total_articles", result.TotalArticles),
		slog.Int("processed", result.Processed),
		slog.Int("successful", result.Successful),
		slog.Int("failed", result.Failed),
		slog.Float64("processing_time_sec", result.ProcessingTimeSec))
}

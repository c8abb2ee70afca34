package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/masx-ai/flashpoint-pipeline/internal/app"
	hhttp "github.com/masx-ai/flashpoint-pipeline/internal/handler/http"
	hauth "github.com/masx-ai/flashpoint-pipeline/internal/handler/http/auth"
	"github.com/masx-ai/flashpoint-pipeline/internal/handler/http/requestid"
	"github.com/masx-ai/flashpoint-pipeline/internal/pkg/config"
)

func main() {
	logger := initLogger()

	cfg := config.LoadAppConfigFromEnv(logger, config.NewConfigMetrics("api"))
	if cfg.RequireAPIKey && cfg.APIKey == "" {
		logger.Error("API_KEY must be set when REQUIRE_API_KEY is true")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build application", slog.Any("error", err))
		os.Exit(1)
	}
	if err := application.Start(ctx); err != nil {
		logger.Error("failed to start application", slog.Any("error", err))
		os.Exit(1)
	}

	handler := setupServer(application, logger)
	runServer(ctx, cancel, application, handler, logger)
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

// getVersion returns the application version from environment or default.
func getVersion() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "1.0.0"
	}
	return version
}

// setupServer registers every §6 route and wraps it in the shared-key
// auth check and the ambient middleware chain.
func setupServer(application *app.Application, logger *slog.Logger) http.Handler {
	cfg := application.Config
	version := getVersion()

	feedHandler := hhttp.NewFeedHandler(application.Feed, logger)

	mux := http.NewServeMux()
	mux.Handle("/", &hhttp.RootHandler{Version: version})
	mux.Handle("/health", &hhttp.HealthHandler{
		DB:                 application.DB,
		Version:            version,
		ScraperEnabled:     true,
		CleanTextEnabled:   cfg.EnableCleanText,
		GeotaggingEnabled:  cfg.EnableGeotagging,
		ImageSearchEnabled: cfg.EnableImageSearch,
	})
	mux.Handle("/ready", &hhttp.ReadyHandler{})
	mux.Handle("/live", &hhttp.LiveHandler{})
	mux.Handle("/metrics", hhttp.MetricsHandler())
	mux.Handle("/stats", &hhttp.StatsHandler{
		Feed:       application.Feed,
		DB:         application.DB,
		MaxWorkers: cfg.MaxWorkers,
		StartedAt:  time.Now(),
	})

	mux.HandleFunc("/feed/warmup", feedHandler.Warmup)
	mux.HandleFunc("/feed/process", feedHandler.ProcessAll)
	mux.HandleFunc("/feed/process/flashpoint", feedHandler.ProcessFlashpoint)
	mux.HandleFunc("/feed/process/article", feedHandler.ProcessArticle)
	mux.HandleFunc("/feed/process/batch_articles", feedHandler.ProcessBatchArticles)
	mux.HandleFunc("/feed/entries/", feedHandler.Entries)
	mux.HandleFunc("/feed/stats", feedHandler.Stats)
	mux.HandleFunc("/feed/clear", feedHandler.Clear)
	mux.HandleFunc("/feed/clear/", feedHandler.Clear)

	return applyMiddleware(logger, cfg, mux)
}

// applyMiddleware wraps the handler with the ambient middleware chain.
// Order, outermost to innermost: request ID, access log, panic recovery,
// body size limit, per-IP rate limit, request timeout, API key check,
// Prometheus metrics.
func applyMiddleware(logger *slog.Logger, cfg *config.AppConfig, handler http.Handler) http.Handler {
	rateLimiter := hhttp.NewRateLimiter(600, time.Minute)

	chain := hhttp.MetricsMiddleware(handler)
	chain = hauth.Middleware(hauth.Config{Key: cfg.APIKey, Required: cfg.RequireAPIKey})(chain)
	chain = hhttp.Timeout(cfg.RequestTimeout)(chain)
	chain = rateLimiter.Limit(chain)
	chain = hhttp.LimitRequestBody(1 << 20)(chain) // 1MB limit
	chain = hhttp.Recover(logger)(chain)
	chain = hhttp.Logging(logger)(chain)
	chain = requestid.Middleware(chain)

	return chain
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(ctx context.Context, cancel context.CancelFunc, application *app.Application, handler http.Handler, logger *slog.Logger) {
	cfg := application.Config
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting", slog.String("addr", addr), slog.String("version", getVersion()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	if err := application.Stop(shutdownCtx); err != nil {
		logger.Error("application shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}

// Package app wires the process-lifetime singletons both cmd/api and
// cmd/worker share -- Proxy Service, Translation Service, Content
// Extractor, Image Finder/Downloader, the Per-Article Pipeline, the Feed
// Processor and its Store Adapter -- behind one explicit start/stop
// lifecycle (§9).
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/masx-ai/flashpoint-pipeline/internal/feed"
	"github.com/masx-ai/flashpoint-pipeline/internal/infra/db"
	"github.com/masx-ai/flashpoint-pipeline/internal/infra/images"
	"github.com/masx-ai/flashpoint-pipeline/internal/infra/proxy"
	"github.com/masx-ai/flashpoint-pipeline/internal/infra/scraper"
	"github.com/masx-ai/flashpoint-pipeline/internal/infra/store"
	"github.com/masx-ai/flashpoint-pipeline/internal/infra/translate"
	"github.com/masx-ai/flashpoint-pipeline/internal/pipeline"
	"github.com/masx-ai/flashpoint-pipeline/internal/pkg/config"
)

// Application holds every process-lifetime singleton, constructed once at
// startup and torn down once on shutdown.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger

	DB    *sql.DB
	Store *store.Adapter

	Proxy      *proxy.Service
	Translator *translate.Service
	Extractor  *scraper.Extractor
	Finder     *images.Finder
	Downloader *images.Downloader

	Pipeline *pipeline.Pipeline
	Feed     *feed.Processor

	startedAt time.Time
}

// New constructs every singleton per cfg's feature toggles, but does not
// yet start any background goroutine -- call Start for that.
func New(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = slog.Default()
	}

	sqlDB := db.Open()
	storeAdapter := store.New(sqlDB)

	proxySvc := proxy.New(proxyConfig(cfg))

	var translator *translate.Service
	translator = translate.New(proxySvc)

	extractor := scraper.New(scraper.DefaultConfig(), proxySvc)

	var finder *images.Finder
	if cfg.EnableImageSearch {
		finder = images.New(images.NewDuckDuckGoBackend(), proxySvc, logger)
	}

	var downloader *images.Downloader
	if cfg.EnableImageDownload {
		objectStore, err := newObjectStore(ctx, cfg)
		if err != nil {
			logger.Warn("image download disabled: object store unavailable", slog.Any("error", err))
		} else {
			downloader = images.NewDownloader(objectStore, logger)
		}
	}

	var pipelineFinder pipeline.ImageFinder
	if finder != nil {
		pipelineFinder = finder
	}
	var pipelineDownloader pipeline.ImageDownloader
	if downloader != nil {
		pipelineDownloader = downloader
	}
	pl := pipeline.New(extractor, translator, pipelineFinder, pipelineDownloader)

	feedProcessor := feed.New(storeAdapter, pl, proxySvc, cfg.MaxWorkers, logger)

	return &Application{
		Config:     cfg,
		Logger:     logger,
		DB:         sqlDB,
		Store:      storeAdapter,
		Proxy:      proxySvc,
		Translator: translator,
		Extractor:  extractor,
		Finder:     finder,
		Downloader: downloader,
		Pipeline:   pl,
		Feed:       feedProcessor,
	}, nil
}

// proxyConfig maps the ambient PROXY_* settings onto proxy.Config, layered
// over proxy.DefaultConfig's timeouts and refresh cadence.
func proxyConfig(cfg *config.AppConfig) proxy.Config {
	pc := proxy.DefaultConfig()
	pc.BaseURL = cfg.ProxyBase
	pc.APIKey = cfg.ProxyAPIKey
	pc.PostStartPath = cfg.ProxyPostStartPath
	pc.GetProxiesPath = cfg.ProxyGetProxiesPath
	return pc
}

// newObjectStore builds an S3Store against Supabase Storage's
// S3-compatible endpoint (storage/v1/s3), the same protocol every other
// S3-compatible provider speaks.
func newObjectStore(ctx context.Context, cfg *config.AppConfig) (images.ObjectStore, error) {
	if cfg.ImageBucket == "" || cfg.SupabaseURL == "" {
		return nil, fmt.Errorf("IMAGE_BUCKET and SUPABASE_URL must both be set")
	}
	return images.NewS3Store(ctx, images.S3Config{
		Bucket:          cfg.ImageBucket,
		Region:          "auto",
		Endpoint:        cfg.SupabaseURL + "/storage/v1/s3",
		AccessKeyID:     cfg.SupabaseKey,
		SecretAccessKey: cfg.SupabaseServiceKey,
		PublicBaseURL:   cfg.SupabaseURL + "/storage/v1/object/public/" + cfg.ImageBucket,
	})
}

// Start brings up every background goroutine (proxy pool priming, its
// refresh loop) and records the process start time for uptime reporting.
// It never fails the whole process on a proxy-priming error -- the Proxy
// Service degrades to direct connections per §4.1.
func (a *Application) Start(ctx context.Context) error {
	a.startedAt = time.Now()
	if _, err := a.Proxy.Get(ctx, true); err != nil {
		a.Logger.Warn("initial proxy pool fetch failed, continuing with direct connections", slog.Any("error", err))
	}
	a.Proxy.StartBackgroundRefresh(ctx)
	return nil
}

// Stop tears every singleton down in reverse dependency order: stop the
// proxy refresher, then close the database pool. Object-store sessions
// are plain HTTP clients with no handles to close.
func (a *Application) Stop(ctx context.Context) error {
	a.Proxy.StopBackgroundRefresh()
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			return fmt.Errorf("close database pool: %w", err)
		}
	}
	return nil
}

// Uptime returns the duration since Start was called.
func (a *Application) Uptime() time.Duration {
	if a.startedAt.IsZero() {
		return 0
	}
	return time.Since(a.startedAt)
}

// Package metrics provides centralized Prometheus metrics for the
// pipeline's domain signals. HTTP-transport metrics live in
// internal/handler/http to avoid a duplicate-name registration panic
// against the shared default registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Batch executor metrics (§4.10).
var (
	// BatchArticlesTotal counts articles processed by a batch run, by
	// outcome.
	BatchArticlesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "batch_articles_total",
			Help: "Total number of articles processed by the batch executor",
		},
		[]string{"outcome"}, // successful, failed
	)

	// BatchSubBatchDuration measures one sub-batch's wall-clock time.
	BatchSubBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "batch_sub_batch_duration_seconds",
			Help:    "Time taken to process one sub-batch of articles",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
	)

	// BatchThroughput measures articles processed per batch run.
	BatchThroughput = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "batch_processing_time_seconds",
			Help:    "Total wall-clock time for one process_all/process_by_flashpoint run",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
		},
	)
)

// Per-article pipeline stage metrics (§4.8).
var (
	// StageLatency measures how long each pipeline stage takes.
	StageLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_stage_duration_seconds",
			Help:    "Per-article pipeline stage duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
		[]string{"stage"},
	)

	// ArticlesProcessedTotal counts terminal pipeline outcomes.
	ArticlesProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "articles_processed_total",
			Help: "Total number of articles the per-article pipeline has completed or failed",
		},
		[]string{"status"}, // completed, failed
	)
)

// Proxy Service metrics (§4.1).
var (
	// ProxyPoolSize tracks the current validated proxy cache size.
	ProxyPoolSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "proxy_pool_size",
			Help: "Current number of validated proxies in the cache",
		},
	)

	// ProxyRefreshTotal counts background refresh attempts by outcome.
	ProxyRefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "proxy_refresh_total",
			Help: "Total number of proxy cache refresh attempts",
		},
		[]string{"outcome"}, // success, failure
	)
)

// Translation Service metrics (§4.2).
var (
	// TranslationCacheHitsTotal counts LRU cache hits/misses.
	TranslationCacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "translation_cache_requests_total",
			Help: "Total number of translation cache lookups",
		},
		[]string{"result"}, // hit, miss
	)

	// TranslationProviderDuration measures provider call latency.
	TranslationProviderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "translation_provider_duration_seconds",
			Help:    "Translation provider call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	// TranslationCircuitState tracks per-provider circuit breaker state
	// (0=closed, 1=half-open, 2=open).
	TranslationCircuitState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "translation_circuit_state",
			Help: "Current circuit breaker state per translation provider",
		},
		[]string{"provider"},
	)
)

// Content Extractor metrics (§4.3).
var (
	// ContentFetchAttemptsTotal counts content fetch attempts by result.
	ContentFetchAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_fetch_attempts_total",
			Help: "Total number of content fetch attempts",
		},
		[]string{"result"}, // success, failure, headless_fallback
	)

	// ContentFetchDuration measures time to fetch article content.
	ContentFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "content_fetch_duration_seconds",
			Help:    "Time taken to fetch article content",
			Buckets: []float64{0.1, 0.2, 0.4, 0.8, 1.6, 3.2, 6.4, 12.8, 30, 60, 100},
		},
	)
)

// Image Finder / Downloader metrics (§4.6, §4.7).
var (
	// ImageSearchResultsTotal counts candidate URLs returned per search.
	ImageSearchResultsTotal = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "image_search_results_count",
			Help:    "Number of candidate image URLs a search produced",
			Buckets: []float64{0, 1, 2, 3, 4, 5},
		},
	)

	// ImageDownloadTotal counts image downloads by outcome.
	ImageDownloadTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_download_total",
			Help: "Total number of image download attempts",
		},
		[]string{"outcome"}, // success, rejected, failed
	)
)

// Store Adapter metrics.
var (
	// DBQueryDuration measures database query duration.
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"operation"},
	)

	// DBConnectionsActive tracks active database connections.
	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		},
	)

	// DBConnectionsIdle tracks idle database connections.
	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)
)

package config

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"
)

// AppConfig holds every environment-sourced tunable for the control plane
// process (cmd/api) and the daily batch process (cmd/worker): storage
// credentials, the HTTP listen address, feature toggles for the optional
// pipeline stages, the Image Downloader's byte/concurrency ceilings, the
// Proxy Service's upstream location, and the shared HTTP client's
// timeout/retry policy.
//
// Every field has a fail-open default: a missing or invalid environment
// value never aborts startup, it logs a warning, increments a metric, and
// falls back (see LoadAppConfigFromEnv).
type AppConfig struct {
	// Storage credentials and connection string.
	SupabaseURL        string
	SupabaseKey        string
	SupabaseServiceKey string
	ImageBucket        string
	DBURL              string

	// Control-plane auth.
	APIKey        string
	RequireAPIKey bool

	// HTTP listen address.
	Host string
	Port int

	// MaxWorkers is the Batch Executor's concurrency ceiling.
	MaxWorkers int

	// DBBatchSize bounds how many rows a single Store Adapter round trip
	// touches.
	DBBatchSize int

	// Optional pipeline stage toggles.
	EnableImageSearch   bool
	EnableGeotagging    bool
	EnableCleanText     bool
	EnableImageDownload bool

	// Image Downloader limits.
	ImageDownloadMaxBytes       int64
	ImageDownloadMaxConcurrency int

	// Proxy Service upstream.
	ProxyBase           string
	ProxyAPIKey         string
	ProxyPostStartPath  string
	ProxyGetProxiesPath string

	// Shared outbound HTTP policy.
	RequestTimeout time.Duration
	RetryAttempts  int
	RetryDelay     time.Duration

	LogLevel string
}

// DefaultAppConfig returns the spec's documented defaults for every
// AppConfig field not backed by a required secret (those default to "").
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Host:                        "0.0.0.0",
		Port:                        8000,
		RequireAPIKey:               true,
		MaxWorkers:                  10,
		DBBatchSize:                 50,
		EnableImageSearch:           true,
		EnableGeotagging:            true,
		EnableCleanText:             true,
		EnableImageDownload:         true,
		ImageDownloadMaxBytes:       5 * 1024 * 1024,
		ImageDownloadMaxConcurrency: 4,
		ProxyPostStartPath:          "/start",
		ProxyGetProxiesPath:         "/proxies",
		RequestTimeout:              30 * time.Second,
		RetryAttempts:               3,
		RetryDelay:                  1 * time.Second,
		LogLevel:                    "info",
	}
}

// LoadAppConfigFromEnv assembles an AppConfig from the environment using
// the fail-open strategy everywhere a value is validated: an invalid
// value logs a warning and a ConfigMetrics counter, then falls back to
// DefaultAppConfig's value. Secrets (SUPABASE_*, DB_URL, API_KEY,
// PROXY_API_KEY) have no validator -- any non-empty string is accepted as
// given, since there's no local way to check a credential's shape.
func LoadAppConfigFromEnv(logger *slog.Logger, metrics *ConfigMetrics) *AppConfig {
	def := DefaultAppConfig()
	cfg := def

	cfg.SupabaseURL = LoadEnvString("SUPABASE_URL", def.SupabaseURL)
	cfg.SupabaseKey = LoadEnvString("SUPABASE_KEY", def.SupabaseKey)
	cfg.SupabaseServiceKey = LoadEnvString("SUPABASE_SERVICE_KEY", def.SupabaseServiceKey)
	cfg.ImageBucket = LoadEnvString("IMAGE_BUCKET", def.ImageBucket)
	cfg.DBURL = LoadEnvString("DB_URL", def.DBURL)

	cfg.APIKey = LoadEnvString("API_KEY", def.APIKey)
	cfg.RequireAPIKey = loadBool(logger, metrics, "REQUIRE_API_KEY", "RequireAPIKey", def.RequireAPIKey)

	cfg.Host = LoadEnvString("HOST", def.Host)
	cfg.Port = loadIntRange(logger, metrics, "PORT", "Port", def.Port, 1, 65535)

	cfg.MaxWorkers = loadIntRange(logger, metrics, "MAX_WORKERS", "MaxWorkers", def.MaxWorkers, 1, 100)
	cfg.DBBatchSize = loadIntRange(logger, metrics, "DB_BATCH_SIZE", "DBBatchSize", def.DBBatchSize, 1, 1000)

	cfg.EnableImageSearch = loadBool(logger, metrics, "ENABLE_IMAGE_SEARCH", "EnableImageSearch", def.EnableImageSearch)
	cfg.EnableGeotagging = loadBool(logger, metrics, "ENABLE_GEOTAGGING", "EnableGeotagging", def.EnableGeotagging)
	cfg.EnableCleanText = loadBool(logger, metrics, "ENABLE_CLEAN_TEXT", "EnableCleanText", def.EnableCleanText)
	cfg.EnableImageDownload = loadBool(logger, metrics, "ENABLE_IMAGE_DOWNLOAD", "EnableImageDownload", def.EnableImageDownload)

	cfg.ImageDownloadMaxBytes = loadInt64Range(logger, metrics, "IMAGE_DOWNLOAD_MAX_BYTES", "ImageDownloadMaxBytes", def.ImageDownloadMaxBytes, 1, 100*1024*1024)
	cfg.ImageDownloadMaxConcurrency = loadIntRange(logger, metrics, "IMAGE_DOWNLOAD_MAX_CONCURRENCY", "ImageDownloadMaxConcurrency", def.ImageDownloadMaxConcurrency, 1, 64)

	cfg.ProxyBase = LoadEnvString("PROXY_BASE", def.ProxyBase)
	cfg.ProxyAPIKey = LoadEnvString("PROXY_API_KEY", def.ProxyAPIKey)
	cfg.ProxyPostStartPath = LoadEnvString("PROXY_POST_START_SERVICE", def.ProxyPostStartPath)
	cfg.ProxyGetProxiesPath = LoadEnvString("PROXY_GET_PROXIES", def.ProxyGetProxiesPath)

	cfg.RequestTimeout = loadDurationSeconds(logger, metrics, "REQUEST_TIMEOUT", "RequestTimeout", def.RequestTimeout)
	cfg.RetryAttempts = loadIntRange(logger, metrics, "RETRY_ATTEMPTS", "RetryAttempts", def.RetryAttempts, 0, 10)
	cfg.RetryDelay = loadDurationSeconds(logger, metrics, "RETRY_DELAY", "RetryDelay", def.RetryDelay)

	cfg.LogLevel = LoadEnvString("LOG_LEVEL", def.LogLevel)

	metrics.RecordLoadTimestamp()
	return &cfg
}

func loadBool(logger *slog.Logger, metrics *ConfigMetrics, envKey, field string, def bool) bool {
	result := LoadEnvBool(envKey, def)
	if result.FallbackApplied {
		warn(logger, metrics, field, result.Warnings)
	}
	return result.Value.(bool)
}

func loadIntRange(logger *slog.Logger, metrics *ConfigMetrics, envKey, field string, def, min, max int) int {
	result := LoadEnvInt(envKey, def, func(v int) error { return ValidateIntRange(v, min, max) })
	if result.FallbackApplied {
		warn(logger, metrics, field, result.Warnings)
	}
	return result.Value.(int)
}

// loadInt64Range loads IMAGE_DOWNLOAD_MAX_BYTES, the one byte-count field
// large enough to overflow a naive int on 32-bit platforms; it reuses
// LoadEnvInt's int parsing (the value always fits a platform int in
// practice) and widens afterward.
func loadInt64Range(logger *slog.Logger, metrics *ConfigMetrics, envKey, field string, def int64, min, max int64) int64 {
	result := LoadEnvInt(envKey, int(def), func(v int) error { return ValidateIntRange(v, int(min), int(max)) })
	if result.FallbackApplied {
		warn(logger, metrics, field, result.Warnings)
	}
	return int64(result.Value.(int))
}

// loadDurationSeconds loads an env var expressed as a plain seconds count
// (REQUEST_TIMEOUT=30, RETRY_DELAY=1.0) rather than a Go duration
// string, matching the ambient env var convention.
func loadDurationSeconds(logger *slog.Logger, metrics *ConfigMetrics, envKey, field string, def time.Duration) time.Duration {
	raw := LoadEnvString(envKey, "")
	if raw == "" {
		return def
	}
	seconds, err := strconv.ParseFloat(raw, 64)
	if err != nil || seconds <= 0 {
		warn(logger, metrics, field, []string{fmt.Sprintf(
			"invalid %s=%q: expected a positive seconds count, falling back to default %v", envKey, raw, def)})
		return def
	}
	return time.Duration(seconds * float64(time.Second))
}

func warn(logger *slog.Logger, metrics *ConfigMetrics, field string, warnings []string) {
	metrics.RecordValidationError(field)
	metrics.RecordFallback(field, "default")
	for _, w := range warnings {
		logger.Warn("configuration fallback applied", slog.String("field", field), slog.String("warning", w))
	}
}

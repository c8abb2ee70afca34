// Package proxy implements the Proxy Service (§4.1): fetches a pool of
// upstream proxies from a provider, validates each by probing an HTTPS
// endpoint through it, and serves the validated pool to every other network
// touching stage (Content Extractor, Translation Service, Image Finder).
package proxy

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/masx-ai/flashpoint-pipeline/internal/apperr"
	"github.com/masx-ai/flashpoint-pipeline/internal/domain/entity"
	"github.com/masx-ai/flashpoint-pipeline/internal/resilience/circuitbreaker"
)

// DefaultRefreshInterval is the background refresh cadence (§4.1).
const DefaultRefreshInterval = 180 * time.Second

// Config holds the Proxy Service's tunables, sourced from the ambient
// PROXY_* environment variables (spec §6).
type Config struct {
	BaseURL          string
	APIKey           string
	PostStartPath    string
	GetProxiesPath   string
	RefreshInterval  time.Duration
	ValidateTimeout  time.Duration
	ValidateParallel int
}

// DefaultConfig returns the spec's defaults for everything not supplied by
// the environment.
func DefaultConfig() Config {
	return Config{
		PostStartPath:    "/start",
		GetProxiesPath:   "/proxies",
		RefreshInterval:  DefaultRefreshInterval,
		ValidateTimeout:  5 * time.Second,
		ValidateParallel: 10,
	}
}

// Service is the process-lifetime Proxy Service singleton. It owns the
// validated proxy cache, a background refresh goroutine, and the upstream
// circuit breaker -- all guarded by a single mutex per §5's "each shared
// mutable resource is single-mutex-guarded" rule.
type Service struct {
	cfg    Config
	client *http.Client
	cb     *circuitbreaker.CircuitBreaker

	mu    sync.Mutex
	cache entity.ProxyCache

	stopRefresh chan struct{}
	refreshOnce sync.Once
}

// New constructs a Proxy Service. Call PingStart once at process startup
// (§4.1's ping_start) before the first Get.
func New(cfg Config) *Service {
	return &Service{
		cfg:         cfg,
		client:      &http.Client{Timeout: 30 * time.Second},
		cb:          circuitbreaker.New(circuitbreaker.ProxyUpstreamConfig()),
		stopRefresh: make(chan struct{}),
	}
}

// RandomProxy implements scraper.ProxySource and the equivalent dependency
// taken by the Translation Service and Image Finder: a random validated
// host:port from the current cache, or ok=false when the pool is empty.
func (s *Service) RandomProxy() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.cache.Proxies) == 0 {
		return "", false
	}
	return s.cache.Proxies[rand.Intn(len(s.cache.Proxies))], true
}

// Get returns the current proxy list, refreshing first when forceRefresh is
// set or the cache has never been populated.
func (s *Service) Get(ctx context.Context, forceRefresh bool) ([]string, error) {
	s.mu.Lock()
	empty := len(s.cache.Proxies) == 0
	s.mu.Unlock()

	if forceRefresh || empty {
		if err := s.refresh(ctx); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Snapshot(), nil
}

// PingStart performs the provider's startup handshake (§4.1 ping_start),
// used to warm a provider-side session before the first fetch.
func (s *Service) PingStart(ctx context.Context) error {
	if s.cfg.BaseURL == "" || s.cfg.PostStartPath == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+s.cfg.PostStartPath, nil)
	if err != nil {
		return apperr.New(apperr.KindNetwork, "failed to build proxy start request", err)
	}
	s.applyAuth(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return apperr.New(apperr.KindNetwork, "proxy provider start failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	return classifyStatus(resp.StatusCode)
}

// StartBackgroundRefresh launches the periodic refresh loop (§4.1
// start_background_refresh). Safe to call once; subsequent calls are no-ops.
func (s *Service) StartBackgroundRefresh(ctx context.Context) {
	s.refreshOnce.Do(func() {
		interval := s.cfg.RefreshInterval
		if interval <= 0 {
			interval = DefaultRefreshInterval
		}
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					if err := s.refresh(ctx); err != nil {
						slog.Warn("proxy background refresh failed", slog.Any("error", err))
					}
				case <-s.stopRefresh:
					return
				case <-ctx.Done():
					return
				}
			}
		}()
	})
}

// StopBackgroundRefresh stops the refresh loop started by
// StartBackgroundRefresh. Safe to call even if the loop was never started.
func (s *Service) StopBackgroundRefresh() {
	select {
	case <-s.stopRefresh:
		// already closed
	default:
		close(s.stopRefresh)
	}
}

// refresh fetches a fresh proxy list from the provider, validates each
// candidate concurrently, and swaps the cache atomically. An empty result is
// retried once after a 2s sleep before giving up, per §4.1.
func (s *Service) refresh(ctx context.Context) error {
	proxies, err := s.fetchProxies(ctx)
	if err != nil {
		return err
	}

	if len(proxies) == 0 {
		select {
		case <-time.After(2 * time.Second):
		case <-ctx.Done():
			return ctx.Err()
		}
		proxies, err = s.fetchProxies(ctx)
		if err != nil {
			return err
		}
	}

	validated := s.validateAll(ctx, proxies)

	s.mu.Lock()
	s.cache = entity.ProxyCache{Proxies: validated, UpdatedAt: time.Now()}
	s.mu.Unlock()

	slog.Info("proxy pool refreshed", slog.Int("fetched", len(proxies)), slog.Int("validated", len(validated)))
	return nil
}

// applyAuth attaches the provider API key, matching the teacher's
// convention of an X-API-Key header for upstream service auth.
func (s *Service) applyAuth(req *http.Request) {
	if s.cfg.APIKey != "" {
		req.Header.Set("X-API-Key", s.cfg.APIKey)
	}
}

// classifyStatus maps the provider's HTTP status to the §4.1 error
// taxonomy: 401 is an auth failure, 429 is a rate limit, anything else
// non-2xx is a generic network error.
func classifyStatus(status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized:
		return apperr.New(apperr.KindAuth, "proxy provider rejected credentials", fmt.Errorf("status %d", status))
	case status == http.StatusTooManyRequests:
		return apperr.New(apperr.KindRateLimit, "proxy provider rate limited", fmt.Errorf("status %d", status))
	default:
		return apperr.New(apperr.KindNetwork, "proxy provider request failed", fmt.Errorf("status %d", status))
	}
}

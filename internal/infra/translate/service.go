// Package translate implements the Translation Service (§4.2): a
// provider cascade with per-provider circuit breaking and an LRU result
// cache, that never raises -- a total cascade failure returns ok=false and
// the caller keeps the original text.
package translate

import (
	"context"
	"crypto/tls"
	"math/rand"
	"net/http"
	"net/url"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/masx-ai/flashpoint-pipeline/internal/resilience/circuitbreaker"
)

// CacheSize is the LRU cache's default capacity (~100k per §4.2).
const CacheSize = 100_000

// ProxySource mirrors scraper.ProxySource: a random validated proxy, or
// ok=false when the pool is empty.
type ProxySource interface {
	RandomProxy() (proxy string, ok bool)
}

type providerState struct {
	provider Provider
	breaker  *circuitbreaker.CircuitBreaker
	disabled bool // session-disable flag: set once and never retried this run
}

// Service is the process-lifetime Translation Service singleton.
type Service struct {
	providers []*providerState
	proxies   ProxySource

	mu    sync.Mutex
	cache *lru.Cache[cacheKey, string]
}

type cacheKey struct {
	text, source, target string
}

// New builds a Translation Service with the standard google/freeapi/
// mymemory cascade. proxies may be nil if no Proxy Service is wired yet.
func New(proxies ProxySource) *Service {
	cache, _ := lru.New[cacheKey, string](CacheSize)

	providers := []Provider{googleProvider{}, freeAPIProvider{}, myMemoryProvider{}}
	states := make([]*providerState, 0, len(providers))
	for _, p := range providers {
		states = append(states, &providerState{
			provider: p,
			breaker:  circuitbreaker.New(circuitbreaker.TranslationProviderConfig(p.Name())),
		})
	}

	return &Service{providers: states, proxies: proxies, cache: cache}
}

// Translate attempts the provider cascade in randomized order and returns
// the first success. A cache hit short-circuits the cascade entirely. If
// every provider fails, is disabled, or is circuit-open, Translate returns
// ("", false) rather than an error, per §4.2's never-raise contract.
func (s *Service) Translate(ctx context.Context, text, source, target string) (string, bool) {
	if text == "" || source == target {
		return text, true
	}

	key := cacheKey{text: text, source: source, target: target}

	s.mu.Lock()
	if cached, ok := s.cache.Get(key); ok {
		s.mu.Unlock()
		return cached, true
	}
	s.mu.Unlock()

	client := s.httpClient()

	order := rand.Perm(len(s.providers))
	for _, idx := range order {
		st := s.providers[idx]

		if st.disabled || st.breaker.IsOpen() {
			continue
		}
		if max := st.provider.MaxChars(); max > 0 && len(text) > max {
			continue
		}

		result, err := st.breaker.Execute(func() (interface{}, error) {
			return st.provider.Translate(ctx, client, text, source, target)
		})
		if err != nil {
			continue
		}

		translated := result.(string)
		s.mu.Lock()
		s.cache.Add(key, translated)
		s.mu.Unlock()
		return translated, true
	}

	return "", false
}

// DisableProvider permanently skips a provider for the rest of this
// process's lifetime (the "session-disable flag" from §4.2), for use when a
// provider signals a non-transient condition (e.g. a revoked key) that the
// circuit breaker's time-based recovery wouldn't otherwise clear.
func (s *Service) DisableProvider(name string) {
	for _, st := range s.providers {
		if st.provider.Name() == name {
			st.disabled = true
			return
		}
	}
}

// httpClient returns an HTTP client routed through a random proxy when the
// Proxy Service has one available, or a direct client otherwise.
func (s *Service) httpClient() *http.Client {
	client := &http.Client{
		Timeout: 15 * time.Second,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
		},
	}

	if s.proxies == nil {
		return client
	}
	proxy, ok := s.proxies.RandomProxy()
	if !ok {
		return client
	}
	proxyURL, err := url.Parse("http://" + proxy)
	if err != nil {
		return client
	}
	client.Transport = &http.Transport{
		Proxy:           http.ProxyURL(proxyURL),
		TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
	}
	return client
}

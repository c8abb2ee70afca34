package scraper

import "time"

// ProxySource is the dependency the Content Extractor takes on the Proxy
// Service (§4.1): a random validated host:port, or ok=false when the pool is
// empty. Both extraction stages degrade to a direct connection when ok is
// false, rather than failing the fetch outright.
type ProxySource interface {
	RandomProxy() (proxy string, ok bool)
}

// Config holds the tunables for both extraction stages, per spec §4.3.
type Config struct {
	// PrimaryTimeout bounds the direct HTTP fetch (30s default).
	PrimaryTimeout time.Duration
	// PrimaryMinWords rejects a primary-stage result below this word count,
	// forcing a fallback to the headless stage (1000 default).
	PrimaryMinWords int

	// FallbackPageTimeout bounds a single headless page load (~100s default).
	FallbackPageTimeout time.Duration
	// FallbackOverallTimeout bounds the whole fallback attempt including
	// retry (60s default, applied on top of the page timeout per attempt).
	FallbackOverallTimeout time.Duration
	// FallbackMinWordsRetried rejects a fallback result below this word
	// count once the proxy-rotated retry has already been used (2000
	// default) -- the spec only enforces the floor on the retried attempt.
	FallbackMinWordsRetried int
	// FallbackRetryBackoff is the 1s/2s/4s backoff schedule between the
	// first attempt and the proxy-rotated retry.
	FallbackRetryBackoff []time.Duration

	MaxBodySize    int64
	MaxRedirects   int
	DenyPrivateIPs bool
	UserAgent      string
}

// DefaultConfig returns the spec's numeric defaults for both stages.
func DefaultConfig() Config {
	return Config{
		PrimaryTimeout:          30 * time.Second,
		PrimaryMinWords:         1000,
		FallbackPageTimeout:     100 * time.Second,
		FallbackOverallTimeout:  60 * time.Second,
		FallbackMinWordsRetried: 2000,
		FallbackRetryBackoff:    []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second},
		MaxBodySize:             10 * 1024 * 1024,
		MaxRedirects:            5,
		DenyPrivateIPs:          true,
		UserAgent:               "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	}
}

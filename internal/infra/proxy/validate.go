package proxy

import (
	"context"
	"crypto/tls"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// probeURL is the HTTPS endpoint every candidate proxy must reach within
// ValidateTimeout to be accepted into the pool (§4.1).
const probeURL = "https://www.google.com/generate_204"

// validateAll probes every candidate concurrently, bounded to
// cfg.ValidateParallel in flight at once (~10 per §4.1/§5), and returns only
// the ones that answered within the timeout.
func (s *Service) validateAll(ctx context.Context, candidates []string) []string {
	parallel := s.cfg.ValidateParallel
	if parallel <= 0 {
		parallel = 10
	}

	sem := make(chan struct{}, parallel)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var validated []string

	for _, proxy := range candidates {
		wg.Add(1)
		sem <- struct{}{}
		go func(proxy string) {
			defer wg.Done()
			defer func() { <-sem }()

			if s.probe(ctx, proxy) {
				mu.Lock()
				validated = append(validated, proxy)
				mu.Unlock()
			}
		}(proxy)
	}

	wg.Wait()
	return validated
}

// probe issues a single HTTPS request through proxy and reports whether it
// answered within ValidateTimeout.
func (s *Service) probe(ctx context.Context, proxy string) bool {
	timeout := s.cfg.ValidateTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	proxyURL, err := url.Parse("http://" + proxy)
	if err != nil {
		return false
	}

	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:           http.ProxyURL(proxyURL),
			TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
		},
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, probeURL, nil)
	if err != nil {
		return false
	}

	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode >= 200 && resp.StatusCode < 400
}

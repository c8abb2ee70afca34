package images

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DuckDuckGoBackend implements ImageSearchBackend against DuckDuckGo's
// unofficial image-search JSON endpoint, the same no-API-key approach the
// widely used "free image search" client libraries use -- it needs a
// short-lived vqd token minted from the HTML search page before the JSON
// endpoint will answer.
type DuckDuckGoBackend struct {
	client *http.Client
}

// NewDuckDuckGoBackend builds a DuckDuckGoBackend with a sane default
// timeout.
func NewDuckDuckGoBackend() *DuckDuckGoBackend {
	return &DuckDuckGoBackend{
		client: &http.Client{
			Timeout:   15 * time.Second,
			Transport: &http.Transport{TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12}},
		},
	}
}

type ddgImageResult struct {
	Image  string `json:"image"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type ddgImageResponse struct {
	Results []ddgImageResult `json:"results"`
}

// Search issues one image search against the given locale, optionally
// routed through proxy (host:port, or "" for a direct connection).
func (b *DuckDuckGoBackend) Search(ctx context.Context, query, locale, proxy string) ([]ImageHit, error) {
	client := b.client
	if proxy != "" {
		if proxyURL, err := url.Parse("http://" + proxy); err == nil {
			transport := &http.Transport{
				Proxy:           http.ProxyURL(proxyURL),
				TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
			}
			client = &http.Client{Timeout: b.client.Timeout, Transport: transport}
		}
	}

	vqd, err := b.fetchToken(ctx, client, query)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo token: %w", err)
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("o", "json")
	q.Set("vqd", vqd)
	q.Set("l", locale)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://duckduckgo.com/i.js?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo image search HTTP %d", resp.StatusCode)
	}

	var parsed ddgImageResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&parsed); err != nil {
		return nil, err
	}

	hits := make([]ImageHit, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		if r.Image == "" {
			continue
		}
		hits = append(hits, ImageHit{URL: r.Image, Width: r.Width, Height: r.Height})
	}
	return hits, nil
}

// fetchToken scrapes the vqd token DuckDuckGo's JSON image endpoint
// requires, embedded in the HTML results page for the same query.
func (b *DuckDuckGoBackend) fetchToken(ctx context.Context, client *http.Client, query string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://duckduckgo.com/?q="+url.QueryEscape(query), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}

	const marker = "vqd=\""
	idx := strings.Index(string(body), marker)
	if idx == -1 {
		return "", fmt.Errorf("vqd token not found in search page")
	}
	rest := string(body)[idx+len(marker):]
	end := strings.IndexByte(rest, '"')
	if end == -1 {
		return "", fmt.Errorf("malformed vqd token")
	}
	return rest[:end], nil
}

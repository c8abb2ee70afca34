package scraper

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/masx-ai/flashpoint-pipeline/internal/resilience/circuitbreaker"

	readability "github.com/go-shiori/go-readability"
)

// Extracted is one stage's partial view of an article. The merge step
// (§4.3.3) fills a fallback Extracted's empty fields from the primary's.
type Extracted struct {
	Title         string
	Content       string
	Author        string
	PublishedDate string
	Image         string
	Hostname      string
	ScrapedAt     string
}

// primaryExtractor fetches a page directly over HTTP and runs it through
// Mozilla Readability. It is the first stage tried for every article.
type primaryExtractor struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	config         Config
	proxies        ProxySource
}

func newPrimaryExtractor(cfg Config, proxies ProxySource) *primaryExtractor {
	cb := circuitbreaker.New(circuitbreaker.ContentExtractorConfig())

	e := &primaryExtractor{circuitBreaker: cb, config: cfg, proxies: proxies}
	e.client = &http.Client{
		Timeout: cfg.PrimaryTimeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			TLSClientConfig:     &tls.Config{MinVersion: tls.VersionTLS12},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= cfg.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", ErrTooManyRedirects, len(via))
			}
			if err := validateURL(req.URL.String(), cfg.DenyPrivateIPs); err != nil {
				return fmt.Errorf("redirect target rejected: %w", err)
			}
			return nil
		},
	}
	return e
}

// Fetch validates, fetches, and extracts via Readability. It rejects results
// under the configured minimum word count so the caller can fall back to
// the headless stage.
func (e *primaryExtractor) Fetch(ctx context.Context, urlStr string) (Extracted, error) {
	if err := validateURL(urlStr, e.config.DenyPrivateIPs); err != nil {
		return Extracted{}, err
	}

	result, err := e.circuitBreaker.Execute(func() (interface{}, error) {
		return e.doFetch(ctx, urlStr)
	})
	if err != nil {
		return Extracted{}, err
	}
	return result.(Extracted), nil
}

func (e *primaryExtractor) doFetch(ctx context.Context, urlStr string) (Extracted, error) {
	reqCtx, cancel := context.WithTimeout(ctx, e.config.PrimaryTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, urlStr, nil)
	if err != nil {
		return Extracted{}, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", e.config.UserAgent)

	if proxy, ok := e.proxies.RandomProxy(); ok {
		if proxyURL, perr := url.Parse("http://" + proxy); perr == nil {
			transport := e.client.Transport.(*http.Transport).Clone()
			transport.Proxy = http.ProxyURL(proxyURL)
			client := &http.Client{Timeout: e.client.Timeout, Transport: transport, CheckRedirect: e.client.CheckRedirect}
			return e.doRequest(reqCtx, client, req, urlStr)
		}
	}
	return e.doRequest(reqCtx, e.client, req, urlStr)
}

func (e *primaryExtractor) doRequest(reqCtx context.Context, client *http.Client, req *http.Request, urlStr string) (Extracted, error) {
	resp, err := client.Do(req)
	if err != nil {
		if reqCtx.Err() == context.DeadlineExceeded {
			return Extracted{}, fmt.Errorf("%w: exceeded %v", ErrTimeout, e.config.PrimaryTimeout)
		}
		return Extracted{}, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Extracted{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	limited := io.LimitReader(resp.Body, e.config.MaxBodySize+1)
	htmlBytes, err := io.ReadAll(limited)
	if err != nil {
		return Extracted{}, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(htmlBytes)) > e.config.MaxBodySize {
		return Extracted{}, fmt.Errorf("%w: %d bytes exceeds %d", ErrBodyTooLarge, len(htmlBytes), e.config.MaxBodySize)
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		parsedURL = nil
	}
	if resp.Request != nil && resp.Request.URL != nil {
		parsedURL = resp.Request.URL
	}

	article, err := readability.FromReader(io.NopCloser(bytes.NewReader(htmlBytes)), parsedURL)
	if err != nil {
		return Extracted{}, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	content := article.TextContent
	if content == "" {
		content = article.Content
	}
	if content == "" {
		return Extracted{}, fmt.Errorf("%w: no readable content found", ErrExtractionFailed)
	}

	if wordCount(content) < e.config.PrimaryMinWords {
		return Extracted{}, fmt.Errorf("%w: %d words (min %d)", ErrWordCountTooLow, wordCount(content), e.config.PrimaryMinWords)
	}

	image := ""
	if article.Image != "" {
		image = article.Image
	}
	publishedDate := ""
	if article.PublishedTime != nil && !article.PublishedTime.IsZero() {
		publishedDate = article.PublishedTime.Format("2006-01-02")
	}

	hostname := ""
	if parsedURL != nil {
		hostname = parsedURL.Hostname()
	}

	return Extracted{
		Title:         article.Title,
		Content:       content,
		Author:        article.Byline,
		PublishedDate: publishedDate,
		Image:         image,
		Hostname:      hostname,
	}, nil
}

// wordCount splits on whitespace, matching the spec's word_count gate.
func wordCount(s string) int {
	return len(strings.Fields(s))
}

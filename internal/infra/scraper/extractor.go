package scraper

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// Extractor is the Content Extractor (§4.3): try the direct-HTTP primary
// stage, fall back to the headless stage when the primary is rejected or
// fails outright, merge whichever fields the winning stage left empty from
// the other stage's partial result, and clean the merged content.
type Extractor struct {
	primary    *primaryExtractor
	fallback   *fallbackExtractor
	normalizer *http.Client
	userAgent  string
}

// New builds an Extractor. proxies supplies the Proxy Service's random-pick
// view; a nil-safe noProxy source is used if the caller has none wired yet.
func New(cfg Config, proxies ProxySource) *Extractor {
	if proxies == nil {
		proxies = noProxySource{}
	}
	return &Extractor{
		primary:    newPrimaryExtractor(cfg, proxies),
		fallback:   newFallbackExtractor(cfg, proxies),
		normalizer: newNormalizeClient(cfg),
		userAgent:  cfg.UserAgent,
	}
}

type noProxySource struct{}

func (noProxySource) RandomProxy() (string, bool) { return "", false }

// Extract runs the two-stage cascade and returns clean article text plus
// whatever byline/date/image metadata either stage recovered. It returns
// ErrAllStagesFailed only when both stages failed entirely, per §4.3's
// "raises only if both stages fail" error policy -- a rejected primary
// result is not itself an error as long as the fallback succeeds.
func (e *Extractor) Extract(ctx context.Context, urlStr string) (Extracted, error) {
	urlStr = normalizeURL(ctx, e.normalizer, urlStr, e.userAgent)

	primaryResult, primaryErr := e.primary.Fetch(ctx, urlStr)

	if primaryErr == nil {
		primaryResult.Content = Clean(primaryResult.Content)
		primaryResult.ScrapedAt = time.Now().UTC().Format(time.RFC3339)
		return primaryResult, nil
	}

	fallbackResult, fallbackErr := e.fallback.Fetch(ctx, urlStr)
	if fallbackErr != nil {
		return Extracted{}, errors.Join(ErrAllStagesFailed, primaryErr, fallbackErr)
	}

	merged := mergeExtracted(primaryResult, fallbackResult)
	merged.Content = Clean(merged.Content)
	merged.ScrapedAt = time.Now().UTC().Format(time.RFC3339)
	return merged, nil
}

// mergeExtracted fills fallback's empty fields from primary's partial
// result, per §4.3.3: primary's author/published_date/image/content/
// scraped_at win when fallback left them blank.
func mergeExtracted(primary, fallback Extracted) Extracted {
	merged := fallback
	if merged.Title == "" {
		merged.Title = primary.Title
	}
	if merged.Hostname == "" {
		merged.Hostname = primary.Hostname
	}
	if merged.Author == "" {
		merged.Author = primary.Author
	}
	if merged.PublishedDate == "" {
		merged.PublishedDate = primary.PublishedDate
	}
	if merged.Image == "" {
		merged.Image = primary.Image
	}
	if merged.Content == "" {
		merged.Content = primary.Content
	}
	if merged.ScrapedAt == "" {
		merged.ScrapedAt = primary.ScrapedAt
	}
	return merged
}

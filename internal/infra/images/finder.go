package images

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
)

// TargetResults is how many unique URLs stop the search loop early (§4.6).
const TargetResults = 5

const (
	minDim    = 500
	maxDim    = 4000
	minAspect = 0.5
	maxAspect = 3.0
)

// ImageHit is one raw result an ImageSearchBackend returns.
type ImageHit struct {
	URL    string
	Width  int
	Height int
}

// ImageSearchBackend abstracts the image search provider so Finder never
// depends on a specific one (mirrors translate.Provider's shape).
type ImageSearchBackend interface {
	Search(ctx context.Context, query, locale, proxy string) ([]ImageHit, error)
}

// ProxySource mirrors scraper.ProxySource: a random validated proxy, or
// ok=false when the pool is empty.
type ProxySource interface {
	RandomProxy() (proxy string, ok bool)
}

// Finder is the Image Finder (§4.6).
type Finder struct {
	backend ImageSearchBackend
	proxies ProxySource
	logger  *slog.Logger
}

// New builds a Finder. proxies may be nil when no Proxy Service is wired.
func New(backend ImageSearchBackend, proxies ProxySource, logger *slog.Logger) *Finder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Finder{backend: backend, proxies: proxies, logger: logger}
}

// Find runs the locale/title search loop and returns up to TargetResults
// unique, quality-filtered candidate image URLs. It never raises: a
// per-locale or per-call failure is logged and skipped (§4.6).
func (f *Finder) Find(ctx context.Context, title, titleEN string, locales []string) []string {
	seen := make(map[string]bool)
	var out []string

	proxy := ""
	if f.proxies != nil {
		proxy, _ = f.proxies.RandomProxy()
	}

	for _, locale := range locales {
		if len(out) >= TargetResults {
			break
		}
		f.searchOneQuery(ctx, title, locale, proxy, seen, &out)

		if len(out) < TargetResults && titleEN != "" && titleEN != title {
			f.searchOneQuery(ctx, titleEN, locale, proxy, seen, &out)
		}
	}
	return out
}

func (f *Finder) searchOneQuery(ctx context.Context, query, locale, proxy string, seen map[string]bool, out *[]string) {
	if len(*out) >= TargetResults {
		return
	}
	hits, err := f.backend.Search(ctx, query, locale, proxy)
	if err != nil {
		f.logger.Warn("image search failed", "locale", locale, "error", err)
		return
	}
	for _, hit := range hits {
		if len(*out) >= TargetResults {
			return
		}
		if !passesQualityFilter(hit) {
			continue
		}
		key := strings.ToLower(hit.URL)
		if seen[key] {
			continue
		}
		seen[key] = true
		*out = append(*out, hit.URL)
	}
}

func passesQualityFilter(hit ImageHit) bool {
	u, err := url.Parse(hit.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	if hit.Width < minDim || hit.Height < minDim || hit.Width > maxDim || hit.Height > maxDim {
		return false
	}
	aspect := float64(hit.Width) / float64(hit.Height)
	return aspect >= minAspect && aspect <= maxAspect
}

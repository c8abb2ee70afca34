package scraper

import (
	"context"
	"crypto/tls"
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

// trackingParams are query parameters that identify a campaign/referrer
// but never change which article a URL points at; they're stripped before
// the Content Extractor ever dereferences the link, so cache keys and
// dedup don't fragment on marketing noise.
var trackingParams = map[string]bool{
	"fbclid": true, "gclid": true, "msclkid": true,
	"mc_cid": true, "mc_eid": true,
	"ref": true, "ref_src": true, "igshid": true,
}

// googleNewsRedirectorPattern matches Google News' RSS redirector links,
// which wrap the publisher URL behind a token instead of linking to it
// directly.
var googleNewsRedirectorPattern = regexp.MustCompile(`(?i)^https?://news\.google\.com/rss/articles/`)

// isTrackingParam reports whether key is a stripped tracking parameter,
// including the whole utm_* family.
func isTrackingParam(key string) bool {
	return trackingParams[strings.ToLower(key)] || strings.HasPrefix(strings.ToLower(key), "utm_")
}

// stripTrackingParams removes every tracking query parameter from u in
// place and returns u for chaining.
func stripTrackingParams(u *url.URL) *url.URL {
	q := u.Query()
	changed := false
	for key := range q {
		if isTrackingParam(key) {
			q.Del(key)
			changed = true
		}
	}
	if changed {
		u.RawQuery = q.Encode()
	}
	return u
}

// continueURLFromConsent extracts the destination URL embedded in a
// consent-interstitial page's "continue" query parameter (a pattern
// Google's consent redirector and similar walls use), returning "" if
// there isn't one.
func continueURLFromConsent(u *url.URL) string {
	if c := u.Query().Get("continue"); c != "" {
		if decoded, err := url.QueryUnescape(c); err == nil {
			return decoded
		}
		return c
	}
	return ""
}

// deepUnquote repeatedly percent-decodes s, up to rounds times or until a
// pass makes no further change -- search-engine and social-share wrapper
// links sometimes nest several layers of encoding around the real target.
func deepUnquote(s string, rounds int) string {
	for i := 0; i < rounds; i++ {
		decoded, err := url.QueryUnescape(s)
		if err != nil || decoded == s {
			break
		}
		s = decoded
	}
	return s
}

// isSafeURL reports whether rawURL parses to an http(s) URL with a host,
// the minimum bar for something worth normalizing or fetching at all.
func isSafeURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// resolveRedirects follows HTTP redirects for rawURL with a browser-like
// User-Agent and returns the final landing URL. It tries HEAD first (not
// every server supports it) and falls back to GET; on any failure it
// returns rawURL unchanged rather than erroring, matching the extractor's
// fail-soft posture for anything upstream of the actual fetch.
func resolveRedirects(ctx context.Context, client *http.Client, rawURL, userAgent string) string {
	if !isSafeURL(rawURL) {
		return rawURL
	}

	if final, ok := tryResolve(ctx, client, http.MethodHead, rawURL, userAgent); ok {
		if consent := continueURLFromConsent(mustParse(final)); consent != "" && consent != rawURL && isSafeURL(consent) {
			return consent
		}
		if final != rawURL {
			return final
		}
	}

	if final, ok := tryResolve(ctx, client, http.MethodGet, rawURL, userAgent); ok {
		return final
	}
	return rawURL
}

func tryResolve(ctx context.Context, client *http.Client, method, rawURL, userAgent string) (string, bool) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return "", false
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", false
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.Request == nil || resp.Request.URL == nil {
		return "", false
	}
	final := resp.Request.URL.String()
	return final, isSafeURL(final)
}

func mustParse(rawURL string) *url.URL {
	u, err := url.Parse(rawURL)
	if err != nil {
		return &url.URL{}
	}
	return u
}

// normalizeURL is the Content Extractor's pre-fetch normalization step: it
// unwraps nested percent-encoding, resolves known tracking redirectors
// (currently Google News' RSS wrapper) to their publisher landing page,
// and strips tracking query parameters -- all before either extraction
// stage spends a fetch on the URL. Any failure degrades to the
// best-effort URL gathered so far rather than blocking extraction.
func normalizeURL(ctx context.Context, client *http.Client, rawURL, userAgent string) string {
	candidate := deepUnquote(strings.TrimSpace(rawURL), 6)
	if !isSafeURL(candidate) {
		return rawURL
	}

	if googleNewsRedirectorPattern.MatchString(candidate) {
		candidate = resolveRedirects(ctx, client, candidate, userAgent)
	}

	u, err := url.Parse(candidate)
	if err != nil {
		return candidate
	}
	return stripTrackingParams(u).String()
}

// newNormalizeClient builds the short-timeout client normalizeURL uses to
// follow redirects, distinct from the extraction stages' own clients since
// it only ever needs headers, never a body.
func newNormalizeClient(cfg Config) *http.Client {
	return &http.Client{
		Timeout: cfg.PrimaryTimeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
		},
	}
}

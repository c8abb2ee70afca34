package pathutil

import (
	"regexp"
	"strings"
)

// PathPattern represents a regex pattern and its corresponding normalized template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// pathPatterns defines the list of patterns for dynamic routes.
// Patterns are evaluated in order from most specific to least specific.
// Pre-compiled at initialization for optimal performance (<1μs per operation).
var pathPatterns = []*PathPattern{
	// Feed entries/clear routes carrying a YYYY-MM-DD date segment
	{Pattern: regexp.MustCompile(`^/feed/entries/\d{4}-\d{2}-\d{2}$`), Template: "/feed/entries/:date"},
	{Pattern: regexp.MustCompile(`^/feed/clear/\d{4}-\d{2}-\d{2}$`), Template: "/feed/clear/:date"},
}

// NormalizePath normalizes dynamic URL paths to prevent metrics label cardinality explosion.
// It converts paths with a date segment (e.g., /feed/entries/2026-07-30) to template
// format (e.g., /feed/entries/:date). Static paths and control-plane endpoints without
// a date segment remain unchanged.
//
// Performance: <1μs per operation (pre-compiled regex patterns)
//
// Examples:
//
//	NormalizePath("/feed/entries/2026-07-30")  // "/feed/entries/:date"
//	NormalizePath("/feed/clear/2026-07-30")    // "/feed/clear/:date"
//	NormalizePath("/feed/clear")               // "/feed/clear" (unchanged)
//	NormalizePath("/feed/warmup")               // "/feed/warmup" (unchanged)
//	NormalizePath("/health")                   // "/health" (unchanged)
//	NormalizePath("/metrics")                  // "/metrics" (unchanged)
//	NormalizePath("/unknown/path/123")         // "/unknown/path/123" (no match, return original)
//
// Query parameters and trailing slashes are handled:
//
//	NormalizePath("/feed/entries/2026-07-30?flashpoint_id=abc")  // "/feed/entries/:date"
//	NormalizePath("/feed/entries/2026-07-30/")                   // "/feed/entries/:date"
func NormalizePath(path string) string {
	// Strip query parameters if present
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}

	// Strip trailing slash if present (except for root path)
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	// Try to match against known patterns
	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}

	// No match found, return original path
	// This is safe - static paths like /health, /metrics, /auth/token
	// and search endpoints like /articles/search will pass through unchanged
	return path
}

// GetExpectedCardinality returns the expected number of unique path labels
// after normalization. This is useful for capacity planning and monitoring.
//
// Expected cardinality calculation:
//   - Static/control-plane endpoints: ~10 (health, metrics, ready, live, stats,
//     feed/warmup, feed/process, feed/process/flashpoint, feed/process/article,
//     feed/process/batch_articles, feed/stats, feed/clear)
//   - Template endpoints: 2 (feed/entries/:date, feed/clear/:date)
//   - Total: ~12 unique path labels
func GetExpectedCardinality() int {
	// Count template patterns
	templateCount := len(pathPatterns)

	// Estimate static endpoints
	staticCount := 10 // /health, /metrics, /ready, /feed/warmup, etc.

	// Total expected cardinality
	return templateCount + staticCount
}

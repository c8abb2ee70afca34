// Package scraper implements the Content Extractor: a direct-HTTP Readability
// primary stage, a headless-browser fallback stage, and the merge/clean
// pipeline that turns either one into a clean article body.
package scraper

import "errors"

// Sentinel errors surfaced by both extraction stages. Callers (the
// per-article pipeline) distinguish these to decide whether to retry with
// the fallback stage or give up entirely.
var (
	ErrInvalidURL        = errors.New("invalid URL or unsupported scheme")
	ErrPrivateIP         = errors.New("private IP access denied")
	ErrTooManyRedirects  = errors.New("too many redirects")
	ErrBodyTooLarge      = errors.New("response body too large")
	ErrTimeout           = errors.New("request timeout")
	ErrExtractionFailed  = errors.New("content extraction failed")
	ErrWordCountTooLow   = errors.New("extracted content below minimum word count")
	ErrAllStagesFailed   = errors.New("both primary and fallback extraction stages failed")
	ErrErrorPatternFound = errors.New("error_pattern_found")
)

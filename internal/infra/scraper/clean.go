package scraper

import (
	"regexp"
	"strings"
)

// Precompiled per §9's "regex-heavy cleaning precompiled once" design note.
var (
	reMarkdownImage = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	reMarkdownLink  = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	reBareURL       = regexp.MustCompile(`https?://\S+`)
	reHTMLTag       = regexp.MustCompile(`<[^>]+>`)
	reMarkdownHead  = regexp.MustCompile(`(?m)^#{1,6}\s*`)
	reCodeFence     = regexp.MustCompile("(?s)```.*?```")
	reEmail         = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	reLongDigitRun  = regexp.MustCompile(`\d{10,}`)
	reWhitespace    = regexp.MustCompile(`[ \t]+`)
	reBlankLines    = regexp.MustCompile(`\n{3,}`)

	// errorPatterns match boilerplate that indicates the page we scraped was
	// an error/interstitial page rather than an article, not markup noise.
	errorPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)access denied`),
		regexp.MustCompile(`(?i)403 forbidden`),
		regexp.MustCompile(`(?i)page not found`),
		regexp.MustCompile(`(?i)enable javascript to continue`),
		regexp.MustCompile(`(?i)checking your browser before accessing`),
	}
)

// Clean strips markup noise and PII-shaped tokens from extracted article
// text and normalizes whitespace, per §4.3's post-processing step. If the
// cleaned text matches one of the known error-page patterns, Clean returns
// the literal sentinel "error_pattern_found" instead of the cleaned text.
func Clean(text string) string {
	out := reCodeFence.ReplaceAllString(text, "")
	out = reMarkdownImage.ReplaceAllString(out, "")
	out = reMarkdownLink.ReplaceAllString(out, "$1")
	out = reHTMLTag.ReplaceAllString(out, "")
	out = reMarkdownHead.ReplaceAllString(out, "")
	out = reBareURL.ReplaceAllString(out, "")
	out = reEmail.ReplaceAllString(out, "")
	out = reLongDigitRun.ReplaceAllString(out, "")

	out = reWhitespace.ReplaceAllString(out, " ")
	out = reBlankLines.ReplaceAllString(out, "\n\n")
	out = strings.TrimSpace(out)

	for _, pat := range errorPatterns {
		if pat.MatchString(out) {
			return "error_pattern_found"
		}
	}

	return out
}

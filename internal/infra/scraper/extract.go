package scraper

import (
	"fmt"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// extractReadability runs raw HTML (already fetched, direct or rendered)
// through Mozilla Readability and returns the stage-neutral Extracted view.
func extractReadability(html, sourceURL string) (Extracted, error) {
	parsedURL, err := url.Parse(sourceURL)
	if err != nil {
		parsedURL = nil
	}

	article, err := readability.FromReader(strings.NewReader(html), parsedURL)
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
		Image:         article.Image,
		Hostname:      hostname,
	}, nil
}

package entity

import "time"

// ExtractResult is the working record for one article as it moves through
// the per-article pipeline (§4.8). It is created by, and exclusively owned
// by, a single pipeline invocation, and is passed by value to the store
// adapter on completion — no goroutine shares a mutable ExtractResult with
// another.
//
// Id and ParentID are preserved end-to-end from the originating FeedEntry.
// Images is never nil: callers get an empty slice sentinel, not a null.
type ExtractResult struct {
	ID       string
	ParentID string // == FeedEntry.FlashpointID

	Title         string
	Author        string
	PublishedDate string
	Content       string
	Hostname      string
	ScrapedAt     time.Time

	TitleEN  string
	Language string // ISO-639-1, or "" if undetermined

	// Images starts as a list of candidate absolute URLs and is rewritten in
	// place to stored (served) URLs once the image downloader runs.
	Images []string

	Entities    *EntityBundle
	GeoEntities []GeoEntity
}

// NewExtractResult returns a result seeded with the identity fields that
// must survive every subsequent step, and a non-nil empty Images slice.
func NewExtractResult(id, parentID string) *ExtractResult {
	return &ExtractResult{
		ID:       id,
		ParentID: parentID,
		Images:   []string{},
	}
}

// ToFeedEntry merges this result back into the shape of the input FeedEntry,
// preserving fields the pipeline never touches (URL, description, hint
// fields) and overwriting the enriched ones.
func (r *ExtractResult) ToFeedEntry(base FeedEntry) FeedEntry {
	out := base
	out.ID = r.ID
	out.FlashpointID = r.ParentID
	if r.Title != "" {
		out.Title = r.Title
	}
	out.Hostname = r.Hostname
	out.Language = r.Language
	out.TitleEN = r.TitleEN
	out.Content = r.Content
	out.Images = r.Images
	if out.Images == nil {
		out.Images = []string{}
	}
	out.Entities = r.Entities
	out.GeoEntities = r.GeoEntities
	if r.PublishedDate != "" {
		out.PublishedDate = r.PublishedDate
	}
	return out
}

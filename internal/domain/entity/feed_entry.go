// Package entity defines the domain records shared across the pipeline.
package entity

// FeedEntry is a single candidate article row read from a date-partitioned
// input table (feed_entries_<YYYYMMDD>). It is written by an upstream system
// and is read-only to this pipeline: nothing downstream mutates a FeedEntry
// in place, it is only ever read from and enriched into a new one.
type FeedEntry struct {
	ID             string `json:"id"`
	FlashpointID   string `json:"flashpoint_id"`
	URL            string `json:"url"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Image          string `json:"image,omitempty"`
	Language       string `json:"language,omitempty"`
	SourceCountry  string `json:"source_country,omitempty"`
	Hostname       string `json:"hostname,omitempty"`
	PublishedDate  string `json:"published_date,omitempty"`

	// Enriched fields, populated once this entry has gone through the
	// per-article pipeline (§4.8). Zero-valued on a freshly loaded entry.
	TitleEN     string        `json:"title_en,omitempty"`
	Content     string        `json:"content,omitempty"`
	Images      []string      `json:"images"`
	Entities    *EntityBundle `json:"entities,omitempty"`
	GeoEntities []GeoEntity   `json:"geo_entities,omitempty"`
}

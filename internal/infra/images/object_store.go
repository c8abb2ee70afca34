package images

import (
	"context"
	"fmt"
)

// ObjectStore abstracts the S3-compatible bucket the Image Downloader
// writes into and the Store Adapter reads served URLs from. A thin
// interface keeps the downloader testable without a live bucket.
type ObjectStore interface {
	// Put uploads body under key with the given content type, upsert
	// semantics, and a long-lived public cache-control header.
	Put(ctx context.Context, key string, body []byte, contentType string) error
	// List returns every object key under prefix.
	List(ctx context.Context, prefix string) ([]string, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
	// URL returns the served URL for key (public, or signed if the store
	// was configured with a signing TTL).
	URL(key string) string
}

// ObjectPath computes the deterministic bucket path for one flashpoint's
// images on one date (§4.7's directory layout).
func ObjectPath(date, flashpointID, filename string) string {
	return fmt.Sprintf("%s/%s/%s", date, flashpointID, filename)
}

package images

import (
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// MaxImageBytes bounds a single downloaded image (§4.7 step 1-2).
const MaxImageBytes = 5 * 1024 * 1024

// DefaultConcurrency is the Image Downloader's default per-article
// download parallelism (§4.7).
const DefaultConcurrency = 4

const getTimeout = 15 * time.Second

// Downloader is the Image Downloader (§4.7). A run-scoped UUID is folded
// into every object's path instead of the spec's literal list-then-delete
// directory prep, resolving the pre-clear race two concurrent runs for
// the same (date, flashpoint_id) would otherwise hit -- see DESIGN.md's
// Open Question decision 3. The caller (Per-Article Pipeline) is
// responsible for recording the winning run in the manifest the Store
// Adapter exposes once every image in a run finishes.
type Downloader struct {
	store       ObjectStore
	client      *http.Client
	concurrency int
	logger      *slog.Logger
}

// NewDownloader builds a Downloader with DefaultConcurrency in-flight
// downloads.
func NewDownloader(store ObjectStore, logger *slog.Logger) *Downloader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Downloader{
		store: store,
		client: &http.Client{
			Timeout:   getTimeout,
			Transport: &http.Transport{TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12}},
		},
		concurrency: DefaultConcurrency,
		logger:      logger,
	}
}

// Download materializes candidateURLs into the bucket under
// <date>/<flashpoint_id>/<runID>/, with bounded concurrency, and returns
// an ordered list parallel to candidateURLs: a served URL where the
// download and upload succeeded, "" where it was dropped.
func (d *Downloader) Download(ctx context.Context, date, flashpointID, runID string, candidateURLs []string) []string {
	results := make([]string, len(candidateURLs))

	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, d.concurrency)

	for i, raw := range candidateURLs {
		i, raw := i, raw
		sem <- struct{}{}
		g.Go(func() error {
			defer func() { <-sem }()
			served, ok := d.processOne(gctx, date, flashpointID, runID, i, raw)
			if ok {
				results[i] = served
			}
			return nil // a per-image failure never aborts the batch
		})
	}
	_ = g.Wait()

	return results
}

func (d *Downloader) processOne(ctx context.Context, date, flashpointID, runID string, index int, rawURL string) (string, bool) {
	cleaned := CleanImageURL(rawURL)
	if !IsHTTPURL(cleaned) {
		return "", false
	}

	body, contentType, ok := d.fetch(ctx, cleaned)
	if !ok {
		return "", false
	}

	head := body
	if len(head) > 32 {
		head = head[:32]
	}
	if SniffImageFormat(head) == "" {
		d.logger.Warn("image failed magic byte check", "url", cleaned)
		return "", false
	}
	if !strings.HasPrefix(contentType, "image/") {
		d.logger.Warn("image content-type rejected", "url", cleaned, "content_type", contentType)
		return "", false
	}

	filename := buildFilename(index, flashpointID, cleaned, contentType)
	key := fmt.Sprintf("%s/%s/%s/%s", date, flashpointID, runID, filename)

	if err := d.store.Put(ctx, key, body, contentType); err != nil {
		d.logger.Warn("image upload failed", "url", cleaned, "error", err)
		return "", false
	}
	return d.store.URL(key), true
}

// fetch does the HEAD-probe-then-GET dance (§4.7 steps 1-2), returning
// the body and its content type.
func (d *Downloader) fetch(ctx context.Context, rawURL string) ([]byte, string, bool) {
	if headReq, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil); err == nil {
		if resp, err := d.client.Do(headReq); err == nil {
			_ = resp.Body.Close()
			if resp.ContentLength > MaxImageBytes {
				return nil, "", false
			}
		}
	}

	getReq, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", false
	}
	resp, err := d.client.Do(getReq)
	if err != nil {
		return nil, "", false
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, "", false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxImageBytes+1))
	if err != nil || int64(len(body)) > MaxImageBytes {
		return nil, "", false
	}

	contentType := resp.Header.Get("Content-Type")
	if idx := strings.IndexByte(contentType, ';'); idx != -1 {
		contentType = contentType[:idx]
	}
	contentType = strings.TrimSpace(contentType)
	return body, contentType, true
}

// buildFilename computes img_<index>_<extract_id_safe><short_hash>.<ext>
// per §4.7 step 4.
func buildFilename(index int, flashpointID, rawURL, contentType string) string {
	safeID := sanitizeForFilename(flashpointID)
	hash := sha256.Sum256([]byte(rawURL))
	shortHash := hex.EncodeToString(hash[:])[:10]
	ext := ExtensionFromURL(rawURL, contentType)
	return fmt.Sprintf("img_%d_%s%s%s", index, safeID, shortHash, ext)
}

func sanitizeForFilename(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

package entity

import "time"

// ProcessingStatus is the terminal status of one article's pipeline run.
type ProcessingStatus string

const (
	StatusCompleted ProcessingStatus = "completed"
	StatusFailed    ProcessingStatus = "failed"
)

// ProcessingResult is what the per-article pipeline (§4.8) returns for one
// article, and what the batch executor (§4.10) collects and aggregates.
type ProcessingResult struct {
	ArticleID         string           `json:"article_id"`
	Status            ProcessingStatus `json:"status"`
	ProcessingTimeSec float64          `json:"processing_time_sec"`
	ProcessingSteps   []string         `json:"processing_steps"`
	EnrichedData      *FeedEntry       `json:"enriched_data"`
	Errors            []string         `json:"errors"`
	Timestamp         time.Time        `json:"timestamp"`
}

// Failed builds a failure result with the given articleID and completed
// processing steps preserved for observability, per §8 scenario C
// (enriched_data==null, errors length >=1).
func Failed(articleID string, steps []string, took time.Duration, errs ...string) ProcessingResult {
	return ProcessingResult{
		ArticleID:         articleID,
		Status:            StatusFailed,
		ProcessingTimeSec: took.Seconds(),
		ProcessingSteps:   steps,
		EnrichedData:      nil,
		Errors:            errs,
		Timestamp:         time.Now(),
	}
}

// Completed builds a success result. A completed article may still carry
// partially empty enrichment fields — soft-failed steps never turn a
// completed article into a failed one (§4.8 error policy).
func Completed(articleID string, steps []string, took time.Duration, enriched FeedEntry) ProcessingResult {
	return ProcessingResult{
		ArticleID:         articleID,
		Status:            StatusCompleted,
		ProcessingTimeSec: took.Seconds(),
		ProcessingSteps:   steps,
		EnrichedData:      &enriched,
		Errors:            nil,
		Timestamp:         time.Now(),
	}
}

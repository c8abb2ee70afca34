// Package executor implements the Batch Executor (§4.10): given N
// articles, run the Per-Article Pipeline over all of them with bounded
// parallelism, in strictly ordered contiguous sub-batches of size
// maxWorkers, throttled between sub-batches.
package executor

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/masx-ai/flashpoint-pipeline/internal/domain/entity"
)

// interSubBatchDelay throttles resource pressure between sub-batches
// (§4.10).
const interSubBatchDelay = 100 * time.Millisecond

// Pipeline is the Per-Article Pipeline's call shape, as consumed here.
type Pipeline interface {
	Run(ctx context.Context, date string, input entity.FeedEntry) entity.ProcessingResult
}

// BatchResult is the Batch Executor's aggregated return value (§4.10).
type BatchResult struct {
	Status              string                    `json:"status"`
	TotalArticles       int                       `json:"total_articles"`
	Processed           int                       `json:"processed"`
	Successful          int                       `json:"successful"`
	Failed              int                       `json:"failed"`
	ProcessingTimeSec   float64                   `json:"processing_time_sec"`
	SubBatchesProcessed int                       `json:"sub_batches_processed"`
	Results             []entity.ProcessingResult `json:"results"`
}

// Executor runs a Pipeline over a batch of articles with bounded
// intra-sub-batch parallelism.
type Executor struct {
	pipeline   Pipeline
	maxWorkers int
}

// New builds an Executor. maxWorkers also doubles as the sub-batch size,
// per §4.10's "batch_size = max_workers" (the source's adaptive sizing
// heuristic is dead code and is not reproduced -- see DESIGN.md).
func New(pipeline Pipeline, maxWorkers int) *Executor {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &Executor{pipeline: pipeline, maxWorkers: maxWorkers}
}

// Run splits articles into contiguous sub-batches of maxWorkers, runs
// each sub-batch's pipelines concurrently (one failure never cancels
// siblings), joins results in submission order, and sleeps
// interSubBatchDelay between sub-batches. A panic escaping the executor
// itself (not a single pipeline -- Pipeline.Run already recovers its
// own panics) marks every unprocessed article failed.
func (e *Executor) Run(ctx context.Context, date string, articles []entity.FeedEntry) (result BatchResult) {
	start := time.Now()
	result.TotalArticles = len(articles)
	result.Status = "completed"

	defer func() {
		if r := recover(); r != nil {
			for i := len(result.Results); i < len(articles); i++ {
				result.Results = append(result.Results, entity.Failed(articles[i].ID, nil, 0, fmt.Sprintf("executor panic: %v", r)))
				result.Failed++
				result.Processed++
			}
			result.Status = "failed"
			result.ProcessingTimeSec = time.Since(start).Seconds()
		}
	}()

	for offset := 0; offset < len(articles); offset += e.maxWorkers {
		end := offset + e.maxWorkers
		if end > len(articles) {
			end = len(articles)
		}
		sub := articles[offset:end]

		results := e.runSubBatch(ctx, date, sub)
		for _, r := range results {
			result.Results = append(result.Results, r)
			result.Processed++
			if r.Status == entity.StatusCompleted {
				result.Successful++
			} else {
				result.Failed++
			}
		}
		result.SubBatchesProcessed++

		if end < len(articles) {
			time.Sleep(interSubBatchDelay)
		}
	}

	result.ProcessingTimeSec = time.Since(start).Seconds()
	return result
}

// runSubBatch launches one goroutine per article in sub, waits for all,
// and returns results in sub's original order.
func (e *Executor) runSubBatch(ctx context.Context, date string, sub []entity.FeedEntry) []entity.ProcessingResult {
	results := make([]entity.ProcessingResult, len(sub))

	g, gctx := errgroup.WithContext(ctx)
	for i, article := range sub {
		i, article := i, article
		g.Go(func() error {
			results[i] = e.pipeline.Run(gctx, date, article)
			return nil
		})
	}
	_ = g.Wait() // per-task failures are captured in results, never returned here

	return results
}

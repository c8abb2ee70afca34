// Package feed implements the Feed Processor (§4.11): the date-level
// orchestrator the control plane drives. It keeps an in-memory,
// warm-up-populated cache of feed entries per date, runs the
// Per-Article Pipeline over them (via the Batch Executor for batch
// mode, sequentially otherwise), and persists successes back through
// the Store Adapter.
package feed

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/masx-ai/flashpoint-pipeline/internal/domain/entity"
	"github.com/masx-ai/flashpoint-pipeline/internal/executor"
	"github.com/masx-ai/flashpoint-pipeline/internal/pkg/dateutil"
)

// Store is the Store Adapter's call shape, as consumed here.
type Store interface {
	Load(ctx context.Context, date, flashpointID, articleID string) ([]entity.FeedEntry, error)
	Upsert(ctx context.Context, date string, e entity.FeedEntry) error
	Clear(ctx context.Context, date string) error
}

// Pipeline is the Per-Article Pipeline's call shape, as consumed here.
type Pipeline interface {
	Run(ctx context.Context, date string, input entity.FeedEntry) entity.ProcessingResult
}

// ProxyWarmer is the Proxy Service's call shape needed to bracket a
// processing run (§4.11: "trigger Proxy Service warmup + start
// background refresh; after, stop refresh").
type ProxyWarmer interface {
	Get(ctx context.Context, forceRefresh bool) ([]string, error)
	StartBackgroundRefresh(ctx context.Context)
	StopBackgroundRefresh()
}

// WarmUpResult is warm_up(date)'s return value.
type WarmUpResult struct {
	Date         string
	TotalEntries int
}

// Stats is get_entries/feed-stats' summary shape (§6 GET /feed/stats).
type Stats struct {
	DatesCached   []string       `json:"dates_cached"`
	EntriesByDate map[string]int `json:"entries_by_date"`
}

// Processor is the Feed Processor (§4.11).
type Processor struct {
	store      Store
	pipeline   Pipeline
	executor   *executor.Executor
	proxy      ProxyWarmer
	logger     *slog.Logger
	maxWorkers int

	mu    sync.RWMutex
	cache map[string][]entity.FeedEntry // date -> entries
}

// New builds a Processor. proxy may be nil to skip the warmup bracket
// (e.g. in tests or when no proxy provider is configured).
func New(store Store, pipeline Pipeline, proxy ProxyWarmer, maxWorkers int, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		store:      store,
		pipeline:   pipeline,
		executor:   executor.New(pipeline, maxWorkers),
		proxy:      proxy,
		logger:     logger,
		maxWorkers: maxWorkers,
		cache:      make(map[string][]entity.FeedEntry),
	}
}

// WarmUp loads the date partition's rows into the in-memory cache and
// returns the count loaded (§4.11 warm_up).
func (p *Processor) WarmUp(ctx context.Context, date string) (WarmUpResult, error) {
	entries, err := p.store.Load(ctx, date, "", "")
	if err != nil {
		return WarmUpResult{}, err
	}

	p.mu.Lock()
	p.cache[date] = entries
	p.mu.Unlock()

	return WarmUpResult{Date: date, TotalEntries: len(entries)}, nil
}

// entriesFor returns the cached entries for date, loading them from the
// store first if the date hasn't been warmed yet.
func (p *Processor) entriesFor(ctx context.Context, date, flashpointID, articleID string) ([]entity.FeedEntry, error) {
	p.mu.RLock()
	cached, ok := p.cache[date]
	p.mu.RUnlock()
	if !ok {
		loaded, err := p.store.Load(ctx, date, "", "")
		if err != nil {
			return nil, err
		}
		p.mu.Lock()
		p.cache[date] = loaded
		p.mu.Unlock()
		cached = loaded
	}

	if flashpointID == "" && articleID == "" {
		return cached, nil
	}
	var filtered []entity.FeedEntry
	for _, e := range cached {
		if flashpointID != "" && e.FlashpointID != flashpointID {
			continue
		}
		if articleID != "" && e.ID != articleID {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered, nil
}

// ProcessAll loads (or reuses warmed) entries for date and processes
// every one, batch-wise or sequentially (§4.11 process_all). The Proxy
// Service is warmed and its background refresh started before
// processing and stopped after, per §4.11.
func (p *Processor) ProcessAll(ctx context.Context, date string, batchMode bool) (executor.BatchResult, error) {
	entries, err := p.entriesFor(ctx, date, "", "")
	if err != nil {
		return executor.BatchResult{}, err
	}
	return p.process(ctx, date, entries, batchMode), nil
}

// ProcessByFlashpoint processes every entry in date matching
// flashpointID, sequentially (§4.11 process_by_flashpoint).
func (p *Processor) ProcessByFlashpoint(ctx context.Context, date, flashpointID string) (executor.BatchResult, error) {
	entries, err := p.entriesFor(ctx, date, flashpointID, "")
	if err != nil {
		return executor.BatchResult{}, err
	}
	return p.process(ctx, date, entries, false), nil
}

// ProcessByArticle processes exactly one article (§4.11
// process_by_article).
func (p *Processor) ProcessByArticle(ctx context.Context, date, flashpointID, articleID string) (entity.ProcessingResult, error) {
	entries, err := p.entriesFor(ctx, date, flashpointID, articleID)
	if err != nil {
		return entity.ProcessingResult{}, err
	}
	if len(entries) == 0 {
		return entity.Failed(articleID, nil, 0, "article not found in warmed cache"), nil
	}
	result := p.pipeline.Run(ctx, date, entries[0])
	p.persist(ctx, date, result)
	return result, nil
}

// ProcessBatchArticles runs the sequential path over exactly the
// articleIDs given, in the order given (§6 POST /feed/process/batch_articles).
func (p *Processor) ProcessBatchArticles(ctx context.Context, date string, articleIDs []string) (executor.BatchResult, error) {
	p.mu.RLock()
	cached := p.cache[date]
	p.mu.RUnlock()

	byID := make(map[string]entity.FeedEntry, len(cached))
	for _, e := range cached {
		byID[e.ID] = e
	}

	entries := make([]entity.FeedEntry, 0, len(articleIDs))
	for _, id := range articleIDs {
		if e, ok := byID[id]; ok {
			entries = append(entries, e)
		}
	}
	return p.process(ctx, date, entries, false), nil
}

// process runs entries through the pipeline (batch or sequential),
// persisting each success, and bracketing the run with proxy warmup.
func (p *Processor) process(ctx context.Context, date string, entries []entity.FeedEntry, batchMode bool) executor.BatchResult {
	p.warmProxy(ctx)
	defer p.stopProxy()

	if batchMode {
		result := p.executor.Run(ctx, date, entries)
		for _, r := range result.Results {
			p.persist(ctx, date, r)
		}
		return result
	}

	start := time.Now()
	result := executor.BatchResult{Status: "completed", TotalArticles: len(entries)}
	for _, e := range entries {
		r := p.pipeline.Run(ctx, date, e)
		p.persist(ctx, date, r)
		result.Results = append(result.Results, r)
		result.Processed++
		if r.Status == entity.StatusCompleted {
			result.Successful++
		} else {
			result.Failed++
		}
	}
	result.SubBatchesProcessed = 1
	result.ProcessingTimeSec = time.Since(start).Seconds()
	return result
}

func (p *Processor) warmProxy(ctx context.Context) {
	if p.proxy == nil {
		return
	}
	if _, err := p.proxy.Get(ctx, false); err != nil {
		p.logger.Warn("proxy warmup failed", slog.Any("error", err))
	}
	p.proxy.StartBackgroundRefresh(ctx)
}

func (p *Processor) stopProxy() {
	if p.proxy == nil {
		return
	}
	p.proxy.StopBackgroundRefresh()
}

// persist upserts a successful article's enriched row; failures are
// logged, never fail the batch (§4.11 persistence contract).
func (p *Processor) persist(ctx context.Context, date string, r entity.ProcessingResult) {
	if r.Status != entity.StatusCompleted || r.EnrichedData == nil {
		return
	}
	if err := p.store.Upsert(ctx, date, *r.EnrichedData); err != nil {
		p.logger.Warn("failed to persist enriched entry", slog.String("article_id", r.ArticleID), slog.Any("error", err))
	}
}

// GetEntries returns the in-memory cached entries for date, per §4.11
// get_entries.
func (p *Processor) GetEntries(date string) []entity.FeedEntry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cache[date]
}

// Clear drops the in-memory cache for one date, or every date if date
// is empty (§4.11 clear / §6 DELETE /feed/clear[/<date>]). This is an
// in-memory-cache operation, distinct from the Store Adapter's Clear,
// which deletes rows -- the control plane's clear endpoints target the
// warmed cache per §4.11's operation list; dropping the backing rows is
// a separate, explicit storage operation the control plane does not
// expose.
func (p *Processor) Clear(date string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if date == "" {
		p.cache = make(map[string][]entity.FeedEntry)
		return
	}
	delete(p.cache, date)
}

// Stats summarizes the current in-memory cache (§6 GET /feed/stats).
func (p *Processor) Stats() Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	stats := Stats{EntriesByDate: make(map[string]int, len(p.cache))}
	for date, entries := range p.cache {
		stats.DatesCached = append(stats.DatesCached, date)
		stats.EntriesByDate[date] = len(entries)
	}
	return stats
}

// ValidateDate exposes dateutil's validation for handlers that need to
// reject a malformed date before touching the cache or store.
func ValidateDate(date string) error {
	_, err := dateutil.Parse(date)
	return err
}

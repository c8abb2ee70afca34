package metrics

import "time"

// RecordStageLatency records how long one pipeline stage took for one
// article (§4.8).
func RecordStageLatency(stage string, duration time.Duration) {
	StageLatency.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordArticleProcessed records a pipeline run's terminal status.
func RecordArticleProcessed(status string) {
	ArticlesProcessedTotal.WithLabelValues(status).Inc()
}

// RecordBatch records one batch executor run's aggregate outcome.
func RecordBatch(successful, failed int, took time.Duration) {
	if successful > 0 {
		BatchArticlesTotal.WithLabelValues("successful").Add(float64(successful))
	}
	if failed > 0 {
		BatchArticlesTotal.WithLabelValues("failed").Add(float64(failed))
	}
	BatchThroughput.Observe(took.Seconds())
}

// RecordSubBatch records one sub-batch's wall-clock duration.
func RecordSubBatch(took time.Duration) {
	BatchSubBatchDuration.Observe(took.Seconds())
}

// RecordProxyRefresh records a background proxy refresh attempt.
func RecordProxyRefresh(success bool, poolSize int) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	ProxyRefreshTotal.WithLabelValues(outcome).Inc()
	ProxyPoolSize.Set(float64(poolSize))
}

// RecordTranslationCache records a translation LRU cache lookup.
func RecordTranslationCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	TranslationCacheHitsTotal.WithLabelValues(result).Inc()
}

// RecordTranslationCall records one provider call's latency.
func RecordTranslationCall(provider string, duration time.Duration) {
	TranslationProviderDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordContentFetchSuccess records a successful content fetch.
func RecordContentFetchSuccess(duration time.Duration) {
	ContentFetchAttemptsTotal.WithLabelValues("success").Inc()
	ContentFetchDuration.Observe(duration.Seconds())
}

// RecordContentFetchFailed records a failed content fetch.
func RecordContentFetchFailed(duration time.Duration) {
	ContentFetchAttemptsTotal.WithLabelValues("failure").Inc()
	ContentFetchDuration.Observe(duration.Seconds())
}

// RecordContentFetchHeadlessFallback records a fallback to the headless
// render stage (§4.3.2).
func RecordContentFetchHeadlessFallback() {
	ContentFetchAttemptsTotal.WithLabelValues("headless_fallback").Inc()
}

// RecordImageSearchResults records how many candidate URLs a search
// produced.
func RecordImageSearchResults(count int) {
	ImageSearchResultsTotal.Observe(float64(count))
}

// RecordImageDownload records one image download attempt's outcome.
func RecordImageDownload(outcome string) {
	ImageDownloadTotal.WithLabelValues(outcome).Inc()
}

// RecordDBQuery records the duration of a database query operation.
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateDBConnectionStats updates database connection pool statistics.
func UpdateDBConnectionStats(active, idle int) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}

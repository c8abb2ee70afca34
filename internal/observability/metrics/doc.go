// Package metrics provides Prometheus metrics registry and recording
// utilities for the pipeline's domain-specific signals: batch
// throughput, per-stage latency, the proxy pool, the translation
// cache, and image discovery/download outcomes.
//
// HTTP-transport metrics (request count, duration, size) live in
// internal/handler/http instead, so the two packages never register a
// metric under the same name.
//
// All metrics are automatically registered with the Prometheus default
// registry and exposed via the /metrics endpoint.
//
// Example usage:
//
//	import "github.com/masx-ai/flashpoint-pipeline/internal/observability/metrics"
//
//	func (p *Pipeline) Run(...) {
//	    start := time.Now()
//	    // ... run a stage ...
//	    metrics.RecordStageLatency("entities_tagged", time.Since(start))
//	}
package metrics

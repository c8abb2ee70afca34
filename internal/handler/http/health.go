// Package http provides the control plane's HTTP handlers and middleware:
// health/readiness/stats reporting, the feed operations that drive the
// Feed Processor, authentication, and request-observability middleware.
package http

import (
	"context"
	"crypto/tls"
	"database/sql"
	"log"
	"net/http"
	"runtime"
	"time"

	"github.com/masx-ai/flashpoint-pipeline/internal/handler/http/respond"
)

// outboundPingURL is the well-known external endpoint the health check
// probes to confirm the process has working outbound connectivity --
// scraping, translation, and image search all depend on it.
const outboundPingURL = "https://1.1.1.1/"

// componentHealthy/componentUnhealthy/componentDisabled are the three
// states a single component check can report.
const (
	componentHealthy   = "healthy"
	componentUnhealthy = "unhealthy"
	componentDisabled  = "disabled"
)

// ComponentStatus is one entry in HealthResponse.Checks.
type ComponentStatus struct {
	Status  string `json:"status"`
	Details string `json:"details,omitempty"`
}

// OutboundPing is the result of probing a known external endpoint.
type OutboundPing struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// MemoryStats is a snapshot of the Go runtime's memory usage, reported
// alongside the component checks as an ambient health signal (no action
// is taken on the pressure level; it's informational for operators).
type MemoryStats struct {
	AllocMB      float64 `json:"alloc_mb"`
	SysMB        float64 `json:"sys_mb"`
	HeapObjects  uint64  `json:"heap_objects"`
	NumGoroutine int     `json:"num_goroutine"`
	NumGC        uint32  `json:"num_gc"`
	Pressure     string  `json:"pressure"`
}

// memoryPressure buckets heap-to-sys ratio the way the rest of the
// pipeline buckets system memory percent: low/moderate/high/critical at
// 70/80/90%.
func memoryPressure(allocMB, sysMB float64) string {
	if sysMB == 0 {
		return "low"
	}
	pct := allocMB / sysMB * 100
	switch {
	case pct > 90:
		return "critical"
	case pct > 80:
		return "high"
	case pct > 70:
		return "moderate"
	default:
		return "low"
	}
}

func readMemoryStats() MemoryStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	allocMB := float64(m.Alloc) / 1024 / 1024
	sysMB := float64(m.Sys) / 1024 / 1024

	return MemoryStats{
		AllocMB:      allocMB,
		SysMB:        sysMB,
		HeapObjects:  m.HeapObjects,
		NumGoroutine: runtime.NumGoroutine(),
		NumGC:        m.NumGC,
		Pressure:     memoryPressure(allocMB, sysMB),
	}
}

// HealthResponse is GET /health's body.
type HealthResponse struct {
	Overall      string                     `json:"overall"`
	Timestamp    string                     `json:"timestamp"`
	Checks       map[string]ComponentStatus `json:"checks"`
	OutboundPing OutboundPing               `json:"outbound_ping"`
	Memory       MemoryStats                `json:"memory"`
}

// HealthHandler reports the health of every pipeline component: the
// Batch Executor's thread pool, the database, the Content Extractor, the
// text cleaner, the Geotagger, and the Image Finder. A component with no
// live probe (thread_pool, scraper, text_cleaner, geotagger) is always
// reported healthy when its dependency was constructed and "disabled"
// when the operator turned it off; only the database and the outbound
// ping perform a real network check.
type HealthHandler struct {
	DB                 *sql.DB
	Version            string
	ScraperEnabled     bool
	CleanTextEnabled   bool
	GeotaggingEnabled  bool
	ImageSearchEnabled bool

	// pingClient is overridable in tests; defaults to a short-timeout
	// client lazily on first use.
	pingClient *http.Client
}

// ServeHTTP builds the component map, the outbound connectivity probe,
// and an overall verdict, and always answers 200 -- a degraded component
// is visible in the body, not via HTTP status, so monitoring can
// distinguish "service up, one stage impaired" from "service down".
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]ComponentStatus{
		"thread_pool":  {Status: componentHealthy},
		"database":     h.checkDatabase(ctx),
		"scraper":      h.toggleStatus(h.ScraperEnabled, true),
		"text_cleaner": h.toggleStatus(h.CleanTextEnabled, true),
		"geotagger":    h.toggleStatus(h.GeotaggingEnabled, true),
		"image_finder": h.toggleStatus(h.ImageSearchEnabled, false),
	}

	overall := componentHealthy
	for _, c := range checks {
		if c.Status == componentUnhealthy {
			overall = componentUnhealthy
		}
	}

	resp := HealthResponse{
		Overall:      overall,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		Checks:       checks,
		OutboundPing: h.pingOutbound(ctx),
		Memory:       readMemoryStats(),
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, http.StatusOK, resp)
}

// toggleStatus reports a component with no live probe: healthy when
// enabled (or when the component has no enable/disable toggle at all --
// defaultOn), disabled otherwise.
func (h *HealthHandler) toggleStatus(enabled, defaultOn bool) ComponentStatus {
	if defaultOn || enabled {
		return ComponentStatus{Status: componentHealthy}
	}
	return ComponentStatus{Status: componentDisabled}
}

// checkDatabase pings the database and reports its connection pool
// utilization.
func (h *HealthHandler) checkDatabase(ctx context.Context) ComponentStatus {
	if h.DB == nil {
		return ComponentStatus{Status: componentUnhealthy, Details: "not configured"}
	}
	if err := h.DB.PingContext(ctx); err != nil {
		return ComponentStatus{Status: componentUnhealthy, Details: err.Error()}
	}
	return ComponentStatus{Status: componentHealthy}
}

// pingOutbound probes a well-known external endpoint with a short
// timeout, recording "ok (<status>)" or "failed (<error>)" -- the same
// shape a Content Extractor or Translation Service failure would take, so
// operators can tell network-wide outages from a single upstream's
// failure.
func (h *HealthHandler) pingOutbound(ctx context.Context) OutboundPing {
	client := h.pingClient
	if client == nil {
		client = &http.Client{
			Timeout:   3 * time.Second,
			Transport: &http.Transport{TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12}},
		}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	status := "failed (request construction error)"
	req, err := http.NewRequestWithContext(pingCtx, http.MethodGet, outboundPingURL, nil)
	if err == nil {
		resp, reqErr := client.Do(req)
		if reqErr != nil {
			status = "failed (" + reqErr.Error() + ")"
		} else {
			_ = resp.Body.Close()
			status = "ok (" + resp.Status + ")"
		}
	}

	return OutboundPing{Status: status, Timestamp: time.Now().UTC().Format(time.RFC3339)}
}

// ReadyHandler answers GET /ready: always 200 once the process is
// serving requests at all -- readiness here means "accepting
// connections", not "database reachable"; a transient database outage
// is reported by /health, not by failing the liveness/readiness probes
// that an orchestrator uses to decide whether to keep routing traffic.
type ReadyHandler struct{}

func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// LiveHandler answers GET /live: a lightweight liveness probe, always
// 200 while the process is responsive.
type LiveHandler struct{}

func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("alive")); err != nil {
		log.Printf("live: failed to write response: %v", err)
	}
}

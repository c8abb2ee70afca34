package http

import (
	"net/http"

	"github.com/masx-ai/flashpoint-pipeline/internal/handler/http/respond"
)

// RootResponse is GET /'s body: a minimal, always-public status page
// naming the control plane's routes.
type RootResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Status    string            `json:"status"`
	Endpoints map[string]string `json:"endpoints"`
}

// RootHandler answers GET /, per §6 and the Flask ground truth it's
// distilled from.
type RootHandler struct {
	Version string
}

var rootEndpoints = map[string]string{
	"warmup":                 "/feed/warmup",
	"process":                "/feed/process",
	"process_flashpoint":     "/feed/process/flashpoint",
	"process_article":        "/feed/process/article",
	"process_batch_articles": "/feed/process/batch_articles",
	"entries":                "/feed/entries/<date>",
	"feed_stats":             "/feed/stats",
	"clear":                  "/feed/clear",
	"health":                 "/health",
	"ready":                  "/ready",
	"live":                   "/live",
	"stats":                  "/stats",
}

func (h *RootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	version := h.Version
	if version == "" {
		version = "1.0.0"
	}
	respond.JSON(w, http.StatusOK, RootResponse{
		Message:   "flashpoint news enrichment pipeline",
		Version:   version,
		Status:    "operational",
		Endpoints: rootEndpoints,
	})
}

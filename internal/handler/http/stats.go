package http

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/masx-ai/flashpoint-pipeline/internal/feed"
	"github.com/masx-ai/flashpoint-pipeline/internal/handler/http/respond"
)

// PipelineStats summarizes the Feed Processor's in-memory cache, per §6
// GET /stats' pipeline section.
type PipelineStats struct {
	DatesCached   []string       `json:"dates_cached"`
	EntriesByDate map[string]int `json:"entries_by_date"`
}

// ThreadPoolStats reports the Batch Executor's configured concurrency.
type ThreadPoolStats struct {
	MaxWorkers int `json:"max_workers"`
}

// DatabaseStats mirrors sql.DBStats' operationally relevant fields.
type DatabaseStats struct {
	OpenConnections int `json:"open_connections"`
	InUse           int `json:"in_use"`
	Idle            int `json:"idle"`
}

// StatsResponse is GET /stats' body.
type StatsResponse struct {
	Pipeline   PipelineStats   `json:"pipeline"`
	ThreadPool ThreadPoolStats `json:"thread_pool"`
	Database   DatabaseStats   `json:"database"`
	UptimeSec  float64         `json:"uptime"`
}

// StatsHandler serves GET /stats.
type StatsHandler struct {
	Feed       *feed.Processor
	DB         *sql.DB
	MaxWorkers int
	StartedAt  time.Time
}

func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	feedStats := h.Feed.Stats()

	var dbStats DatabaseStats
	if h.DB != nil {
		s := h.DB.Stats()
		dbStats = DatabaseStats{OpenConnections: s.OpenConnections, InUse: s.InUse, Idle: s.Idle}
	}

	uptime := 0.0
	if !h.StartedAt.IsZero() {
		uptime = time.Since(h.StartedAt).Seconds()
	}

	respond.JSON(w, http.StatusOK, StatsResponse{
		Pipeline: PipelineStats{
			DatesCached:   feedStats.DatesCached,
			EntriesByDate: feedStats.EntriesByDate,
		},
		ThreadPool: ThreadPoolStats{MaxWorkers: h.MaxWorkers},
		Database:   dbStats,
		UptimeSec:  uptime,
	})
}

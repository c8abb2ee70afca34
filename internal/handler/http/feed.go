package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/masx-ai/flashpoint-pipeline/internal/apperr"
	"github.com/masx-ai/flashpoint-pipeline/internal/domain/entity"
	"github.com/masx-ai/flashpoint-pipeline/internal/feed"
	"github.com/masx-ai/flashpoint-pipeline/internal/handler/http/respond"
	"github.com/masx-ai/flashpoint-pipeline/internal/pkg/dateutil"
)

// triggerMasxai is the special trigger value that makes a process
// endpoint return immediately and run in the background (§6).
const triggerMasxai = "masxai"

// FeedHandler exposes the Feed Processor's operations over the §6
// control-plane routes.
type FeedHandler struct {
	Feed   *feed.Processor
	Logger *slog.Logger

	// backgroundTimeout bounds an async (trigger=="masxai") run, so a
	// stuck batch doesn't leak a goroutine forever.
	backgroundTimeout time.Duration
}

func NewFeedHandler(proc *feed.Processor, logger *slog.Logger) *FeedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &FeedHandler{Feed: proc, Logger: logger, backgroundTimeout: 30 * time.Minute}
}

type warmupRequest struct {
	Date string `json:"date,omitempty"`
}

type warmupResponse struct {
	Status       string `json:"status"`
	Date         string `json:"date"`
	TotalEntries int    `json:"total_entries"`
	Message      string `json:"message"`
	Timestamp    string `json:"timestamp"`
}

// Warmup handles POST /feed/warmup.
func (h *FeedHandler) Warmup(w http.ResponseWriter, r *http.Request) {
	var req warmupRequest
	if !decodeOptionalBody(w, r, &req) {
		return
	}
	date := resolveDate(req.Date)
	if !validateDate(w, date) {
		return
	}

	result, err := h.Feed.WarmUp(r.Context(), date)
	if err != nil {
		respond.SafeErrorV2(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, warmupResponse{
		Status:       "ok",
		Date:         result.Date,
		TotalEntries: result.TotalEntries,
		Message:      "warmed up",
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	})
}

type processRequest struct {
	Date    string `json:"date,omitempty"`
	Trigger string `json:"trigger,omitempty"`
}

type processStartedResponse struct {
	Status       string `json:"status"`
	Date         string `json:"date"`
	TotalEntries int    `json:"total_entries"`
	Message      string `json:"message"`
}

// ProcessAll handles POST /feed/process.
func (h *FeedHandler) ProcessAll(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if !decodeOptionalBody(w, r, &req) {
		return
	}
	date := resolveDate(req.Date)
	if !validateDate(w, date) {
		return
	}

	if req.Trigger == triggerMasxai {
		h.runInBackground(date, func(ctx context.Context) (any, error) {
			return h.Feed.ProcessAll(ctx, date, true)
		})
		respond.JSON(w, http.StatusOK, processStartedResponse{
			Status: "started", Date: date, TotalEntries: 0, Message: "processing started in background",
		})
		return
	}

	result, err := h.Feed.ProcessAll(r.Context(), date, true)
	if err != nil {
		respond.SafeErrorV2(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, result)
}

type processFlashpointRequest struct {
	Date         string `json:"date,omitempty"`
	FlashpointID string `json:"flashpoint_id"`
	Trigger      string `json:"trigger,omitempty"`
}

// ProcessFlashpoint handles POST /feed/process/flashpoint.
func (h *FeedHandler) ProcessFlashpoint(w http.ResponseWriter, r *http.Request) {
	var req processFlashpointRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.FlashpointID == "" {
		respond.SafeErrorV2(w, apperr.Validationf("flashpoint_id is required"))
		return
	}
	date := resolveDate(req.Date)
	if !validateDate(w, date) {
		return
	}

	if req.Trigger == triggerMasxai {
		h.runInBackground(date, func(ctx context.Context) (any, error) {
			return h.Feed.ProcessByFlashpoint(ctx, date, req.FlashpointID)
		})
		respond.JSON(w, http.StatusOK, processStartedResponse{
			Status: "started", Date: date, TotalEntries: 0, Message: "processing started in background",
		})
		return
	}

	result, err := h.Feed.ProcessByFlashpoint(r.Context(), date, req.FlashpointID)
	if err != nil {
		respond.SafeErrorV2(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, result)
}

type processArticleRequest struct {
	Date         string `json:"date"`
	FlashpointID string `json:"flashpoint_id"`
	ArticleID    string `json:"article_id"`
	Trigger      string `json:"trigger,omitempty"`
}

// ProcessArticle handles POST /feed/process/article.
func (h *FeedHandler) ProcessArticle(w http.ResponseWriter, r *http.Request) {
	var req processArticleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Date == "" || req.FlashpointID == "" || req.ArticleID == "" {
		respond.SafeErrorV2(w, apperr.Validationf("date, flashpoint_id, and article_id are required"))
		return
	}
	if !validateDate(w, req.Date) {
		return
	}

	if req.Trigger == triggerMasxai {
		h.runInBackground(req.Date, func(ctx context.Context) (any, error) {
			return h.Feed.ProcessByArticle(ctx, req.Date, req.FlashpointID, req.ArticleID)
		})
		respond.JSON(w, http.StatusOK, processStartedResponse{
			Status: "started", Date: req.Date, TotalEntries: 0, Message: "processing started in background",
		})
		return
	}

	result, err := h.Feed.ProcessByArticle(r.Context(), req.Date, req.FlashpointID, req.ArticleID)
	if err != nil {
		respond.SafeErrorV2(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, result)
}

type processBatchArticlesRequest struct {
	Date        string   `json:"date"`
	ArticlesIDs []string `json:"articles_ids"`
	Trigger     string   `json:"trigger,omitempty"`
}

// ProcessBatchArticles handles POST /feed/process/batch_articles.
func (h *FeedHandler) ProcessBatchArticles(w http.ResponseWriter, r *http.Request) {
	var req processBatchArticlesRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Date == "" || len(req.ArticlesIDs) == 0 {
		respond.SafeErrorV2(w, apperr.Validationf("date and a non-empty articles_ids list are required"))
		return
	}
	if !validateDate(w, req.Date) {
		return
	}

	if req.Trigger == triggerMasxai {
		h.runInBackground(req.Date, func(ctx context.Context) (any, error) {
			return h.Feed.ProcessBatchArticles(ctx, req.Date, req.ArticlesIDs)
		})
		respond.JSON(w, http.StatusOK, processStartedResponse{
			Status: "started", Date: req.Date, TotalEntries: 0, Message: "processing started in background",
		})
		return
	}

	result, err := h.Feed.ProcessBatchArticles(r.Context(), req.Date, req.ArticlesIDs)
	if err != nil {
		respond.SafeErrorV2(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, result)
}

// Entries handles GET /feed/entries/<date>.
func (h *FeedHandler) Entries(w http.ResponseWriter, r *http.Request) {
	date := strings.TrimPrefix(r.URL.Path, "/feed/entries/")
	if !validateDate(w, date) {
		return
	}
	entries := h.Feed.GetEntries(date)
	if entries == nil {
		entries = []entity.FeedEntry{}
	}
	respond.JSON(w, http.StatusOK, entries)
}

// Stats handles GET /feed/stats.
func (h *FeedHandler) Stats(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, h.Feed.Stats())
}

// Clear handles DELETE /feed/clear and DELETE /feed/clear/<date>.
func (h *FeedHandler) Clear(w http.ResponseWriter, r *http.Request) {
	date := strings.TrimPrefix(r.URL.Path, "/feed/clear/")
	if date == r.URL.Path || date == "" {
		h.Feed.Clear("")
		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "cleared all dates"})
		return
	}
	if !validateDate(w, date) {
		return
	}
	h.Feed.Clear(date)
	respond.JSON(w, http.StatusOK, map[string]string{"status": "ok", "date": date, "message": "cleared"})
}

// runInBackground launches fn on a detached context bounded by
// backgroundTimeout, logging its outcome -- the HTTP response has
// already been sent by the time it completes.
func (h *FeedHandler) runInBackground(date string, fn func(ctx context.Context) (any, error)) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.backgroundTimeout)
		defer cancel()
		if _, err := fn(ctx); err != nil {
			h.Logger.Error("background processing failed", slog.String("date", date), slog.Any("error", err))
		}
	}()
}

func resolveDate(date string) string {
	if date == "" {
		return dateutil.Today()
	}
	return date
}

func validateDate(w http.ResponseWriter, date string) bool {
	if err := feed.ValidateDate(date); err != nil {
		respond.SafeErrorV2(w, err)
		return false
	}
	return true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil {
		respond.SafeErrorV2(w, apperr.Validationf("request body is required"))
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respond.SafeErrorV2(w, apperr.Validationf("invalid JSON body: %v", err))
		return false
	}
	return true
}

// decodeOptionalBody decodes an optional JSON body -- an empty body is
// valid (every field the caller declares is optional).
func decodeOptionalBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respond.SafeErrorV2(w, apperr.Validationf("invalid JSON body: %v", err))
		return false
	}
	return true
}

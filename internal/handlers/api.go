package handlers

import (
	"bytes"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"sales-dashboard/internal/charts"
	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
)

const cacheControl = "public, max-age=300"

type APIHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewAPIHandlers(analytics *services.Analytics, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

type summaryResponse struct {
	Selection     models.Selection      `json:"selection"`
	Metrics       models.Metrics        `json:"metrics"`
	ByProductLine []models.AggregateRow `json:"sales_by_product_line"`
	ByHour        []models.AggregateRow `json:"sales_by_hour"`
}

type transactionsResponse struct {
	Count int                  `json:"count"`
	Rows  []models.Transaction `json:"rows"`
}

func (h *APIHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
}

func (h *APIHandlers) snapshot(w http.ResponseWriter, r *http.Request) (models.Snapshot, bool) {
	sel, err := selectionFromQuery(r.URL.Query(), h.analytics.Options())
	if err != nil {
		h.fail(w, r, err)
		return models.Snapshot{}, false
	}
	return h.analytics.Dashboard(sel), true
}

func (h *APIHandlers) HandleFilters(w http.ResponseWriter, r *http.Request) {
	headers := map[string]string{
		"Cache-Control": cacheControl,
	}

	errors.WriteSuccessWithHeaders(w, h.analytics.Options(), headers)
}

func (h *APIHandlers) HandleSummary(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	errors.WriteSuccess(w, summaryResponse{
		Selection:     snap.Selection,
		Metrics:       snap.Metrics,
		ByProductLine: snap.ByProductLine,
		ByHour:        snap.ByHour,
	})
}

func (h *APIHandlers) HandleTransactions(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	errors.WriteSuccess(w, transactionsResponse{
		Count: len(snap.Rows),
		Rows:  snap.Rows,
	})
}

func (h *APIHandlers) HandleChart(w http.ResponseWriter, r *http.Request) {
	cfg, ok := h.chart(w, r, r.PathValue("name"))
	if !ok {
		return
	}

	errors.WriteSuccess(w, cfg)
}

// HandleChartSVG serves /charts/{name}.svg for the query selection.
func (h *APIHandlers) HandleChartSVG(w http.ResponseWriter, r *http.Request) {
	file := r.PathValue("file")
	name, found := strings.CutSuffix(file, ".svg")
	if !found {
		h.fail(w, r, errors.NotFound("unknown chart "+file))
		return
	}

	cfg, ok := h.chart(w, r, name)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := charts.RenderSVG(cfg, &buf); err != nil {
		h.fail(w, r, errors.InternalWrap(err, "failed to render chart"))
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", cacheControl)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Warn("write chart", "chart", name, "error", err)
	}
}

// chart builds the named chart for the query selection.
func (h *APIHandlers) chart(w http.ResponseWriter, r *http.Request, name string) (charts.ChartConfig, bool) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return charts.ChartConfig{}, false
	}

	cfg, ok := charts.Build(name, snap)
	if !ok {
		h.fail(w, r, errors.NotFound("unknown chart "+name))
		return charts.ChartConfig{}, false
	}
	return cfg, true
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {

	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {

	stats := h.analytics.Stats()

	errors.WriteSuccess(w, stats)
}

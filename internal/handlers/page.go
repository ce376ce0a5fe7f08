package handlers

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"time"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/ui/templates"
)

const renderTimeout = 10 * time.Second

type PageHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewPageHandlers(analytics *services.Analytics, logger *slog.Logger) *PageHandlers {
	return &PageHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

// HandleDashboard renders the full page for the selection in the query
// string. The page is rendered into memory first so a failure still gets a
// clean error response.
func (h *PageHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	sel, err := selectionFromQuery(r.URL.Query(), h.analytics.Options())
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(ctx))
		return
	}

	ctx, span := observability.StartSpan(ctx, "render dashboard")
	var buf bytes.Buffer
	err = templates.Dashboard(h.analytics.Dashboard(sel)).Render(ctx, &buf)
	span.End(err)
	h.logger.Debug("span finished", "span", span)
	if err != nil {
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "failed to render dashboard"), observability.GetRequestID(ctx))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", cacheControl)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("write dashboard", "error", err)
	}
}

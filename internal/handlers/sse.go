package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/ui/templates"
)

type SSEHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

func renderComponent(ctx context.Context, c templ.Component) (string, error) {
	var buf strings.Builder
	err := c.Render(ctx, &buf)
	return buf.String(), err
}

// fragments are patched in page order.
func fragments(snap models.Snapshot) []templ.Component {
	return []templ.Component{
		templates.KPIs(snap.Metrics),
		templates.Charts(snap),
		templates.Table(snap.Rows),
	}
}

// HandleDashboard recomputes the dashboard for the selection carried in the
// datastar signals and patches the KPI, chart and table fragments.
func (h *SSEHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	sel, err := selectionFromSignals(r, h.analytics.Options())
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	ctx, span := observability.StartSpan(r.Context(), "patch dashboard")
	defer func() { h.logger.Debug("span finished", "span", span) }()

	// Fragments are rendered before the stream opens so a render failure
	// can still be answered with a JSON error.
	snap := h.analytics.Dashboard(sel)
	var patches []string
	for _, c := range fragments(snap) {
		html, err := renderComponent(ctx, c)
		if err != nil {
			span.End(err)
			errors.WriteError(w, h.logger, errors.InternalWrap(err, "failed to render dashboard"), observability.GetRequestID(ctx))
			return
		}
		patches = append(patches, html)
	}
	span.SetTag("fragments", strconv.Itoa(len(patches)))

	sse := datastar.NewSSE(w, r)
	for _, html := range patches {
		if err := sse.PatchElements(html); err != nil {
			span.End(err)
			h.logger.Warn("patch dashboard fragment", "error", err)
			return
		}
	}

	signals, err := json.Marshal(templates.SignalsFor(sel))
	if err != nil {
		h.logger.Error("marshal selection signals", "error", err)
		return
	}
	if err := sse.PatchSignals(signals); err != nil {
		span.End(err)
		h.logger.Warn("patch selection signals", "error", err)
		return
	}
	span.End(nil)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

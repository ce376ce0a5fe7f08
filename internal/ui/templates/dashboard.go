package templates

import (
	"context"
	"encoding/json"
	"io"
	"strconv"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"

	"sales-dashboard/internal/charts"
	"sales-dashboard/internal/models"
)

//go:generate templ generate

// Element ids patched by the SSE endpoint.
const (
	KPIsID   = "kpis"
	ChartsID = "charts"
	TableID  = "transactions"
)

const (
	pageTitle    = "Sales Dashboard"
	emptyMessage = "No data for the current filters"
)

// Signals is the client-side selection state. Field names are the camelCase
// forms of the sidebar's data-bind attributes.
type Signals struct {
	Cities        []string `json:"cities"`
	CustomerTypes []string `json:"customerTypes"`
	Genders       []string `json:"genders"`
}

func SignalsFor(sel models.Selection) Signals {
	return Signals{
		Cities:        nonNil(sel.Cities),
		CustomerTypes: nonNil(sel.CustomerTypes),
		Genders:       nonNil(sel.Genders),
	}
}

func signalsJSON(sel models.Selection) (string, error) {
	b, err := json.Marshal(SignalsFor(sel))
	return string(b), err
}

// dashboardCharts lists the charts in page order: hourly left, products right.
func dashboardCharts(snap models.Snapshot) []charts.ChartConfig {
	return []charts.ChartConfig{
		charts.HourlyChart(snap.ByHour),
		charts.ProductChart(snap.ByProductLine),
	}
}

// chartSVG inlines the rendered chart document.
func chartSVG(cfg charts.ChartConfig) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return charts.RenderSVG(cfg, w)
	})
}

func selectSize(options []string) string {
	return strconv.Itoa(max(len(options), 2))
}

func rowCount(rows []models.Transaction) string {
	return humanize.Comma(int64(len(rows)))
}

var tableHeaders = []string{
	"Invoice ID", "Branch", "City", "Customer type", "Gender", "Product line",
	"Unit price", "Quantity", "Tax 5%", "Total", "Date", "Time", "Payment",
	"cogs", "gross margin percentage", "gross income", "Rating", "hour",
}

func tableCells(tx models.Transaction) []string {
	date := ""
	if !tx.Date.IsZero() {
		date = tx.Date.Format("2006-01-02")
	}
	return []string{
		tx.InvoiceID,
		tx.Branch,
		tx.City,
		tx.CustomerType,
		tx.Gender,
		tx.ProductLine,
		money(tx.UnitPrice),
		strconv.Itoa(tx.Quantity),
		money(tx.Tax),
		tx.Total.StringFixed(4),
		date,
		tx.Time,
		tx.Payment,
		money(tx.COGS),
		strconv.FormatFloat(tx.GrossMarginPct, 'f', -1, 64),
		money(tx.GrossIncome),
		strconv.FormatFloat(tx.Rating, 'f', 1, 64),
		strconv.Itoa(tx.Hour),
	}
}

func money(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

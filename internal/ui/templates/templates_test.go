package templates

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/shopspring/decimal"

	"sales-dashboard/internal/models"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var sb strings.Builder
	if err := c.Render(context.Background(), &sb); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return sb.String()
}

func testSnapshot() models.Snapshot {
	opts := models.FilterOptions{
		Cities:        []string{"Yangon", "Naypyitaw", "Mandalay"},
		CustomerTypes: []string{"Member", "Normal"},
		Genders:       []string{"Female", "Male"},
	}
	return models.Snapshot{
		Selection: models.Selection{
			Cities:        []string{"Yangon"},
			CustomerTypes: []string{"Member", "Normal"},
			Genders:       []string{"Female", "Male"},
		},
		Options: opts,
		Metrics: models.Metrics{
			TotalSales:    12345,
			AverageRating: 7.3,
			AverageSale:   368.87,
			Stars:         "⭐⭐⭐⭐⭐⭐⭐",
			Transactions:  1,
		},
		ByProductLine: []models.AggregateRow{{Key: "Health & beauty", Revenue: decimal.RequireFromString("548.97")}},
		ByHour:        []models.AggregateRow{{Key: "13", Revenue: decimal.RequireFromString("548.97")}},
		Rows: []models.Transaction{{
			InvoiceID:    "750-67-8428",
			City:         "Yangon",
			CustomerType: "Member",
			Gender:       "Female",
			ProductLine:  "Health & beauty",
			Quantity:     7,
			Total:        decimal.RequireFromString("548.9715"),
			Date:         time.Date(2019, 1, 5, 0, 0, 0, 0, time.UTC),
			Time:         "13:08:00",
			Rating:       9.1,
			Hour:         13,
		}},
	}
}

func TestFormatting(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{FormatSales(12345), "US $ 12,345"},
		{FormatSales(0), "US $ 0"},
		{FormatAmount(368.87), "US $ 368.87"},
		{FormatAmount(1234.5), "US $ 1,234.50"},
		{formatRating(8, "⭐⭐⭐⭐⭐⭐⭐⭐"), "8.0 ⭐⭐⭐⭐⭐⭐⭐⭐"},
		{formatRating(0, ""), "0.0"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestDashboard(t *testing.T) {
	html := render(t, Dashboard(testSnapshot()))

	for _, want := range []string{
		"<title>Sales Dashboard</title>",
		`id="kpis"`,
		`id="charts"`,
		`id="transactions"`,
		"US $ 12,345",
		"US $ 368.87",
		"7.3 ⭐⭐⭐⭐⭐⭐⭐",
		"<svg",
		"Health &amp; beauty",
		"750-67-8428",
		"548.9715",
		"2019-01-05",
		`data-bind-cities`,
		`@get('/sse/dashboard')`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q", want)
		}
	}

	hourly := strings.Index(html, `data-chart="hourly"`)
	products := strings.Index(html, `data-chart="products"`)
	if hourly < 0 || products < 0 || hourly > products {
		t.Error("hourly chart should come before the product chart")
	}
}

func TestSidebar_SelectedOptions(t *testing.T) {
	snap := testSnapshot()
	html := render(t, Sidebar(snap.Options, snap.Selection))

	if !strings.Contains(html, `<option value="Yangon" selected>`) {
		t.Error("Yangon should be selected")
	}
	if !strings.Contains(html, `<option value="Mandalay">`) {
		t.Error("Mandalay should be listed but not selected")
	}
	if strings.Count(html, `type="hidden"`) != 3 {
		t.Error("each filter needs a blank hidden input")
	}
}

func TestKPIs_Empty(t *testing.T) {
	html := render(t, KPIs(models.Metrics{Empty: true}))

	if !strings.Contains(html, "No data for the current filters") {
		t.Error("empty metrics should show the notice")
	}
	if !strings.Contains(html, "US $ 0") {
		t.Error("empty metrics should show zero sales")
	}
}

func TestCharts_EmptyPlaceholders(t *testing.T) {
	html := render(t, Charts(models.Snapshot{}))

	if strings.Count(html, "No data for the current filters") != 2 {
		t.Error("both charts should render the placeholder")
	}
}

func TestTable_EscapesCells(t *testing.T) {
	html := render(t, Table([]models.Transaction{{City: "<b>Yangon</b>"}}))

	if strings.Contains(html, "<b>Yangon</b>") {
		t.Error("cell text must be escaped")
	}
	if !strings.Contains(html, "1 transactions") {
		t.Error("row count missing")
	}
}

func TestSignalsFor(t *testing.T) {
	s := SignalsFor(models.Selection{Cities: []string{"Yangon"}})
	if s.CustomerTypes == nil || len(s.CustomerTypes) != 0 {
		t.Errorf("nil sets should become empty arrays, got %#v", s.CustomerTypes)
	}
}

func TestTable_HourColumn(t *testing.T) {
	html := render(t, Table(testSnapshot().Rows))

	if !strings.Contains(html, "<th>Rating</th><th>hour</th></tr>") {
		t.Error("hour should be the last header")
	}
	if !strings.Contains(html, "<td>9.1</td><td>13</td></tr>") {
		t.Error("row should end with its hour")
	}
}

func TestCharts_RenderError(t *testing.T) {
	snap := models.Snapshot{
		ByHour: []models.AggregateRow{{Key: "noon", Revenue: decimal.NewFromInt(1)}},
	}

	var sb strings.Builder
	if err := Charts(snap).Render(context.Background(), &sb); err == nil {
		t.Error("a non-numeric hour should fail the render")
	}
}

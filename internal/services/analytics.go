package services

import (
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"sales-dashboard/internal/dataset"
	"sales-dashboard/internal/models"
)

const StarGlyph = "⭐"

// View is a filtered subset of the table, held as row indices in table
// order.
type View struct {
	table   *dataset.Table
	indices []int
}

func (v View) Len() int { return len(v.indices) }

func (v View) Row(i int) models.Transaction { return v.table.Row(v.indices[i]) }

// Indices returns the table positions of the rows in the view.
func (v View) Indices() []int { return slices.Clone(v.indices) }

func (v View) Rows() []models.Transaction {
	rows := make([]models.Transaction, len(v.indices))
	for i, idx := range v.indices {
		rows[i] = v.table.Row(idx)
	}
	return rows
}

type Analytics struct {
	table  *dataset.Table
	logger *slog.Logger
}

func NewAnalytics(table *dataset.Table, logger *slog.Logger) *Analytics {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analytics{
		table:  table,
		logger: logger,
	}
}

func (a *Analytics) Options() models.FilterOptions {
	return a.table.Options()
}

// Filter returns every row whose city, customer type and gender are all in
// the corresponding selected set.
func (a *Analytics) Filter(sel models.Selection) View {
	cities := toSet(sel.Cities)
	customerTypes := toSet(sel.CustomerTypes)
	genders := toSet(sel.Genders)

	indices := make([]int, 0, a.table.Len())
	if len(cities) == 0 || len(customerTypes) == 0 || len(genders) == 0 {
		return View{table: a.table, indices: indices}
	}

	for i := 0; i < a.table.Len(); i++ {
		tx := a.table.Row(i)
		if cities[tx.City] && customerTypes[tx.CustomerType] && genders[tx.Gender] {
			indices = append(indices, i)
		}
	}
	return View{table: a.table, indices: indices}
}

// Dashboard runs the whole recomputation for one selection.
func (a *Analytics) Dashboard(sel models.Selection) models.Snapshot {
	view := a.Filter(sel)

	a.logger.Debug("dashboard recomputed",
		"cities", len(sel.Cities),
		"customer_types", len(sel.CustomerTypes),
		"genders", len(sel.Genders),
		"rows", view.Len(),
	)

	return models.Snapshot{
		Selection:     sel,
		Options:       a.table.Options(),
		Metrics:       ComputeMetrics(view),
		ByProductLine: SalesByProductLine(view),
		ByHour:        SalesByHour(view),
		Rows:          view.Rows(),
	}
}

// ComputeMetrics summarizes a view. Means over an empty view are reported as
// zero and Empty is set.
func ComputeMetrics(view View) models.Metrics {
	n := view.Len()
	if n == 0 {
		return models.Metrics{Empty: true}
	}

	total := decimal.Zero
	var ratingSum float64
	for i := 0; i < n; i++ {
		tx := view.Row(i)
		total = total.Add(tx.Total)
		ratingSum += tx.Rating
	}

	// Halves round to the even neighbour in both means and the star count.
	avgRating := math.RoundToEven(ratingSum/float64(n)*10) / 10
	avgSale, _ := total.Div(decimal.NewFromInt(int64(n))).RoundBank(2).Float64()

	return models.Metrics{
		TotalSales:    total.IntPart(),
		AverageRating: avgRating,
		AverageSale:   avgSale,
		Stars:         StarRating(avgRating),
		Transactions:  n,
	}
}

func StarRating(avg float64) string {
	n := int(math.RoundToEven(avg))
	if n <= 0 {
		return ""
	}
	return strings.Repeat(StarGlyph, n)
}

// SalesByProductLine sums revenue per product line, smallest first. Equal
// sums keep the order in which the product lines first appear.
func SalesByProductLine(view View) []models.AggregateRow {
	rows := groupRevenue(view, func(tx models.Transaction) string { return tx.ProductLine })
	slices.SortStableFunc(rows, func(a, b models.AggregateRow) int {
		return a.Revenue.Cmp(b.Revenue)
	})
	return rows
}

// SalesByHour sums revenue per hour of day in ascending hour order. Hours
// without sales are absent.
func SalesByHour(view View) []models.AggregateRow {
	var sums [24]decimal.Decimal
	var present [24]bool
	for i := 0; i < view.Len(); i++ {
		tx := view.Row(i)
		if tx.Hour < 0 || tx.Hour > 23 {
			continue
		}
		sums[tx.Hour] = sums[tx.Hour].Add(tx.Total)
		present[tx.Hour] = true
	}

	rows := []models.AggregateRow{}
	for h := range 24 {
		if present[h] {
			rows = append(rows, models.AggregateRow{Key: strconv.Itoa(h), Revenue: sums[h]})
		}
	}
	return rows
}

func groupRevenue(view View, key func(models.Transaction) string) []models.AggregateRow {
	positions := make(map[string]int)
	rows := []models.AggregateRow{}
	for i := 0; i < view.Len(); i++ {
		tx := view.Row(i)
		k := key(tx)
		pos, ok := positions[k]
		if !ok {
			pos = len(rows)
			positions[k] = pos
			rows = append(rows, models.AggregateRow{Key: k, Revenue: decimal.Zero})
		}
		rows[pos].Revenue = rows[pos].Revenue.Add(tx.Total)
	}
	return rows
}

// Stats reports load information for the admin endpoint.
func (a *Analytics) Stats() map[string]any {
	opts := a.table.Options()
	return map[string]any{
		"record_count":   a.table.Len(),
		"source":         a.table.Source(),
		"loaded_at":      a.table.LoadedAt(),
		"cities":         len(opts.Cities),
		"customer_types": len(opts.CustomerTypes),
		"genders":        len(opts.Genders),
	}
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

package charts

import (
	"strconv"

	"sales-dashboard/internal/models"
)

const (
	OrientationHorizontal = "h"
	OrientationVertical   = "v"

	ProductAccent = "#0083B8"
	HourlyAccent  = "#008333"

	ProductChartName = "products"
	HourlyChartName  = "hourly"
)

// ChartConfig is the render-ready description of one bar chart. Points are
// in display order: bottom to top for horizontal charts, left to right for
// vertical ones.
type ChartConfig struct {
	Name         string       `json:"name"`
	Title        string       `json:"title"`
	Orientation  string       `json:"orientation"`
	CategoryAxis string       `json:"categoryAxis"`
	ValueAxis    string       `json:"valueAxis"`
	Color        string       `json:"color"`
	LinearTicks  bool         `json:"linearTicks"`
	ShowGrid     bool         `json:"showGrid"`
	Points       []ChartPoint `json:"points"`
}

type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

func (c ChartConfig) IsEmpty() bool { return len(c.Points) == 0 }

// ProductChart charts revenue per product line as horizontal bars.
func ProductChart(rows []models.AggregateRow) ChartConfig {
	return ChartConfig{
		Name:         ProductChartName,
		Title:        "Sales by Product Line",
		Orientation:  OrientationHorizontal,
		CategoryAxis: "Product line",
		ValueAxis:    "Total",
		Color:        ProductAccent,
		Points:       points(rows),
	}
}

// HourlyChart charts revenue per hour as vertical bars on a linear hour
// axis.
func HourlyChart(rows []models.AggregateRow) ChartConfig {
	return ChartConfig{
		Name:         HourlyChartName,
		Title:        "Sales by Hour",
		Orientation:  OrientationVertical,
		CategoryAxis: "hour",
		ValueAxis:    "Total",
		Color:        HourlyAccent,
		LinearTicks:  true,
		Points:       points(rows),
	}
}

// Build returns the named chart for a snapshot.
func Build(name string, snap models.Snapshot) (ChartConfig, bool) {
	switch name {
	case ProductChartName:
		return ProductChart(snap.ByProductLine), true
	case HourlyChartName:
		return HourlyChart(snap.ByHour), true
	default:
		return ChartConfig{}, false
	}
}

func points(rows []models.AggregateRow) []ChartPoint {
	out := make([]ChartPoint, 0, len(rows))
	for _, r := range rows {
		v, _ := r.Revenue.Round(2).Float64()
		out = append(out, ChartPoint{Label: r.Key, Value: v})
	}
	return out
}

// hourOf parses an hourly label back to its numeric position.
func hourOf(label string) (float64, bool) {
	h, err := strconv.Atoi(label)
	if err != nil {
		return 0, false
	}
	return float64(h), true
}

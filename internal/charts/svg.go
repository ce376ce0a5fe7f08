package charts

import (
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	chartWidth  = 640
	chartHeight = 420

	// Fraction of one category slot covered by a bar.
	barFill = 0.7
)

// RenderSVG draws cfg as an SVG document. A chart without points renders a
// placeholder instead of an error so an empty selection still has something
// to show.
func RenderSVG(cfg ChartConfig, w io.Writer) error {
	if cfg.IsEmpty() {
		_, err := io.WriteString(w, placeholderSVG(cfg.Title))
		return err
	}

	ch, err := buildChart(cfg)
	if err != nil {
		return err
	}
	if err := ch.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("render %s chart: %w", cfg.Name, err)
	}
	return nil
}

func buildChart(cfg ChartConfig) (chart.Chart, error) {
	color := drawing.ColorFromHex(strings.TrimPrefix(cfg.Color, "#"))
	series := barSeries{
		name:       cfg.Title,
		horizontal: cfg.Orientation == OrientationHorizontal,
		style: chart.Style{
			FillColor:   color,
			StrokeColor: color,
			StrokeWidth: 1,
		},
	}

	maxValue := 0.0
	for i, p := range cfg.Points {
		pos := float64(i)
		if cfg.LinearTicks {
			h, ok := hourOf(p.Label)
			if !ok {
				return chart.Chart{}, fmt.Errorf("chart %s: label %q is not numeric", cfg.Name, p.Label)
			}
			pos = h
		}
		series.positions = append(series.positions, pos)
		series.values = append(series.values, p.Value)
		maxValue = max(maxValue, p.Value)
	}
	if maxValue <= 0 {
		maxValue = 1
	}

	valueRange := &chart.ContinuousRange{Min: 0, Max: maxValue * 1.05}
	categoryRange, categoryTicks := categoryAxis(cfg, series.positions)

	ch := chart.Chart{
		Title:  cfg.Title,
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			FillColor: drawing.ColorTransparent,
			Padding:   chart.Box{Top: 48, Left: 16, Right: 24, Bottom: 16},
		},
		Canvas: chart.Style{FillColor: drawing.ColorTransparent},
		Series: []chart.Series{series},
	}

	if series.horizontal {
		ch.XAxis = chart.XAxis{Name: cfg.ValueAxis, Range: valueRange, ValueFormatter: formatValue}
		ch.YAxis = chart.YAxis{Name: cfg.CategoryAxis, Range: categoryRange, Ticks: categoryTicks}
	} else {
		ch.XAxis = chart.XAxis{Name: cfg.CategoryAxis, Range: categoryRange, Ticks: categoryTicks}
		ch.YAxis = chart.YAxis{Name: cfg.ValueAxis, Range: valueRange, ValueFormatter: formatValue}
	}

	return ch, nil
}

// categoryAxis spans every bar with half a slot of margin. Linear axes get a
// tick for every integer between the first and last position.
func categoryAxis(cfg ChartConfig, positions []float64) (*chart.ContinuousRange, []chart.Tick) {
	lo, hi := positions[0], positions[len(positions)-1]
	for _, p := range positions {
		lo, hi = min(lo, p), max(hi, p)
	}

	var ticks []chart.Tick
	if cfg.LinearTicks {
		for v := int(lo); v <= int(hi); v++ {
			ticks = append(ticks, chart.Tick{Value: float64(v), Label: strconv.Itoa(v)})
		}
	} else {
		for i, p := range cfg.Points {
			ticks = append(ticks, chart.Tick{Value: positions[i], Label: p.Label})
		}
	}

	// go-chart takes the axis range from the outermost ticks, so the half
	// slot margins carry blank ticks. A single bar still gets a range of one.
	lo, hi = lo-0.5, hi+0.5
	ticks = append([]chart.Tick{{Value: lo}}, ticks...)
	ticks = append(ticks, chart.Tick{Value: hi})

	return &chart.ContinuousRange{Min: lo, Max: hi}, ticks
}

func formatValue(v any) string {
	if f, ok := v.(float64); ok {
		return humanize.Comma(int64(f))
	}
	return ""
}

func placeholderSVG(title string) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+
		`<text x="50%%" y="32" text-anchor="middle" font-family="sans-serif" font-size="16" font-weight="bold">%s</text>`+
		`<text x="50%%" y="50%%" text-anchor="middle" font-family="sans-serif" font-size="14" fill="#888">No data for the current filters</text>`+
		`</svg>`, chartWidth, chartHeight, chartWidth, chartHeight, html.EscapeString(title))
}

// barSeries draws one bar per point, along either axis. go-chart's own
// BarChart only draws vertical bars.
type barSeries struct {
	name       string
	positions  []float64
	values     []float64
	horizontal bool
	style      chart.Style
}

var (
	_ chart.Series         = barSeries{}
	_ chart.ValuesProvider = barSeries{}
)

func (b barSeries) GetName() string { return b.name }

func (b barSeries) GetStyle() chart.Style { return b.style }

func (b barSeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }

func (b barSeries) Len() int { return len(b.values) }

func (b barSeries) GetValues(i int) (float64, float64) {
	if b.horizontal {
		return b.values[i], b.positions[i]
	}
	return b.positions[i], b.values[i]
}

func (b barSeries) Validate() error {
	if len(b.positions) != len(b.values) {
		return fmt.Errorf("bar series %q: %d positions for %d values", b.name, len(b.positions), len(b.values))
	}
	return nil
}

func (b barSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	style := b.style.InheritFrom(defaults)
	half := barFill / 2

	for i, pos := range b.positions {
		var box chart.Box
		if b.horizontal {
			box = chart.Box{
				Top:    canvasBox.Bottom - yrange.Translate(pos+half),
				Bottom: canvasBox.Bottom - yrange.Translate(pos-half),
				Left:   canvasBox.Left + xrange.Translate(0),
				Right:  canvasBox.Left + xrange.Translate(b.values[i]),
			}
		} else {
			box = chart.Box{
				Top:    canvasBox.Bottom - yrange.Translate(b.values[i]),
				Bottom: canvasBox.Bottom - yrange.Translate(0),
				Left:   canvasBox.Left + xrange.Translate(pos-half),
				Right:  canvasBox.Left + xrange.Translate(pos+half),
			}
		}
		chart.Draw.Box(r, box, style)
	}
}

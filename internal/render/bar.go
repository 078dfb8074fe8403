package render

import (
	"errors"
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrEmptyChart is returned when there is nothing to plot. Callers skip the chart.
var ErrEmptyChart = errors.New("nothing to plot")

// ChartOptions sizes the PNG charts.
type ChartOptions struct {
	Width  int
	Height int
	// Cell is the heatmap cell edge in pixels.
	Cell int
	// TopN is the configured heatmap size shown in its title. Zero falls back to
	// the matrix size.
	TopN int
}

// DefaultChartOptions returns the sizes used by the CLI.
func DefaultChartOptions() ChartOptions {
	return ChartOptions{Width: 1500, Height: 600, Cell: 48}
}

func (o ChartOptions) withDefaults() ChartOptions {
	d := DefaultChartOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.Cell <= 0 {
		o.Cell = d.Cell
	}
	return o
}

// ArcChart writes a PNG bar chart of one character's count for every episode.
func ArcChart(w io.Writer, name string, episodes []string, counts []float64, opt ChartOptions) error {
	if len(episodes) == 0 || len(episodes) != len(counts) {
		return ErrEmptyChart
	}
	opt = opt.withDefaults()

	maxVal := 0.0
	bars := make([]chart.Value, len(episodes))
	for i, ep := range episodes {
		if counts[i] > maxVal {
			maxVal = counts[i]
		}
		bars[i] = chart.Value{
			Label: ep,
			Value: counts[i],
			Style: chart.Style{FillColor: drawing.ColorFromHex("1f77b4"), StrokeColor: drawing.ColorFromHex("1f77b4"), StrokeWidth: 1},
		}
	}
	if maxVal <= 0 {
		maxVal = 1
	}

	// Leave room for the axes; go-chart needs every bar to fit the canvas.
	plotWidth := opt.Width - 120
	barWidth := plotWidth / (len(bars) * 2)
	if barWidth < 1 {
		barWidth = 1
	}

	bc := chart.BarChart{
		Title:      fmt.Sprintf("%s's Appearances Per Episode", name),
		TitleStyle: chart.Style{FontSize: 14},
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 40}},
		Width:      opt.Width,
		Height:     opt.Height,
		BarWidth:   barWidth,
		BarSpacing: barWidth,
		XAxis:      chart.Style{FontSize: 7, TextRotationDegrees: 90},
		YAxis: chart.YAxis{
			Name:  "Appearance",
			Range: &chart.ContinuousRange{Min: 0, Max: maxVal},
		},
		Bars:     bars,
		Elements: []chart.Renderable{xAxisLabel("Episode ID", opt.Height-6)},
	}
	if err := bc.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render arc chart: %w", err)
	}
	return nil
}

// xAxisLabel draws a centered caption under the bar labels; BarChart has no axis name.
func xAxisLabel(text string, y int) chart.Renderable {
	return func(r chart.Renderer, cb chart.Box, defaults chart.Style) {
		st := chart.Style{Font: defaults.Font, FontSize: 10, FontColor: drawing.ColorBlack}
		st.WriteToRenderer(r)
		tb := r.MeasureText(text)
		r.Text(text, cb.Left+(cb.Width()-tb.Width())/2, y)
	}
}

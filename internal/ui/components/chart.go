// Package components provides reusable UI components for the TUI.
package components

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/page-insights-tui/internal/models"
	"github.com/j-veylop/page-insights-tui/internal/ui/styles"
)

const (
	minChartWidth  = 20
	minChartHeight = 3
)

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderLineChart creates a single-series ASCII line chart.
func RenderLineChart(data []float64, width, height int, caption string) string {
	if len(data) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	return asciigraph.Plot(data,
		asciigraph.Height(max(height, minChartHeight)),
		asciigraph.Width(max(width, minChartWidth)),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(asciigraph.Blue),
	)
}

// SeriesValues returns the plotted value of every point. Breakdowns plot
// their total.
func SeriesValues(points []models.SeriesPoint) []float64 {
	values := make([]float64, 0, len(points))
	for _, p := range points {
		values = append(values, p.Value.Total())
	}
	return values
}

// RenderSeriesChart plots a metric series with its date span as caption.
func RenderSeriesChart(points []models.SeriesPoint, width, height int, label string) string {
	if len(points) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	caption := label
	first, last := points[0].EndTime, points[len(points)-1].EndTime
	if !first.IsZero() && !last.IsZero() {
		caption = fmt.Sprintf("%s  %s → %s", label,
			first.Format(models.DateLayout), last.Format(models.DateLayout))
	}

	return RenderLineChart(SeriesValues(points), width, height, caption)
}

// RenderBreakdownBars draws one horizontal bar per breakdown entry, largest
// first, ties broken by name.
func RenderBreakdownBars(breakdown map[string]float64, width int) string {
	if len(breakdown) == 0 {
		return ""
	}

	names := make([]string, 0, len(breakdown))
	for name := range breakdown {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		if c := cmp.Compare(breakdown[b], breakdown[a]); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})

	maxVal := breakdown[names[0]]
	if maxVal <= 0 {
		maxVal = 1
	}

	maxLabelLen := 0
	for _, n := range names {
		maxLabelLen = max(maxLabelLen, len(n))
	}

	// Leave room for label and value
	barWidth := max(width-maxLabelLen-12, 10)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		v := breakdown[name]
		barLen := max(int((v/maxVal)*float64(barWidth)), 0)

		bar := strings.Repeat("█", barLen)
		lines = append(lines, fmt.Sprintf("%*s │%s %s", maxLabelLen, name, bar, models.FormatNumber(v)))
	}

	return strings.Join(lines, "\n")
}

// RenderSparkline creates a compact inline sparkline chart.
func RenderSparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	minVal, maxVal := slices.Min(values), slices.Max(values)
	span := maxVal - minVal

	// Sample values to fit width
	step := max(float64(len(values))/float64(width), 1)

	var result strings.Builder
	for i := 0; i < width && int(float64(i)*step) < len(values); i++ {
		val := values[int(float64(i)*step)]

		idx := 0
		if span > 0 {
			idx = int((val - minVal) / span * float64(len(sparkChars)-1))
		}
		idx = min(max(idx, 0), len(sparkChars)-1)
		result.WriteRune(sparkChars[idx])
	}

	return result.String()
}

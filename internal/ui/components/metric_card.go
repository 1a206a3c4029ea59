package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/page-insights-tui/internal/models"
	"github.com/j-veylop/page-insights-tui/internal/ui/styles"
)

// MetricCardWidth is the inner width of a metric card.
const MetricCardWidth = 26

// RenderMetricCard renders one metric: its label, its formatted value and,
// when the API returned more than one point, a sparkline of the series.
func RenderMetricCard(r models.MetricResult) string {
	valueStyle := styles.MetricValueStyle
	if r.Value.IsMissing() {
		valueStyle = styles.MetricMissingStyle
	}

	rows := []string{
		styles.MetricLabelStyle.Render(truncate(r.Spec.DisplayLabel(), MetricCardWidth)),
		valueStyle.Render(truncate(r.Value.Format(), MetricCardWidth)),
	}

	if len(r.Series) > 1 {
		spark := RenderSparkline(SeriesValues(r.Series), MetricCardWidth)
		rows = append(rows, lipgloss.NewStyle().Foreground(styles.Primary).Render(spark))
	} else {
		rows = append(rows, "")
	}

	return styles.MetricCardStyle.Width(MetricCardWidth + 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// RenderMetricGrid lays out one card per result in rows that fit width.
func RenderMetricGrid(results []models.MetricResult, width int) string {
	if len(results) == 0 {
		return ""
	}

	// Border, padding and margin add five cells per card.
	perRow := max(width/(MetricCardWidth+5), 1)

	var rows []string
	for start := 0; start < len(results); start += perRow {
		end := min(start+perRow, len(results))
		cards := make([]string, 0, end-start)
		for _, r := range results[start:end] {
			cards = append(cards, RenderMetricCard(r))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}

package trend

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/page-insights-tui/internal/models"
	"github.com/j-veylop/page-insights-tui/internal/ui/components"
	"github.com/j-veylop/page-insights-tui/internal/ui/styles"
)

const chartHeight = 10

// View renders the trend tab.
func (m *Model) View() string {
	sections := []string{
		m.renderTitle(),
		m.renderChart(),
		m.renderCycles(),
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Trend")

	spec, ok := m.Metric()
	if !ok {
		return lipgloss.JoinVertical(lipgloss.Left, title, styles.HelpStyle.Render("No metrics configured"), "")
	}

	subtitle := fmt.Sprintf("%s (%d/%d)", spec.DisplayLabel(), m.metric+1, len(m.specs))
	if page, ok := m.state.SelectedPage(); ok {
		subtitle = page.Label() + " · " + subtitle
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, styles.HelpStyle.Render(subtitle), "")
}

func (m *Model) renderChart() string {
	cardWidth := max(m.width-8, 40)

	var body string
	switch {
	case m.err != nil:
		body = styles.ErrorTextStyle.Render("Error: " + m.err.Error())
	case m.state.Results() == nil:
		body = styles.HelpStyle.Render("No results yet. Select a page on the Insights tab.")
	case len(m.series) == 0:
		body = styles.HelpStyle.Render("The API returned no series for this metric.")
	case len(m.series) == 1:
		p := m.series[0]
		body = fmt.Sprintf("Single value: %s", styles.MetricValueStyle.Render(p.Value.Format()))
	default:
		spec, _ := m.Metric()
		body = components.RenderSeriesChart(m.series, cardWidth-16, chartHeight, spec.DisplayLabel())
	}

	return styles.CardStyle.Width(cardWidth).Render(body)
}

func (m *Model) renderCycles() string {
	rows := []string{styles.CardTitleStyle.Render("Recent fetches")}

	if len(m.cycles) == 0 {
		rows = append(rows, styles.HelpStyle.Render("No fetches this session"))
		return lipgloss.JoinVertical(lipgloss.Left, rows...)
	}

	header := fmt.Sprintf("%-8s  %-20s  %-23s  %-10s  %s", "Time", "Page", "Range", "Outcome", "Detail")
	rows = append(rows, styles.TableHeaderStyle.Render(header))

	for _, c := range m.cycles {
		rows = append(rows, renderCycleRow(c))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderCycleRow(c models.FetchCycle) string {
	name := c.PageName
	if name == "" {
		name = c.PageID
	}
	if len([]rune(name)) > 20 {
		name = string([]rune(name)[:19]) + "…"
	}

	detail := c.Error
	if c.Succeeded() {
		detail = fmt.Sprintf("%d metrics in %s", c.MetricCount, c.Duration.Round(time.Millisecond))
	}
	detail = strings.SplitN(detail, "\n", 2)[0]

	outcome := styles.GetOutcomeStyle(c.Outcome).Render(fmt.Sprintf("%-10s", c.Outcome))
	return fmt.Sprintf("%-8s  %-20s  %-23s  %s  %s",
		c.StartedAt.Format("15:04:05"),
		name,
		c.Range.SinceString()+" → "+c.Range.UntilString(),
		outcome,
		detail,
	)
}

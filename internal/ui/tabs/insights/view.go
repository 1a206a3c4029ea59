package insights

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/page-insights-tui/internal/app"
	"github.com/j-veylop/page-insights-tui/internal/models"
	"github.com/j-veylop/page-insights-tui/internal/ui/components"
	"github.com/j-veylop/page-insights-tui/internal/ui/styles"
)

const pageListWidth = 30

// View renders the insights tab.
func (m *Model) View() string {
	left := m.renderPageList()

	m.viewport.SetContent(m.renderResults())
	right := lipgloss.JoinVertical(lipgloss.Left,
		m.renderRangeInputs(),
		m.renderStatus(),
		"",
		m.viewport.View(),
	)

	return styles.DocStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right),
	)
}

func (m *Model) renderPageList() string {
	rows := []string{styles.CardTitleStyle.Render("Pages")}

	pages := m.state.Pages()
	if len(pages) == 0 {
		msg := "No pages found"
		if m.state.IsLoading(app.ResourcePages) {
			msg = "Loading pages..."
		}
		rows = append(rows, styles.HelpStyle.Render(msg))
	}

	selected := m.state.SelectedIndex()
	for i, p := range pages {
		marker := "  "
		if i == selected {
			marker = "● "
		}
		line := marker + truncate(p.Label(), pageListWidth-6)
		if i == m.cursor {
			line = styles.SelectedListItemStyle.Render("▸ " + line)
		} else {
			line = "  " + line
		}
		rows = append(rows, line)
		if p.Category != "" {
			rows = append(rows, styles.HelpStyle.Render("      "+truncate(p.Category, pageListWidth-8)))
		}
	}

	return styles.BlurredBorderStyle.Width(pageListWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderRangeInputs() string {
	field := func(label string, focused bool, view string) string {
		style := styles.BlurredBorderStyle
		if focused {
			style = styles.FocusedBorderStyle
		}
		return lipgloss.JoinHorizontal(lipgloss.Center,
			styles.MetricLabelStyle.Render(label+" "),
			style.Render(view),
		)
	}

	row := lipgloss.JoinHorizontal(lipgloss.Center,
		field("Since", m.focus == focusSince, m.since.View()),
		"  ",
		field("Until", m.focus == focusUntil, m.until.View()),
	)
	if m.inputErr != nil {
		row = lipgloss.JoinVertical(lipgloss.Left, row, styles.ErrorTextStyle.Render(m.inputErr.Error()))
	}
	return row
}

func (m *Model) renderStatus() string {
	page, ok := m.state.SelectedPage()
	switch {
	case !ok:
		return styles.HelpStyle.Render("Select a page to view its insights.")
	case m.state.IsLoading(app.ResourceInsights):
		return styles.InfoTextStyle.Render(fmt.Sprintf("Fetching insights for %s...", page.Label()))
	case m.state.CycleError() != nil:
		return styles.ErrorTextStyle.Render(m.state.CycleError().Error())
	}

	rs := m.state.Results()
	if rs == nil {
		return ""
	}
	return styles.SubTitleStyle.Render(page.Label()) + styles.HelpStyle.Render(fmt.Sprintf(
		"  %s · %d metrics · updated %s",
		rs.Range, rs.Len(), rs.FetchedAt.Format("15:04:05"),
	))
}

func (m *Model) renderResults() string {
	rs := m.state.Results()
	if rs == nil {
		return ""
	}

	results := rs.Ordered()
	sections := []string{components.RenderMetricGrid(results, m.viewport.Width)}

	for _, r := range results {
		if r.Value.Kind != models.ValueBreakdown || len(r.Value.Breakdown) == 0 {
			continue
		}
		sections = append(sections,
			"",
			styles.SubTitleStyle.Render(r.Spec.DisplayLabel()),
			components.RenderBreakdownBars(r.Value.Breakdown, min(m.viewport.Width, 72)),
		)
	}

	return strings.Join(sections, "\n")
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width || width <= 1 {
		return s
	}
	return string(r[:width-1]) + "…"
}

package login

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/page-insights-tui/internal/app"
	"github.com/j-veylop/page-insights-tui/internal/ui/styles"
)

const cardWidth = 60

// View renders the login screen centered in the window.
func (m *Model) View() string {
	rows := []string{
		styles.CardTitleStyle.Render("Page Insights"),
		styles.HelpStyle.Render("Log in to view insights for the pages you manage."),
		"",
	}

	switch {
	case m.code != nil:
		rows = append(rows, m.renderDeviceCode()...)
	case m.state.IsLoading(app.ResourceLogin):
		rows = append(rows, m.spinner.ViewWithLabel())
	case m.err != nil:
		rows = append(rows,
			styles.ErrorTextStyle.Render("Login failed: "+m.err.Error()),
			"",
			styles.HelpStyle.Render("Press enter to retry, q to quit"),
		)
	default:
		rows = append(rows,
			fmt.Sprintf("Method: %s", styles.InfoTextStyle.Render(m.methodLabel())),
			"",
			styles.HelpStyle.Render("Press enter to log in, q to quit"),
		)
	}

	card := styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
	if m.width == 0 || m.height == 0 {
		return card
	}
	return styles.CenterBoth(card, m.width, m.height)
}

func (m *Model) renderDeviceCode() []string {
	rows := []string{
		"Open " + styles.InfoTextStyle.Render(m.code.VerificationURI),
		"and enter the code:",
		"",
		styles.UserCodeStyle.Render(m.code.UserCode),
		"",
		m.spinner.ViewWithLabel(),
	}
	if !m.expires.IsZero() {
		left := max(time.Until(m.expires).Truncate(time.Second), 0)
		rows = append(rows, styles.HelpStyle.Render(fmt.Sprintf("Code expires in %s", left)))
	}
	return append(rows, "", styles.HelpStyle.Render("Press esc to cancel"))
}

func (m *Model) methodLabel() string {
	if m.config != nil && !m.config.UsesDeviceLogin() {
		return "access token from GRAPH_ACCESS_TOKEN"
	}
	return "device code"
}

package info

import (
	"fmt"
	"runtime"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/page-insights-tui/internal/telemetry"
	"github.com/j-veylop/page-insights-tui/internal/ui/styles"
	"github.com/j-veylop/page-insights-tui/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	sections := []string{
		m.renderTitle(),
		m.renderConfigCard(),
		m.renderSessionCard(),
		m.renderTelemetryCard(),
		m.renderAboutCard(),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	m.viewport.SetContent(content)

	return styles.DocStyle.Render(m.viewport.View())
}

// renderTitle renders the info tab title.
func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Configuration, session and application information")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return min(max(m.width-6, 50), 80)
}

// renderConfigCard renders the configuration card.
func (m *Model) renderConfigCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Configuration"))

	if c := m.config; c != nil {
		login := "device code"
		if !c.UsesDeviceLogin() {
			login = "access token"
		}
		metrics := "disabled"
		if c.MetricsAddr != "" {
			metrics = c.MetricsAddr
		}
		logFile := "stderr"
		if c.LogFile != "" {
			logFile = c.LogFile
		}

		rows = append(rows,
			m.renderConfigRow("Graph API", c.GraphBaseURL+"/"+c.GraphAPIVersion),
			m.renderConfigRow("App ID", c.AppID),
			m.renderConfigRow("Login", login),
			m.renderConfigRow("Database", c.DatabasePath),
			m.renderConfigRow("Log File", logFile),
			m.renderConfigRow("Metrics", metrics),
			m.renderConfigRow("HTTP Timeout", c.HTTPTimeout.String()),
			m.renderConfigRow("Concurrency", strconv.Itoa(c.MaxConcurrentRequests)),
			m.renderConfigRow("Default Range", fmt.Sprintf("%d days", c.DefaultRangeDays)),
			m.renderConfigRow("Notifications", strconv.FormatBool(c.DesktopNotifications)),
		)
		rows = append(rows, "", styles.HelpStyle.Render("Press 'c' to copy the database path"))
	} else {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderConfigRow renders a configuration key-value row.
func (m *Model) renderConfigRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(18).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

func (m *Model) renderSessionCard() string {
	rows := []string{styles.CardTitleStyle.Render("Session")}

	session := m.state.Session()
	if !session.Active() {
		rows = append(rows, styles.HelpStyle.Render("Not logged in"))
	} else {
		rows = append(rows,
			m.renderConfigRow("User", session.Profile.DisplayName()),
			m.renderConfigRow("Since", session.StartedAt.Format("2006-01-02 15:04")),
		)
		expires := "not reported"
		if !session.Credential.ExpiresAt.IsZero() {
			expires = session.Credential.ExpiresAt.Format("2006-01-02 15:04")
		}
		rows = append(rows,
			m.renderConfigRow("Token Expires", expires),
			m.renderConfigRow("Pages", strconv.Itoa(m.state.PageCount())),
		)
		if page, ok := m.state.SelectedPage(); ok {
			rows = append(rows, m.renderConfigRow("Selected", page.Label()+" ("+page.ID+")"))
		}
		if updated := m.state.LastUpdated(); !updated.IsZero() {
			rows = append(rows, m.renderConfigRow("Last Fetch", updated.Format("15:04:05")))
		}
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderTelemetryCard() string {
	rows := []string{styles.CardTitleStyle.Render("Telemetry")}

	snap, err := telemetry.Snap()
	if err != nil {
		rows = append(rows, styles.ErrorTextStyle.Render(err.Error()))
	} else {
		count := func(v float64) string { return strconv.FormatFloat(v, 'f', 0, 64) }
		rows = append(rows,
			m.renderConfigRow("Requests", count(snap.Requests)),
			m.renderConfigRow("Request Errors", count(snap.RequestErrors)),
			m.renderConfigRow("Fetch Cycles", count(snap.Cycles)),
			m.renderConfigRow("Failed Cycles", count(snap.CycleFailures)),
			m.renderConfigRow("Discarded", count(snap.CyclesDiscards)),
		)
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderAboutCard renders the about/version information card.
func (m *Model) renderAboutCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("About Page Insights TUI"))

	rows = append(rows, m.renderConfigRow("Version", version.GetVersion()))
	rows = append(rows, m.renderConfigRow("Build Date", version.GetDate()))
	rows = append(rows, m.renderConfigRow("Git Commit", version.GetCommit()))
	rows = append(rows, m.renderConfigRow("Go Version", runtime.Version()))
	rows = append(rows, m.renderConfigRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)))

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

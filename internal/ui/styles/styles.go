// Package styles defines the visual styling for the application.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/page-insights-tui/internal/models"
)

// Palette. The 256-colour codes keep the theme readable on terminals
// without true colour.
var (
	Primary   = lipgloss.Color("33") // page blue
	Secondary = lipgloss.Color("63") // metric frame
	Subtle    = lipgloss.Color("240")

	Success = lipgloss.Color("42")
	Error   = lipgloss.Color("196")
	Warning = lipgloss.Color("220")
	Info    = lipgloss.Color("39")

	BgDark = lipgloss.Color("235")

	TextPrimary   = lipgloss.Color("252")
	TextSecondary = lipgloss.Color("245")
	TextMuted     = lipgloss.Color("240")
)

func rounded(border lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border)
}

// Frames.
var (
	// DocStyle is the outer margin of a tab body.
	DocStyle = lipgloss.NewStyle().Margin(1, 2).Padding(0, 1)

	// CardStyle groups related rows, such as one block of the Info tab.
	CardStyle = rounded(Subtle).Padding(1, 2).MarginBottom(1)

	// MetricCardStyle frames a single metric value.
	MetricCardStyle = rounded(Secondary).Padding(0, 1).MarginRight(1)

	// ToastStyle frames a floating notification.
	ToastStyle = rounded(Primary).Padding(0, 1).MarginBottom(1)

	// FocusedBorderStyle and BlurredBorderStyle frame the date inputs.
	FocusedBorderStyle = rounded(Primary).Padding(0, 1)
	BlurredBorderStyle = rounded(Subtle).Padding(0, 1)

	HelpPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(Primary).
			Background(BgDark).
			Padding(1, 3)
)

// Text.
var (
	TitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(Primary).MarginBottom(1)
	SubTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(Secondary)
	CardTitleStyle = TitleStyle

	// TableHeaderStyle underlines the header row of the recent-fetch table.
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(Primary).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(Subtle)

	SelectedListItemStyle = lipgloss.NewStyle().Bold(true).Foreground(Primary)

	MetricLabelStyle   = lipgloss.NewStyle().Foreground(TextSecondary)
	MetricValueStyle   = lipgloss.NewStyle().Bold(true).Foreground(TextPrimary)
	MetricMissingStyle = lipgloss.NewStyle().Italic(true).Foreground(TextMuted)

	// UserCodeStyle makes the device login code stand out.
	UserCodeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(Primary).
			Padding(0, 2)

	HelpStyle        = lipgloss.NewStyle().Foreground(TextMuted)
	ErrorTextStyle   = lipgloss.NewStyle().Foreground(Error)
	SuccessTextStyle = lipgloss.NewStyle().Foreground(Success)
	WarningTextStyle = lipgloss.NewStyle().Foreground(Warning)
	InfoTextStyle    = lipgloss.NewStyle().Foreground(Info)
)

// GetOutcomeStyle returns the style for a fetch cycle outcome.
func GetOutcomeStyle(outcome models.CycleOutcome) lipgloss.Style {
	switch outcome {
	case models.CycleSucceeded:
		return SuccessTextStyle
	case models.CycleFailed:
		return ErrorTextStyle
	case models.CycleInvalid:
		return WarningTextStyle
	default:
		return HelpStyle
	}
}

// CenterBoth places content in the middle of a width by height box.
func CenterBoth(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

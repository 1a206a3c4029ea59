package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/page-insights-tui/internal/ui/styles"
)

// LoadingSpinner is a labelled spinner that can show how long the wait has
// lasted, such as while a device login polls for approval.
type LoadingSpinner struct {
	started time.Time
	label   string
	style   lipgloss.Style
	spinner spinner.Model
}

// NewSpinner creates a new loading spinner with the given label.
func NewSpinner(label string) LoadingSpinner {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	return LoadingSpinner{
		spinner: s,
		label:   label,
		style:   lipgloss.NewStyle().Foreground(styles.TextSecondary),
	}
}

// Init initializes the spinner model.
func (l LoadingSpinner) Init() tea.Cmd {
	return l.spinner.Tick
}

// Update handles spinner tick messages.
func (l LoadingSpinner) Update(msg tea.Msg) (LoadingSpinner, tea.Cmd) {
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return l, cmd
}

// Start resets the elapsed clock to now with a new label.
func (l *LoadingSpinner) Start(label string, now time.Time) {
	l.label = label
	l.started = now
}

// Stop clears the elapsed clock.
func (l *LoadingSpinner) Stop() {
	l.started = time.Time{}
}

// Running reports whether Start was called without a later Stop.
func (l LoadingSpinner) Running() bool {
	return !l.started.IsZero()
}

// Elapsed returns how long the spinner has been running at now.
func (l LoadingSpinner) Elapsed(now time.Time) time.Duration {
	if l.started.IsZero() {
		return 0
	}
	return now.Sub(l.started).Truncate(time.Second)
}

// View renders the spinner without label.
func (l LoadingSpinner) View() string {
	return l.spinner.View()
}

// ViewWithLabel renders the spinner with its label and, while running,
// the elapsed time.
func (l LoadingSpinner) ViewWithLabel() string {
	label := l.label
	if l.Running() {
		label = fmt.Sprintf("%s (%s)", label, l.Elapsed(time.Now()))
	}
	return l.spinner.View() + " " + l.style.Render(label)
}

// SetLabel updates the spinner's label.
func (l *LoadingSpinner) SetLabel(label string) {
	l.label = label
}

// Label returns the current label.
func (l LoadingSpinner) Label() string {
	return l.label
}

// Tick returns the tick command for the spinner.
func (l LoadingSpinner) Tick() tea.Cmd {
	return l.spinner.Tick
}

// RenderSpinnerCentered renders a spinner centered in a given width and height.
func RenderSpinnerCentered(s *LoadingSpinner, width, height int) string {
	return styles.CenterBoth(s.ViewWithLabel(), width, height)
}

// Package login provides the screen shown until a session is active.
package login

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/page-insights-tui/internal/app"
	"github.com/j-veylop/page-insights-tui/internal/config"
	"github.com/j-veylop/page-insights-tui/internal/graph"
	"github.com/j-veylop/page-insights-tui/internal/ui/components"
)

type keyMap struct {
	Login  key.Binding
	Cancel key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Login: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "log in"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// Model is the login screen.
type Model struct {
	state   *app.State
	config  *config.Config
	code    *graph.DeviceCode
	err     error
	expires time.Time
	spinner components.LoadingSpinner
	keys    keyMap
	width   int
	height  int
}

// New creates the login screen.
func New(state *app.State, cfg *config.Config) *Model {
	return &Model{
		state:   state,
		config:  cfg,
		keys:    defaultKeyMap(),
		spinner: components.NewSpinner(""),
	}
}

// Init starts the spinner.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Init()
}

// Update handles key presses and login progress.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case app.DeviceCodeMsg:
		if msg.Error != nil || msg.Code == nil {
			m.fail(msg.Error)
			return m, nil
		}
		m.code = msg.Code
		m.expires = msg.Code.Deadline(time.Now())
		m.spinner.Start("Waiting for approval", time.Now())

	case app.LoginResultMsg:
		m.code = nil
		m.fail(msg.Error)

	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Login):
		if m.code != nil || m.state.IsLoading(app.ResourceLogin) {
			return nil
		}
		m.err = nil
		m.spinner.Start("Logging in", time.Now())
		return func() tea.Msg { return app.LoginMsg{} }

	case key.Matches(msg, m.keys.Cancel):
		if m.code == nil {
			return nil
		}
		m.code = nil
		m.spinner.Stop()
		return func() tea.Msg { return app.CancelLoginMsg{} }
	}
	return nil
}

// fail stops waiting and keeps err for display. A cancelled login is not
// an error.
func (m *Model) fail(err error) {
	m.spinner.Stop()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	m.err = err
}

// Waiting reports whether a device code is being shown.
func (m *Model) Waiting() bool {
	return m.code != nil
}

// Err returns the last login failure.
func (m *Model) Err() error {
	return m.err
}

// SetSize sets the available size for the screen.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	if m.code != nil {
		return []key.Binding{m.keys.Cancel}
	}
	return []key.Binding{m.keys.Login}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{{m.keys.Login, m.keys.Cancel}}
}

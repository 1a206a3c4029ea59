// Package insights provides the tab that lists pages and shows their metrics.
package insights

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/page-insights-tui/internal/app"
	"github.com/j-veylop/page-insights-tui/internal/models"
)

// keyMap defines the key bindings specific to the insights tab.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Select   key.Binding
	Apply    key.Binding
	EditDate key.Binding
	Leave    key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "previous page"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next page"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select page"),
		),
		Apply: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "apply range"),
		),
		EditDate: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "edit dates"),
		),
		Leave: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "leave dates"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "scroll down"),
		),
	}
}

// Date input focus positions.
const (
	focusNone = iota
	focusSince
	focusUntil
)

// Model represents the insights tab state.
type Model struct {
	state    *app.State
	commands *app.Commands
	inputErr error
	since    textinput.Model
	until    textinput.Model
	shown    models.DateRange
	keys     keyMap
	viewport viewport.Model
	cursor   int
	focus    int
	width    int
	height   int
}

// New creates a new insights model.
func New(state *app.State, commands *app.Commands) *Model {
	return &Model{
		state:    state,
		commands: commands,
		keys:     defaultKeyMap(),
		since:    newDateInput("since"),
		until:    newDateInput("until"),
		viewport: viewport.New(0, 0),
	}
}

func newDateInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = len(models.DateLayout)
	ti.Width = len(models.DateLayout) + 1
	ti.Prompt = ""
	return ti
}

// Init initializes the insights tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// CapturesKey keeps global bindings away while a date is being edited.
func (m *Model) CapturesKey(msg tea.KeyMsg) bool {
	return m.focus != focusNone || key.Matches(msg, m.keys.EditDate)
}

// Update handles messages for the insights tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	m.syncRange()
	m.clampCursor()

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.focus != focusNone {
		return m, m.updateInputs(keyMsg)
	}

	switch {
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < m.state.PageCount()-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Select):
		return m, m.selectPage()
	case key.Matches(keyMsg, m.keys.Apply):
		return m, m.applyRange()
	case key.Matches(keyMsg, m.keys.EditDate):
		m.setFocus(focusSince)
	case key.Matches(keyMsg, m.keys.PageUp), key.Matches(keyMsg, m.keys.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(keyMsg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) updateInputs(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Leave):
		m.setFocus(focusNone)
		return nil
	case key.Matches(msg, m.keys.EditDate):
		if m.focus == focusSince {
			m.setFocus(focusUntil)
		} else {
			m.setFocus(focusNone)
		}
		return nil
	case msg.Type == tea.KeyEnter:
		m.setFocus(focusNone)
		return m.applyRange()
	}

	var cmd tea.Cmd
	if m.focus == focusSince {
		m.since, cmd = m.since.Update(msg)
	} else {
		m.until, cmd = m.until.Update(msg)
	}
	return cmd
}

func (m *Model) setFocus(focus int) {
	m.focus = focus
	m.since.Blur()
	m.until.Blur()
	switch focus {
	case focusSince:
		m.since.Focus()
	case focusUntil:
		m.until.Focus()
	}
}

// syncRange copies the state's range into the inputs whenever it changes
// and the user is not editing.
func (m *Model) syncRange() {
	rng := m.state.Range()
	if m.focus != focusNone || rng.IsZero() || rng == m.shown {
		return
	}
	m.shown = rng
	m.since.SetValue(rng.SinceString())
	m.until.SetValue(rng.UntilString())
	m.inputErr = nil
}

func (m *Model) clampCursor() {
	n := m.state.PageCount()
	if m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

// inputRange parses the date inputs.
func (m *Model) inputRange() (models.DateRange, bool) {
	rng, err := models.ParseDateRange(m.since.Value(), m.until.Value())
	m.inputErr = err
	return rng, err == nil
}

func (m *Model) selectPage() tea.Cmd {
	pages := m.state.Pages()
	if m.cursor < 0 || m.cursor >= len(pages) || m.commands == nil {
		return nil
	}
	rng, ok := m.inputRange()
	if !ok {
		return nil
	}
	return m.commands.SelectPage(pages[m.cursor], rng)
}

func (m *Model) applyRange() tea.Cmd {
	if m.commands == nil {
		return nil
	}
	if _, ok := m.state.SelectedPage(); !ok {
		return m.commands.NotifyInfo("Select a page first")
	}
	rng, ok := m.inputRange()
	if !ok {
		return nil
	}
	return m.commands.ApplyRange(rng)
}

// Cursor returns the list position under the cursor.
func (m *Model) Cursor() int {
	return m.cursor
}

// SetSize sets the available size for the insights tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = max(width-pageListWidth-6, 0)
	m.viewport.Height = max(height-6, 0)
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	if m.focus != focusNone {
		return []key.Binding{m.keys.EditDate, m.keys.Leave}
	}
	return []key.Binding{m.keys.Select, m.keys.EditDate, m.keys.Apply}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Up, m.keys.Down, m.keys.Select},
		{m.keys.EditDate, m.keys.Leave, m.keys.Apply},
		{m.keys.PageUp, m.keys.PageDown},
	}
}

// Package trend provides the tab that charts a metric series and lists the
// fetch cycles run this session.
package trend

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/page-insights-tui/internal/app"
	"github.com/j-veylop/page-insights-tui/internal/models"
	"github.com/j-veylop/page-insights-tui/internal/services"
)

const (
	recentCycleLimit = 10
	loadTimeout      = 5 * time.Second
)

// keyMap defines the key bindings specific to the trend tab.
type keyMap struct {
	NextMetric key.Binding
	PrevMetric key.Binding
	Up         key.Binding
	Down       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextMetric: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "next metric"),
		),
		PrevMetric: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "previous metric"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
	}
}

// trendLoadedMsg carries the stored series and recent cycles.
type trendLoadedMsg struct {
	err     error
	loadKey loadKey
	series  []models.SeriesPoint
	cycles  []models.FetchCycle
}

// loadKey identifies what the loaded data was read for.
type loadKey struct {
	cycleID    string
	metric     string
	generation uint64
	loading    bool
}

// Model represents the trend tab state.
type Model struct {
	state    *app.State
	services *services.Manager
	err      error
	specs    []models.MetricSpec
	series   []models.SeriesPoint
	cycles   []models.FetchCycle
	loaded   loadKey
	pending  *loadKey
	keys     keyMap
	viewport viewport.Model
	metric   int
	width    int
	height   int
}

// New creates a new trend model.
func New(state *app.State, svc *services.Manager) *Model {
	m := &Model{
		state:    state,
		services: svc,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
	if svc != nil {
		m.specs = svc.Specs()
	}
	return m
}

// Init initializes the trend tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the trend tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case trendLoadedMsg:
		if m.pending != nil && *m.pending == msg.loadKey {
			m.pending = nil
		}
		m.loaded = msg.loadKey
		m.err = msg.err
		if msg.err == nil {
			m.series = msg.series
			m.cycles = msg.cycles
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.NextMetric):
			m.shiftMetric(1)
		case key.Matches(msg, m.keys.PrevMetric):
			m.shiftMetric(-1)
		default:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if cmd := m.maybeLoad(); cmd != nil {
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) shiftMetric(delta int) {
	if len(m.specs) == 0 {
		return
	}
	m.metric = (m.metric + delta + len(m.specs)) % len(m.specs)
}

// Metric returns the metric currently charted.
func (m *Model) Metric() (models.MetricSpec, bool) {
	if len(m.specs) == 0 {
		return models.MetricSpec{}, false
	}
	return m.specs[m.metric], true
}

// currentKey describes the data the view should show right now.
func (m *Model) currentKey() loadKey {
	k := loadKey{
		generation: m.state.Generation(),
		loading:    m.state.IsLoading(app.ResourceInsights),
	}
	if rs := m.state.Results(); rs != nil {
		k.cycleID = rs.CycleID
	}
	if spec, ok := m.Metric(); ok {
		k.metric = spec.Key()
	}
	return k
}

// maybeLoad reads the store again when the selected metric or the latest
// cycle changed since the last load.
func (m *Model) maybeLoad() tea.Cmd {
	if m.services == nil {
		return nil
	}
	k := m.currentKey()
	if k == m.loaded || (m.pending != nil && *m.pending == k) {
		return nil
	}
	m.pending = &k

	svc := m.services
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		msg := trendLoadedMsg{loadKey: k}
		if k.metric != "" && k.cycleID != "" {
			msg.series, msg.err = svc.LatestSeries(ctx, k.metric)
		}
		if msg.err == nil {
			msg.cycles, msg.err = svc.RecentCycles(ctx, recentCycleLimit)
		}
		return msg
	}
}

// SetSize sets the available size for the trend tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = max(width-4, 0)
	m.viewport.Height = max(height-2, 0)
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.NextMetric, m.keys.PrevMetric}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.NextMetric, m.keys.PrevMetric},
		{m.keys.Up, m.keys.Down},
	}
}

// Package app implements the main Bubble Tea application with tab-based navigation.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/page-insights-tui/internal/models"
	"github.com/j-veylop/page-insights-tui/internal/services"
	"github.com/j-veylop/page-insights-tui/internal/ui/styles"
)

// TabID represents the identifier for a tab in the application.
type TabID int

const (
	// TabInsights is the ID for the insights tab.
	TabInsights TabID = iota
	// TabTrend is the ID for the trend tab.
	TabTrend
	// TabInfo is the ID for the info tab.
	TabInfo
)

// String returns the string representation of the TabID.
func (t TabID) String() string {
	switch t {
	case TabInsights:
		return "Insights"
	case TabTrend:
		return "Trend"
	case TabInfo:
		return "Info"
	default:
		return "Unknown"
	}
}

// Tab defines the interface that all tabs must implement.
type Tab interface {
	// Init initializes the tab and returns any initial commands.
	Init() tea.Cmd

	// Update handles messages and returns the updated tab and any commands.
	Update(msg tea.Msg) (Tab, tea.Cmd)

	// View renders the tab content.
	View() string

	// SetSize sets the available size for the tab.
	SetSize(width, height int)

	// ShortHelp returns key bindings for the short help view.
	ShortHelp() []key.Binding

	// FullHelp returns key bindings for the full help view.
	FullHelp() [][]key.Binding
}

// KeyCapturer is implemented by tabs that need keys the global keymap
// would otherwise consume, such as text inputs.
type KeyCapturer interface {
	CapturesKey(msg tea.KeyMsg) bool
}

// KeyMap defines the keybindings for the application.
type KeyMap struct {
	Tab1    key.Binding
	Tab2    key.Binding
	Tab3    key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Refresh key.Binding
	Logout  key.Binding
	Help    key.Binding
	Quit    key.Binding
	Up      key.Binding
	Down    key.Binding
	Enter   key.Binding
	Escape  key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	bind := func(help, desc string, keys ...string) key.Binding {
		return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
	}
	return KeyMap{
		Tab1:    bind("1", "insights", "1"),
		Tab2:    bind("2", "trend", "2"),
		Tab3:    bind("3", "info", "3"),
		NextTab: bind("tab/→", "next tab", "tab", "right"),
		PrevTab: bind("shift+tab/←", "prev tab", "shift+tab", "left"),
		Refresh: bind("r", "re-fetch", "r", "ctrl+r"),
		Logout:  bind("L", "log out", "L"),
		Help:    bind("?", "toggle help", "?"),
		Quit:    bind("q", "quit", "q", "ctrl+c"),
		Up:      bind("↑/k", "up", "up", "k"),
		Down:    bind("↓/j", "down", "down", "j"),
		Enter:   bind("enter", "select", "enter"),
		Escape:  bind("esc", "cancel", "esc"),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Refresh, k.Logout, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab1, k.Tab2, k.Tab3},
		{k.NextTab, k.PrevTab},
		{k.Up, k.Down, k.Enter},
		{k.Refresh, k.Logout, k.Help, k.Quit},
	}
}

// Styles defines the application styles.
type Styles struct {
	// Tab bar styles
	TabBar      lipgloss.Style
	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style

	// Notification styles
	NotificationSuccess lipgloss.Style
	NotificationError   lipgloss.Style
	NotificationWarning lipgloss.Style
	NotificationInfo    lipgloss.Style

	// Content styles
	Content lipgloss.Style
	Help    lipgloss.Style
	Toast   lipgloss.Style

	// Common styles
	Title     lipgloss.Style
	Subtle    lipgloss.Style
	Highlight lipgloss.Style
}

// DefaultStyles returns the default application styles, built on the
// shared palette.
func DefaultStyles() Styles {
	fg := func(c lipgloss.TerminalColor) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}
	toast := func(c lipgloss.TerminalColor) lipgloss.Style {
		return fg(c).Padding(0, 1)
	}

	return Styles{
		TabBar: lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(styles.Subtle),
		ActiveTab:   fg(styles.Primary).Bold(true).Padding(0, 2),
		InactiveTab: fg(styles.TextSecondary).Padding(0, 2),

		NotificationSuccess: toast(styles.Success),
		NotificationError:   toast(styles.Error).Bold(true),
		NotificationWarning: toast(styles.Warning),
		NotificationInfo:    toast(styles.Info),

		Content: lipgloss.NewStyle().Padding(1, 2),
		Help:    fg(styles.TextMuted).Padding(0, 1),
		Toast:   styles.ToastStyle,

		Title:     fg(styles.Primary).Bold(true),
		Subtle:    fg(styles.TextMuted),
		Highlight: fg(styles.Primary),
	}
}

// Model is the main application model.
type Model struct {
	// Tab management
	login     Tab
	tabs      []Tab
	tabNames  []string
	activeTab TabID

	// Shared state
	state    *State
	services *services.Manager
	commands *Commands
	keymap   KeyMap
	styles   Styles

	// UI components
	spinner spinner.Model

	// Service subscription
	eventChannel chan services.ServiceEvent

	// cancelLogin stops a device login waiting for approval.
	cancelLogin context.CancelFunc

	// Window dimensions
	width  int
	height int

	// UI state
	showHelp bool
	ready    bool
}

// NewModel initializes a new application model.
func NewModel(mgr *services.Manager) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	return &Model{
		activeTab: TabInsights,
		tabNames:  []string{"Insights", "Trend", "Info"},
		tabs:      make([]Tab, 3), // Placeholder - tabs will be set externally
		state:     NewState(),
		services:  mgr,
		commands:  NewCommands(mgr),
		keymap:    DefaultKeyMap(),
		styles:    DefaultStyles(),
		spinner:   s,
	}
}

// SetTabs sets the tabs for the model.
func (m *Model) SetTabs(tabs []Tab) {
	m.tabs = tabs
	if m.width > 0 && m.height > 0 {
		m.updateTabSizes()
	}
}

// SetLogin sets the screen shown while no session is active.
func (m *Model) SetLogin(login Tab) {
	m.login = login
	if m.width > 0 && m.height > 0 {
		m.updateTabSizes()
	}
}

// GetState returns the application state.
func (m *Model) GetState() *State {
	return m.state
}

// GetServices returns the service manager.
func (m *Model) GetServices() *services.Manager {
	return m.services
}

// GetCommands returns the commands helper.
func (m *Model) GetCommands() *Commands {
	return m.commands
}

// GetActiveTab returns the currently active tab ID.
func (m *Model) GetActiveTab() TabID {
	return m.activeTab
}

// IsReady returns true if the model is ready (window size received).
func (m *Model) IsReady() bool {
	return m.ready
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		defaultTickCmd(),
	}

	if m.services != nil {
		cmds = append(cmds, subscribeToServicesCmd(m.services))
	}

	if m.login != nil {
		cmds = append(cmds, m.login.Init())
	}
	for _, tab := range m.tabs {
		if tab != nil {
			cmds = append(cmds, tab.Init())
		}
	}

	return tea.Batch(cmds...)
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg, tea.KeyMsg, spinner.TickMsg:
		cmd, handled := m.handleTeaMsg(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		if handled {
			return m, tea.Batch(cmds...)
		}

	default:
		if appCmds := m.handleAppMsg(msg); len(appCmds) > 0 {
			cmds = append(cmds, appCmds...)
		}
	}

	if cmd := m.updateActiveTab(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleTeaMsg reports handled when the message must not reach the tabs.
func (m *Model) handleTeaMsg(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleWindowSize(msg)
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case spinner.TickMsg:
		return m.handleSpinnerTick(msg), false
	}
	return nil, false
}

func (m *Model) handleAppMsg(msg tea.Msg) []tea.Cmd {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case TickMsg:
		cmds = append(cmds, m.handleTick())
	case SubscriptionEventMsg:
		m.eventChannel = msg.Channel
		cmds = append(cmds, waitForServiceEventCmd(m.eventChannel))
	case ServiceEventMsg:
		cmds = append(cmds, m.handleServiceEventMsg(msg)...)
	case LoginMsg:
		cmds = append(cmds, m.handleLogin())
	case CancelLoginMsg:
		m.stopDeviceLogin()
	case DeviceCodeMsg:
		cmds = append(cmds, m.handleDeviceCode(msg))
	case LoginResultMsg:
		m.cancelLogin = nil
		m.stopLoading(ResourceLogin)
	case PagesResultMsg:
		m.stopLoading(ResourcePages)
	case SelectPageMsg:
		if m.services != nil {
			cmds = append(cmds, selectPageCmd(m.services, msg.Page, msg.Range))
		}
	case ApplyRangeMsg:
		if m.services != nil {
			cmds = append(cmds, applyRangeCmd(m.services, msg.Range))
		}
	case RefreshMsg:
		cmds = append(cmds, m.handleRefresh())
	case CycleRequestedMsg:
		switch {
		case msg.Error == nil:
		case models.IsValidationError(msg.Error):
			// The range was rejected; results and selection are unchanged.
			cmds = append(cmds, notifyWarningCmd(msg.Error.Error()))
		default:
			cmds = append(cmds, notifyErrorCmd(msg.Error.Error()))
		}
	case LogoutMsg:
		cmds = append(cmds, m.handleLogout())
	case LogoutResultMsg:
		if msg.Error != nil {
			cmds = append(cmds, notifyErrorCmd(msg.Error.Error()))
		}
	case AddNotificationMsg:
		cmds = append(cmds, m.handleAddNotification(msg)...)
	case RemoveNotificationMsg:
		m.state.RemoveNotification(msg.ID)
	case ClearExpiredNotificationsMsg:
		m.state.ClearExpiredNotifications()
	case StartLoadingMsg:
		m.state.SetLoading(msg.Resource, true)
	case StopLoadingMsg:
		m.stopLoading(msg.Resource)
	case CopyToClipboardMsg:
		cmds = append(cmds, copyToClipboardCmd(msg.Text, msg.Label))
	case ClipboardResultMsg:
		if msg.Error != nil {
			cmds = append(cmds, notifyErrorCmd("Copy failed: "+msg.Error.Error()))
		} else {
			cmds = append(cmds, notifySuccessCmd("Copied "+msg.Label))
		}
	case ErrorMsg:
		cmds = append(cmds, notifyErrorCmd(msg.Error.Error()))
	case TabSwitchMsg:
		m.activeTab = msg.Tab
		m.updateTabSizes()
	case ToggleHelpMsg:
		m.showHelp = !m.showHelp
	}
	return cmds
}

func (m *Model) handleWindowSize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true
	m.updateTabSizes()
}

func (m *Model) handleSpinnerTick(msg spinner.TickMsg) tea.Cmd {
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return cmd
}

func (m *Model) handleTick() tea.Cmd {
	m.state.ClearExpiredNotifications()
	return defaultTickCmd()
}

func (m *Model) handleServiceEventMsg(msg ServiceEventMsg) []tea.Cmd {
	var cmds []tea.Cmd
	if cmd := m.handleServiceEvent(msg.Event); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if m.eventChannel != nil {
		cmds = append(cmds, waitForServiceEventCmd(m.eventChannel))
	}
	return cmds
}

func (m *Model) handleLogin() tea.Cmd {
	if m.services == nil || m.state.LoggedIn() || m.state.IsLoading(ResourceLogin) {
		return nil
	}

	m.state.SetLoading(ResourceLogin, true)
	if m.services.UsesDeviceLogin() {
		m.state.SetLoadingNotification("Requesting login code...")
		return startDeviceLoginCmd(m.services)
	}
	m.state.SetLoadingNotification("Logging in...")
	return loginWithTokenCmd(m.services)
}

func (m *Model) handleDeviceCode(msg DeviceCodeMsg) tea.Cmd {
	if msg.Error != nil || msg.Code == nil {
		m.stopLoading(ResourceLogin)
		return nil
	}

	m.state.SetLoadingNotification("Waiting for approval...")
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelLogin = cancel
	return completeDeviceLoginCmd(ctx, m.services, msg.Code)
}

func (m *Model) stopDeviceLogin() {
	if m.cancelLogin != nil {
		m.cancelLogin()
		m.cancelLogin = nil
	}
}

func (m *Model) handleRefresh() tea.Cmd {
	if m.services == nil || !m.state.LoggedIn() {
		return nil
	}
	// Nothing listed yet: retry the listing instead.
	if m.state.PageCount() == 0 {
		m.state.SetLoading(ResourcePages, true)
		return loadPagesCmd(m.services)
	}
	if _, ok := m.state.SelectedPage(); !ok {
		return nil
	}
	return refreshCmd(m.services)
}

func (m *Model) handleLogout() tea.Cmd {
	m.stopDeviceLogin()
	if m.services == nil || !m.state.LoggedIn() {
		return nil
	}
	return logoutCmd(m.services)
}

func (m *Model) handleAddNotification(msg AddNotificationMsg) []tea.Cmd {
	var cmds []tea.Cmd
	id := m.state.AddNotification(msg.Type, msg.Message, msg.Duration)
	if msg.Duration > 0 {
		cmds = append(cmds, clearNotificationCmd(id, msg.Duration))
	}
	return cmds
}

func (m *Model) stopLoading(resource string) {
	m.state.SetLoading(resource, false)
	if !m.state.AnyLoading() {
		m.state.ClearLoadingNotification()
	}
}

func (m *Model) updateActiveTab(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if !m.state.LoggedIn() {
		if m.login != nil {
			m.login, cmd = m.login.Update(msg)
		}
		return cmd
	}

	if int(m.activeTab) < len(m.tabs) && m.tabs[m.activeTab] != nil {
		m.tabs[m.activeTab], cmd = m.tabs[m.activeTab].Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) updateTabSizes() {
	contentHeight := max(0, m.height-5)

	if m.login != nil {
		m.login.SetSize(m.width, m.height)
	}
	for _, tab := range m.tabs {
		if tab != nil {
			tab.SetSize(m.width, contentHeight)
		}
	}
}

func (m *Model) activeTabCaptures(msg tea.KeyMsg) bool {
	if !m.state.LoggedIn() || int(m.activeTab) >= len(m.tabs) {
		return false
	}
	if c, ok := m.tabs[m.activeTab].(KeyCapturer); ok {
		return c.CapturesKey(msg)
	}
	return false
}

// handleKeyMsg handles keyboard input. It reports handled when the key was
// consumed by a global binding.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Cmd, bool) {
	if msg.Type == tea.KeyCtrlC {
		m.stopDeviceLogin()
		return tea.Quit, true
	}
	if m.activeTabCaptures(msg) {
		return nil, false
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.stopDeviceLogin()
		return tea.Quit, true

	case key.Matches(msg, m.keymap.Help):
		m.showHelp = !m.showHelp
		return nil, true

	case key.Matches(msg, m.keymap.Escape):
		if m.showHelp {
			m.showHelp = false
			return nil, true
		}
		return nil, false
	}

	if !m.state.LoggedIn() {
		// The login screen handles everything else.
		return nil, false
	}

	switch {
	case key.Matches(msg, m.keymap.Tab1):
		m.switchTab(TabInsights)
	case key.Matches(msg, m.keymap.Tab2):
		m.switchTab(TabTrend)
	case key.Matches(msg, m.keymap.Tab3):
		m.switchTab(TabInfo)
	case key.Matches(msg, m.keymap.NextTab):
		if !m.showHelp {
			m.switchTab(TabID((int(m.activeTab) + 1) % len(m.tabs)))
		}
	case key.Matches(msg, m.keymap.PrevTab):
		if !m.showHelp {
			m.switchTab(TabID((int(m.activeTab) - 1 + len(m.tabs)) % len(m.tabs)))
		}
	case key.Matches(msg, m.keymap.Refresh):
		return m.handleRefresh(), true
	case key.Matches(msg, m.keymap.Logout):
		return m.handleLogout(), true
	default:
		return nil, false
	}
	return nil, true
}

func (m *Model) switchTab(id TabID) {
	m.activeTab = id
	m.updateTabSizes()
}

func (m *Model) handleServiceEvent(event services.ServiceEvent) tea.Cmd {
	switch e := event.(type) {
	case services.SessionChangedEvent:
		return m.handleSessionChanged(e)

	case services.PagesLoadedEvent:
		return m.handlePagesLoaded(e)

	case services.CycleStartedEvent:
		if m.state.BeginCycle(e.Page, e.Range, e.Generation) {
			m.state.SetLoadingNotification(fmt.Sprintf("Fetching insights for %s...", e.Page.Label()))
		}

	case services.CycleCompletedEvent:
		return m.handleCycleCompleted(e)

	case services.ErrorEvent:
		if e.Service == "auth" {
			m.stopLoading(ResourceLogin)
		}
		// A cancelled login was asked for.
		if errors.Is(e.Error, context.Canceled) {
			return nil
		}
		return notifyErrorCmd(fmt.Sprintf("[%s] %v", e.Service, e.Error))
	}

	return nil
}

func (m *Model) handleSessionChanged(e services.SessionChangedEvent) tea.Cmd {
	if e.Session == nil {
		m.state.ClearSession()
		m.state.ClearLoadingNotification()
		m.activeTab = TabInsights
		m.showHelp = false
		return notifyInfoCmd("Logged out")
	}

	m.state.SetSession(e.Session)
	if m.services != nil {
		m.state.SetRange(m.services.DefaultRange())
	}
	m.stopLoading(ResourceLogin)

	cmds := []tea.Cmd{
		notifySuccessCmd(fmt.Sprintf("Logged in as %s", e.Session.Profile.DisplayName())),
	}
	if m.services != nil {
		m.state.SetLoading(ResourcePages, true)
		m.state.SetLoadingNotification("Loading pages...")
		cmds = append(cmds, loadPagesCmd(m.services))
	}
	return tea.Batch(cmds...)
}

// handlePagesLoaded stores the list and selects the first page when
// nothing is selected yet.
func (m *Model) handlePagesLoaded(e services.PagesLoadedEvent) tea.Cmd {
	m.state.SetPages(e.Pages)
	m.stopLoading(ResourcePages)

	if len(e.Pages) == 0 {
		return notifyWarningCmd("No pages found for this account")
	}
	if _, ok := m.state.SelectedPage(); ok || m.services == nil {
		return nil
	}
	return selectPageCmd(m.services, e.Pages[0], m.state.Range())
}

func (m *Model) handleCycleCompleted(e services.CycleCompletedEvent) tea.Cmd {
	if !m.state.CompleteCycle(e.Generation, e.Results, e.Error) {
		return nil
	}
	if !m.state.AnyLoading() {
		m.state.ClearLoadingNotification()
	}

	updated := func() tea.Msg {
		return ResultsUpdatedMsg{Generation: e.Generation, Results: e.Results, Error: e.Error}
	}
	// Fetch failures are reported through their ErrorEvent.
	if e.Error != nil && models.IsValidationError(e.Error) {
		return tea.Batch(updated, notifyWarningCmd(e.Error.Error()))
	}
	return updated
}

// View renders the application UI.
func (m *Model) View() string {
	if !m.ready {
		return m.styles.Content.Render(fmt.Sprintf("%s Loading...", m.spinner.View()))
	}

	var mainView string
	if !m.state.LoggedIn() {
		if m.login != nil {
			mainView = m.login.View()
		} else {
			mainView = m.styles.Content.Render(m.styles.Subtle.Render("Not logged in."))
		}
	} else {
		var b strings.Builder
		b.WriteString(m.renderNavbar())
		b.WriteString("\n")
		if int(m.activeTab) < len(m.tabs) && m.tabs[m.activeTab] != nil {
			b.WriteString(m.tabs[m.activeTab].View())
		} else {
			b.WriteString(m.renderPlaceholder())
		}
		mainView = b.String()
	}

	// Overlays need the full screen height to land on.
	if lines := strings.Count(mainView, "\n") + 1; lines < m.height {
		mainView += strings.Repeat("\n", m.height-lines)
	}

	if m.showHelp {
		help := m.renderHelp()
		x := (m.width - lipgloss.Width(help)) / 2
		y := (m.height - lipgloss.Height(help)) / 2
		mainView = placeOver(mainView, help, x, y)
	}

	if toasts := m.renderNotifications(); toasts != "" {
		mainView = placeOver(mainView, toasts, m.width-lipgloss.Width(toasts)-2, 2)
	}

	return mainView
}

// placeOver draws overlay on top of base with its top-left corner at column
// x, row y. Rows past the end of base are dropped.
func placeOver(base, overlay string, x, y int) string {
	x, y = max(x, 0), max(y, 0)
	rows := strings.Split(base, "\n")
	width := lipgloss.Width(overlay)

	for i, line := range strings.Split(overlay, "\n") {
		if y+i >= len(rows) {
			break
		}
		row := rows[y+i]
		left := ansi.Truncate(row, x, "")
		if gap := x - lipgloss.Width(left); gap > 0 {
			left += strings.Repeat(" ", gap)
		}
		rows[y+i] = left + line + ansi.TruncateLeft(row, x+width, "")
	}

	return strings.Join(rows, "\n")
}

func (m *Model) renderNavbar() string {
	var tabs []string

	for i, name := range m.tabNames {
		if TabID(i) == m.activeTab {
			tabs = append(tabs, m.styles.ActiveTab.Render(fmt.Sprintf("[%d] %s", i+1, name)))
		} else {
			tabs = append(tabs, m.styles.InactiveTab.Render(fmt.Sprintf(" %d  %s", i+1, name)))
		}
	}

	if session := m.state.Session(); session != nil {
		tabs = append(tabs, m.styles.Subtle.Render("  "+session.Profile.DisplayName()))
	}

	tabBar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	return m.styles.TabBar.Width(m.width).Render(tabBar)
}

// renderNotifications stacks the live notifications, right aligned. It
// returns "" when there are none.
func (m *Model) renderNotifications() string {
	notifications := m.state.GetNotifications()
	if len(notifications) == 0 {
		return ""
	}

	toasts := make([]string, 0, len(notifications))
	for _, n := range notifications {
		style, prefix := m.styles.NotificationInfo, m.spinner.View()
		switch n.Type {
		case NotificationSuccess:
			style, prefix = m.styles.NotificationSuccess, "✓"
		case NotificationError:
			style, prefix = m.styles.NotificationError, "✗"
		case NotificationWarning:
			style, prefix = m.styles.NotificationWarning, "!"
		case NotificationInfo:
			prefix = "i"
		}
		toasts = append(toasts, m.styles.Toast.Render(style.Render(prefix+" "+n.Message)))
	}

	return lipgloss.JoinVertical(lipgloss.Right, toasts...)
}

func (m *Model) renderHelp() string {
	rows := [][2]string{
		{"1-3", "Jump to tab"},
		{"Tab/→ Shift+Tab/←", "Cycle tabs"},
		{"r", "Re-fetch insights"},
		{"L", "Log out"},
		{"?", "Toggle help"},
		{"q Ctrl+C", "Quit"},
	}
	if m.state.LoggedIn() && int(m.activeTab) < len(m.tabs) && m.tabs[m.activeTab] != nil {
		for _, b := range m.tabs[m.activeTab].ShortHelp() {
			if b.Enabled() {
				rows = append(rows, [2]string{b.Help().Key, b.Help().Desc})
			}
		}
	}

	keyWidth := 0
	for _, r := range rows {
		keyWidth = max(keyWidth, len(r[0]))
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "%s  %s\n", m.styles.Highlight.Render(fmt.Sprintf("%-*s", keyWidth, r[0])), r[1])
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Subtle.Render("esc or ? dismisses this panel"))

	return styles.HelpPanelStyle.Render(b.String())
}

func (m *Model) renderPlaceholder() string {
	return m.styles.Content.Render(m.styles.Subtle.Render(
		fmt.Sprintf("%s has nothing to show.", m.tabNames[m.activeTab])))
}

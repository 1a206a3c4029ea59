// Package services provides service orchestration for the TUI.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/j-veylop/page-insights-tui/internal/config"
	"github.com/j-veylop/page-insights-tui/internal/db"
	"github.com/j-veylop/page-insights-tui/internal/graph"
	"github.com/j-veylop/page-insights-tui/internal/logger"
	"github.com/j-veylop/page-insights-tui/internal/models"
	"github.com/j-veylop/page-insights-tui/internal/services/auth"
	"github.com/j-veylop/page-insights-tui/internal/services/insights"
	"github.com/j-veylop/page-insights-tui/internal/services/pages"
)

type (
	// SessionChangedEvent is emitted on login and logout. Session is nil
	// after logout.
	SessionChangedEvent struct {
		Session *models.Session
	}

	// PagesLoadedEvent is emitted when the page list is available.
	PagesLoadedEvent struct {
		Pages []models.Page
	}

	// CycleStartedEvent is emitted when a fetch cycle begins and the
	// previous results have been cleared.
	CycleStartedEvent struct {
		Page       models.Page
		Range      models.DateRange
		Generation uint64
	}

	// CycleCompletedEvent is emitted when the current cycle finishes.
	// Superseded cycles never produce one.
	CycleCompletedEvent struct {
		Results    *models.ResultSet
		Error      error
		Cycle      models.FetchCycle
		Generation uint64
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Error   error
		Service string
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (SessionChangedEvent) isServiceEvent() {}
func (PagesLoadedEvent) isServiceEvent()    {}
func (CycleStartedEvent) isServiceEvent()   {}
func (CycleCompletedEvent) isServiceEvent() {}
func (ErrorEvent) isServiceEvent()          {}

// GraphClient is everything the manager's services need from the Graph API.
type GraphClient interface {
	auth.Client
	pages.Client
	insights.Client
}

// Manager owns the session and orchestrates services and event routing.
type Manager struct {
	cfg      *config.Config
	auth     *auth.Service
	pages    *pages.Service
	insights *insights.Service
	database *db.DB
	notify   func(title, body string) error

	ctx    context.Context
	stop   context.CancelFunc
	cycles sync.WaitGroup

	// storeMu orders cycle writes against the store reset on logout.
	storeMu sync.Mutex

	mu          sync.RWMutex
	subscribers []chan ServiceEvent
	session     *models.Session
	pageList    []models.Page
	selected    *models.Page
	current     *models.ResultSet
	rng         models.DateRange
	generation  uint64
	epoch       uint64 // bumped on every logout
	cancelCycle context.CancelFunc
	loading     bool
}

// NewManager creates a service manager talking to the configured Graph API.
func NewManager(cfg *config.Config) (*Manager, error) {
	return NewManagerWithClient(cfg, graph.NewFromConfig(cfg))
}

// NewManagerWithClient creates a service manager using client for every
// remote call.
func NewManagerWithClient(cfg *config.Config, client GraphClient) (*Manager, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	insightsCfg := insights.DefaultConfig()
	insightsCfg.MaxConcurrent = cfg.MaxConcurrentRequests
	insightsService, err := insights.New(client, insightsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize insights service: %w", err)
	}

	database, err := db.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	// A file store may still hold an earlier session's cycles.
	if !database.InMemory() {
		if err := database.Reset(context.Background()); err != nil {
			_ = database.Close()
			return nil, fmt.Errorf("failed to reset database: %w", err)
		}
	}

	ctx, stop := context.WithCancel(context.Background())

	m := &Manager{
		cfg:      cfg,
		auth:     auth.New(client, config.ScopeString()),
		pages:    pages.New(client),
		insights: insightsService,
		database: database,
		ctx:      ctx,
		stop:     stop,
		notify: func(title, body string) error {
			return beeep.Notify(title, body, "")
		},
	}
	m.rng = m.DefaultRange()

	return m, nil
}

// notifyDesktop shows a desktop notification when enabled.
func (m *Manager) notifyDesktop(title, body string) {
	if !m.cfg.DesktopNotifications || m.notify == nil {
		return
	}
	if err := m.notify(title, body); err != nil {
		logger.Debug("Desktop notification failed", "error", err)
	}
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, WaitForEvent(ch)
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return event
	}
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Config returns the configuration the manager was built with.
func (m *Manager) Config() *config.Config {
	return m.cfg
}

// Database returns the session store.
func (m *Manager) Database() *db.DB {
	return m.database
}

// Specs returns the metrics fetched each cycle, in display order.
func (m *Manager) Specs() []models.MetricSpec {
	return m.insights.Specs()
}

// Wait blocks until every in-flight fetch cycle has finished.
func (m *Manager) Wait() {
	m.cycles.Wait()
}

// Close cancels in-flight work and closes the manager and its store.
func (m *Manager) Close() error {
	m.stop()
	m.cycles.Wait()

	m.mu.Lock()
	for _, sub := range m.subscribers {
		close(sub)
	}
	m.subscribers = nil
	m.session = nil
	m.current = nil
	m.mu.Unlock()

	if m.database != nil {
		if err := m.database.Close(); err != nil {
			return err
		}
	}
	return nil
}

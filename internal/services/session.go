package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/j-veylop/page-insights-tui/internal/graph"
	"github.com/j-veylop/page-insights-tui/internal/logger"
	"github.com/j-veylop/page-insights-tui/internal/models"
)

// errNotLoggedIn is returned by session operations started while logged out.
var errNotLoggedIn = errors.New("not logged in")

// Session returns a copy of the current session, or nil when logged out.
func (m *Manager) Session() *models.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.session == nil {
		return nil
	}
	s := *m.session
	return &s
}

// LoggedIn reports whether a credential is held.
func (m *Manager) LoggedIn() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.Active()
}

// UsesDeviceLogin reports whether login goes through the device flow.
func (m *Manager) UsesDeviceLogin() bool {
	return m.cfg.UsesDeviceLogin()
}

// LoginWithToken logs in with the access token from the configuration.
func (m *Manager) LoginWithToken(ctx context.Context) error {
	session, err := m.auth.LoginWithToken(ctx, m.cfg.AccessToken)
	if err != nil {
		m.broadcast(ErrorEvent{Service: "auth", Error: err})
		return err
	}

	m.setSession(session)
	return nil
}

// StartDeviceLogin requests a user code for the device login flow.
func (m *Manager) StartDeviceLogin(ctx context.Context) (*graph.DeviceCode, error) {
	code, err := m.auth.StartDeviceLogin(ctx)
	if err != nil {
		m.broadcast(ErrorEvent{Service: "auth", Error: err})
		return nil, err
	}
	return code, nil
}

// CompleteDeviceLogin waits for the user to approve code and starts the
// session.
func (m *Manager) CompleteDeviceLogin(ctx context.Context, code *graph.DeviceCode) error {
	session, err := m.auth.CompleteDeviceLogin(ctx, code)
	if err != nil {
		m.broadcast(ErrorEvent{Service: "auth", Error: err})
		return err
	}

	m.setSession(session)
	m.notifyDesktop("Logged in", fmt.Sprintf("Signed in as %s", session.Profile.DisplayName()))
	return nil
}

func (m *Manager) setSession(session *models.Session) {
	m.mu.Lock()
	m.session = session
	m.mu.Unlock()

	logger.Info("Session started", "user", session.Profile.ID)

	s := *session
	m.broadcast(SessionChangedEvent{Session: &s})
}

// Logout tears the session down: the credential, profile, page list,
// selection and results are dropped, any in-flight cycle is cancelled and
// the session store is emptied.
func (m *Manager) Logout(ctx context.Context) error {
	m.storeMu.Lock()
	m.mu.Lock()
	if m.cancelCycle != nil {
		m.cancelCycle()
		m.cancelCycle = nil
	}
	// Bumping the generation turns any cycle still completing into a stale one.
	m.generation++
	m.epoch++
	m.session = nil
	m.pageList = nil
	m.selected = nil
	m.current = nil
	m.loading = false
	m.rng = m.DefaultRange()
	m.mu.Unlock()

	m.pages.Reset()

	var err error
	if resetErr := m.database.Reset(ctx); resetErr != nil {
		err = fmt.Errorf("failed to clear session store: %w", resetErr)
		logger.Error("Logout cleanup failed", "error", resetErr)
	}
	m.storeMu.Unlock()

	logger.Info("Session ended")
	m.broadcast(SessionChangedEvent{Session: nil})
	return err
}

// LoadPages lists the pages of the logged-in user.
func (m *Manager) LoadPages(ctx context.Context) ([]models.Page, error) {
	m.mu.RLock()
	session := m.session
	m.mu.RUnlock()

	if !session.Active() {
		err := fmt.Errorf("%w: %w", models.ErrResourceListFailed, errNotLoggedIn)
		m.broadcast(ErrorEvent{Service: "pages", Error: err})
		return nil, err
	}

	list, err := m.pages.List(ctx, session.Credential)
	if err != nil {
		m.broadcast(ErrorEvent{Service: "pages", Error: err})
		return nil, err
	}

	m.mu.Lock()
	// A logout while listing leaves nothing to populate.
	if m.session != session {
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: %w", models.ErrResourceListFailed, errNotLoggedIn)
	}
	m.pageList = slices.Clone(list)
	m.mu.Unlock()

	m.broadcast(PagesLoadedEvent{Pages: slices.Clone(list)})
	return list, nil
}

// Pages returns the last loaded page list.
func (m *Manager) Pages() []models.Page {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.pageList)
}

// DefaultRange returns the window offered before the user picks one.
func (m *Manager) DefaultRange() models.DateRange {
	return models.DefaultDateRange(time.Now(), m.cfg.DefaultRangeDays)
}

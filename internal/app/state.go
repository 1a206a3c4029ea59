// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/j-veylop/page-insights-tui/internal/models"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"

	maxNotifications = 10
)

// Resources tracked by SetLoading.
const (
	ResourceLogin    = "login"
	ResourcePages    = "pages"
	ResourceInsights = "insights"
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	case NotificationLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	CreatedAt time.Time
	ID        string
	Message   string
	Type      NotificationType
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// LoadingState tracks loading states for different resources.
type LoadingState struct {
	Login    bool
	Pages    bool
	Insights bool
}

// State is the UI-side view of the session shared by all tabs.
//
// Fetch cycles are tracked by generation: results are only accepted for
// the most recently started cycle, so a late completion of an older cycle
// can never overwrite what the user asked for last.
type State struct {
	mu sync.RWMutex

	lastUpdated time.Time
	session     *models.Session
	results     *models.ResultSet
	cycleErr    error
	rng         models.DateRange
	selectedID  string
	pages       []models.Page
	generation  uint64

	Loading LoadingState

	notifications []Notification
}

// NewState creates an empty, logged-out state.
func NewState() *State {
	return &State{
		pages:         make([]models.Page, 0),
		notifications: make([]Notification, 0),
	}
}

// SetSession stores the active session.
func (s *State) SetSession(session *models.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
}

// Session returns the active session, or nil when logged out.
func (s *State) Session() *models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// LoggedIn reports whether a session is active.
func (s *State) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Active()
}

// ClearSession drops the session together with every piece of data that
// was loaded for it. Notifications survive.
func (s *State) ClearSession() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = nil
	s.pages = make([]models.Page, 0)
	s.selectedID = ""
	s.results = nil
	s.cycleErr = nil
	s.rng = models.DateRange{}
	s.Loading = LoadingState{}
	s.lastUpdated = time.Time{}
	// Any completion still in flight belongs to the old session.
	s.generation++
}

// SetPages replaces the page list.
func (s *State) SetPages(list []models.Page) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages = slices.Clone(list)
}

// Pages returns a copy of the page list.
func (s *State) Pages() []models.Page {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.pages)
}

// PageCount returns the number of listed pages.
func (s *State) PageCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pages)
}

// SelectedPage returns the page the current cycle belongs to.
func (s *State) SelectedPage() (models.Page, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.selectedID == "" {
		return models.Page{}, false
	}
	for _, p := range s.pages {
		if p.ID == s.selectedID {
			return p, true
		}
	}
	return models.Page{}, false
}

// SelectedIndex returns the list position of the selected page, or -1.
func (s *State) SelectedIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.IndexFunc(s.pages, func(p models.Page) bool { return p.ID == s.selectedID })
}

// BeginCycle records that cycle gen started for page over rng and clears
// the previous results. Events of older generations are ignored.
func (s *State) BeginCycle(page models.Page, rng models.DateRange, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen < s.generation {
		return false
	}
	s.generation = gen
	s.selectedID = page.ID
	s.rng = rng
	s.results = nil
	s.cycleErr = nil
	s.Loading.Insights = true
	return true
}

// CompleteCycle stores the outcome of cycle gen. It reports false and
// changes nothing when gen is not the latest started cycle.
func (s *State) CompleteCycle(gen uint64, rs *models.ResultSet, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return false
	}
	s.Loading.Insights = false
	s.cycleErr = err
	if err != nil {
		s.results = nil
		return true
	}
	s.results = rs
	s.lastUpdated = time.Now()
	return true
}

// Results returns the results of the latest successful cycle.
func (s *State) Results() *models.ResultSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.results
}

// CycleError returns why the latest cycle produced no results.
func (s *State) CycleError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cycleErr
}

// Generation returns the generation of the latest started cycle.
func (s *State) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Range returns the range of the latest started cycle.
func (s *State) Range() models.DateRange {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rng
}

// SetRange sets the range offered for the next selection.
func (s *State) SetRange(rng models.DateRange) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng = rng
}

// SetLoading sets the loading state for a specific resource.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case ResourceLogin:
		s.Loading.Login = loading
	case ResourcePages:
		s.Loading.Pages = loading
	case ResourceInsights:
		s.Loading.Insights = loading
	}
}

// IsLoading reports whether resource is loading.
func (s *State) IsLoading(resource string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch resource {
	case ResourceLogin:
		return s.Loading.Login
	case ResourcePages:
		return s.Loading.Pages
	case ResourceInsights:
		return s.Loading.Insights
	}
	return false
}

// AnyLoading returns true if any resource is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Login || s.Loading.Pages || s.Loading.Insights
}

// LastUpdated returns when results were last accepted.
func (s *State) LastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdated
}

// AddNotification queues a notification and returns its ID. Only the
// newest maxNotifications are kept.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	n := Notification{
		ID:        uuid.NewString(),
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, n)
	if over := len(s.notifications) - maxNotifications; over > 0 {
		s.notifications = slices.Delete(s.notifications, 0, over)
	}
	return n.ID
}

// RemoveNotification drops the notification with the given ID, if any.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = slices.DeleteFunc(s.notifications, func(n Notification) bool {
		return n.ID == id
	})
}

// ClearExpiredNotifications drops every notification past its duration.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = slices.DeleteFunc(s.notifications, func(n Notification) bool {
		return n.IsExpired()
	})
}

// GetNotifications returns the unexpired notifications, oldest first.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var live []Notification
	for _, n := range s.notifications {
		if !n.IsExpired() {
			live = append(live, n)
		}
	}
	return live
}

// SetLoadingNotification shows message in the single spinner notification,
// creating it on first use.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := slices.IndexFunc(s.notifications, func(n Notification) bool {
		return n.ID == LoadingNotificationID
	}); i >= 0 {
		s.notifications[i].Message = message
		return
	}
	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

// ClearLoadingNotification removes the spinner notification.
func (s *State) ClearLoadingNotification() {
	s.RemoveNotification(LoadingNotificationID)
}

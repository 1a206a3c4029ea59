package app

import (
	"time"

	"github.com/j-veylop/page-insights-tui/internal/graph"
	"github.com/j-veylop/page-insights-tui/internal/models"
	"github.com/j-veylop/page-insights-tui/internal/services"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// StartLoadingMsg signals that a resource is starting to load.
type StartLoadingMsg struct {
	Resource string
}

// StopLoadingMsg signals that a resource has finished loading.
type StopLoadingMsg struct {
	Resource string
}

// LoginMsg asks the model to start the configured login flow.
type LoginMsg struct{}

// CancelLoginMsg abandons a device login that is waiting for approval.
type CancelLoginMsg struct{}

// LoginResultMsg is sent when a login attempt finishes.
type LoginResultMsg struct {
	Error  error
	Method string
}

// DeviceCodeMsg carries the user code to show while the device login waits.
type DeviceCodeMsg struct {
	Code  *graph.DeviceCode
	Error error
}

// LogoutMsg asks the model to end the session.
type LogoutMsg struct{}

// LogoutResultMsg is sent when logout cleanup finishes.
type LogoutResultMsg struct {
	Error error
}

// PagesResultMsg is sent when a page listing request finishes.
type PagesResultMsg struct {
	Error error
	Count int
}

// SelectPageMsg asks the model to fetch insights for Page over Range.
type SelectPageMsg struct {
	Range models.DateRange
	Page  models.Page
}

// ApplyRangeMsg asks the model to re-fetch the selected page over Range.
type ApplyRangeMsg struct {
	Range models.DateRange
}

// RefreshMsg asks the model to re-fetch the selected page.
type RefreshMsg struct{}

// CycleRequestedMsg is sent once a fetch cycle has been requested.
// Error is set when the request was refused before any fetch started.
type CycleRequestedMsg struct {
	Error      error
	Generation uint64
}

// ResultsUpdatedMsg is sent after the state accepted a cycle outcome.
type ResultsUpdatedMsg struct {
	Results    *models.ResultSet
	Error      error
	Generation uint64
}

// AddNotificationMsg adds a new notification.
type AddNotificationMsg struct {
	Message  string
	Type     NotificationType
	Duration time.Duration
}

// RemoveNotificationMsg removes a specific notification.
type RemoveNotificationMsg struct {
	ID string
}

// ServiceEventMsg wraps a service event for the Bubble Tea update loop.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// ErrorMsg represents a generic error.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help overlay.
type ToggleHelpMsg struct{}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// CopyToClipboardMsg requests copying text to the clipboard.
type CopyToClipboardMsg struct {
	Text  string
	Label string
}

// ClipboardResultMsg is sent once a clipboard write finishes.
type ClipboardResultMsg struct {
	Error error
	Label string
}

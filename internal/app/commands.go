package app

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/page-insights-tui/internal/graph"
	"github.com/j-veylop/page-insights-tui/internal/models"
	"github.com/j-veylop/page-insights-tui/internal/services"
	"github.com/j-veylop/page-insights-tui/internal/services/auth"
)

const (
	// DefaultTickInterval is the default interval between ticks.
	DefaultTickInterval = 2 * time.Second

	// DefaultNotificationDuration is the default duration for notifications.
	DefaultNotificationDuration = 5 * time.Second

	// QuickNotificationDuration is for brief notifications.
	QuickNotificationDuration = 3 * time.Second

	// LongNotificationDuration is for important notifications.
	LongNotificationDuration = 10 * time.Second

	// requestTimeout bounds the one-shot requests issued from the UI.
	requestTimeout = time.Minute
)

// tickCmd returns a command that sends a TickMsg after the specified interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// defaultTickCmd returns a command that sends a TickMsg after the default interval.
func defaultTickCmd() tea.Cmd {
	return tickCmd(DefaultTickInterval)
}

// loginWithTokenCmd logs in with the configured access token.
func loginWithTokenCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		err := mgr.LoginWithToken(ctx)
		return LoginResultMsg{Method: auth.MethodToken, Error: err}
	}
}

// startDeviceLoginCmd requests a device code to show to the user.
func startDeviceLoginCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		code, err := mgr.StartDeviceLogin(ctx)
		return DeviceCodeMsg{Code: code, Error: err}
	}
}

// completeDeviceLoginCmd waits until code is approved, expires or ctx is
// cancelled.
func completeDeviceLoginCmd(ctx context.Context, mgr *services.Manager, code *graph.DeviceCode) tea.Cmd {
	return func() tea.Msg {
		err := mgr.CompleteDeviceLogin(ctx, code)
		return LoginResultMsg{Method: auth.MethodDevice, Error: err}
	}
}

// loadPagesCmd lists the pages of the logged-in user.
func loadPagesCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		list, err := mgr.LoadPages(ctx)
		return PagesResultMsg{Count: len(list), Error: err}
	}
}

// selectPageCmd starts a fetch cycle for page over rng.
func selectPageCmd(mgr *services.Manager, page models.Page, rng models.DateRange) tea.Cmd {
	return func() tea.Msg {
		gen, err := mgr.SelectPage(page, rng)
		return CycleRequestedMsg{Generation: gen, Error: err}
	}
}

// applyRangeCmd re-fetches the selected page over rng.
func applyRangeCmd(mgr *services.Manager, rng models.DateRange) tea.Cmd {
	return func() tea.Msg {
		gen, err := mgr.Apply(rng)
		return CycleRequestedMsg{Generation: gen, Error: err}
	}
}

// refreshCmd re-fetches the selected page with its current range.
func refreshCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		gen, err := mgr.Refresh()
		return CycleRequestedMsg{Generation: gen, Error: err}
	}
}

// logoutCmd ends the session and clears everything loaded for it.
func logoutCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		return LogoutResultMsg{Error: mgr.Logout(ctx)}
	}
}

// subscribeToServicesCmd returns a command that subscribes to service events.
func subscribeToServicesCmd(mgr *services.Manager) tea.Cmd {
	ch, _ := mgr.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd returns a command that waits for the next service event.
func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// clearNotificationCmd returns a command that removes a notification after a delay.
func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

// copyToClipboardCmd writes text to the system clipboard.
func copyToClipboardCmd(text, label string) tea.Cmd {
	return func() tea.Msg {
		return ClipboardResultMsg{Label: label, Error: writeClipboard(text)}
	}
}

func notifyCmd(t NotificationType, message string, d time.Duration) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{Type: t, Message: message, Duration: d}
	}
}

// notifySuccessCmd returns a command that adds a success notification.
func notifySuccessCmd(message string) tea.Cmd {
	return notifyCmd(NotificationSuccess, message, DefaultNotificationDuration)
}

// notifyErrorCmd returns a command that adds an error notification.
func notifyErrorCmd(message string) tea.Cmd {
	return notifyCmd(NotificationError, message, LongNotificationDuration)
}

// notifyWarningCmd returns a command that adds a warning notification.
func notifyWarningCmd(message string) tea.Cmd {
	return notifyCmd(NotificationWarning, message, DefaultNotificationDuration)
}

// notifyInfoCmd returns a command that adds an info notification.
func notifyInfoCmd(message string) tea.Cmd {
	return notifyCmd(NotificationInfo, message, QuickNotificationDuration)
}

// Commands provides a public interface to the command functions for tabs.
type Commands struct {
	manager *services.Manager
}

// NewCommands creates a new Commands instance.
func NewCommands(mgr *services.Manager) *Commands {
	return &Commands{manager: mgr}
}

// Tick returns a tick command with the specified interval.
func (c *Commands) Tick(interval time.Duration) tea.Cmd {
	return tickCmd(interval)
}

// SelectPage returns a command that fetches insights for page over rng.
func (c *Commands) SelectPage(page models.Page, rng models.DateRange) tea.Cmd {
	return func() tea.Msg { return SelectPageMsg{Page: page, Range: rng} }
}

// ApplyRange returns a command that re-fetches the selected page over rng.
func (c *Commands) ApplyRange(rng models.DateRange) tea.Cmd {
	return func() tea.Msg { return ApplyRangeMsg{Range: rng} }
}

// NotifySuccess returns a command that adds a success notification.
func (c *Commands) NotifySuccess(message string) tea.Cmd {
	return notifySuccessCmd(message)
}

// NotifyError returns a command that adds an error notification.
func (c *Commands) NotifyError(message string) tea.Cmd {
	return notifyErrorCmd(message)
}

// NotifyWarning returns a command that adds a warning notification.
func (c *Commands) NotifyWarning(message string) tea.Cmd {
	return notifyWarningCmd(message)
}

// NotifyInfo returns a command that adds an info notification.
func (c *Commands) NotifyInfo(message string) tea.Cmd {
	return notifyInfoCmd(message)
}

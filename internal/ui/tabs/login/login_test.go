package login

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/page-insights-tui/internal/app"
	"github.com/j-veylop/page-insights-tui/internal/config"
	"github.com/j-veylop/page-insights-tui/internal/graph"
)

func enter() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyEnter} }
func esc() tea.KeyMsg   { return tea.KeyMsg{Type: tea.KeyEsc} }

func TestNew(t *testing.T) {
	m := New(app.NewState(), &config.Config{})
	if m == nil {
		t.Fatal("New returned nil")
	}
	if m.Init() == nil {
		t.Error("Init should start the spinner")
	}
}

func TestEnterRequestsLogin(t *testing.T) {
	m := New(app.NewState(), &config.Config{})

	_, cmd := m.Update(enter())
	if cmd == nil {
		t.Fatal("enter should return a command")
	}
	if _, ok := cmd().(app.LoginMsg); !ok {
		t.Error("enter should emit LoginMsg")
	}
}

func TestEnterIgnoredWhileLoading(t *testing.T) {
	state := app.NewState()
	state.SetLoading(app.ResourceLogin, true)
	m := New(state, &config.Config{})

	if _, cmd := m.Update(enter()); cmd != nil {
		t.Error("enter should be ignored while a login is in flight")
	}
}

func TestDeviceCodeFlow(t *testing.T) {
	m := New(app.NewState(), &config.Config{AppID: "app", ClientToken: "client"})
	m.SetSize(80, 24)

	m.Update(app.DeviceCodeMsg{Code: &graph.DeviceCode{
		UserCode:        "ABCD-1234",
		VerificationURI: "https://example.com/device",
		ExpiresIn:       420,
	}})
	if !m.Waiting() {
		t.Fatal("device code should put the screen in waiting mode")
	}

	view := m.View()
	for _, want := range []string{"ABCD-1234", "https://example.com/device", "esc to cancel"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	if _, cmd := m.Update(enter()); cmd != nil {
		t.Error("enter should do nothing while waiting")
	}

	_, cmd := m.Update(esc())
	if cmd == nil {
		t.Fatal("esc should cancel the device login")
	}
	if _, ok := cmd().(app.CancelLoginMsg); !ok {
		t.Error("esc should emit CancelLoginMsg")
	}
	if m.Waiting() {
		t.Error("esc should leave waiting mode")
	}
}

func TestEscIgnoredWhenIdle(t *testing.T) {
	m := New(app.NewState(), &config.Config{})
	if _, cmd := m.Update(esc()); cmd != nil {
		t.Error("esc should do nothing without a device code")
	}
}

func TestLoginFailureShowsRetry(t *testing.T) {
	m := New(app.NewState(), &config.Config{})
	m.SetSize(80, 24)

	m.Update(app.LoginResultMsg{Error: errors.New("token rejected")})
	if m.Err() == nil {
		t.Fatal("failure should be kept")
	}

	view := m.View()
	if !strings.Contains(view, "token rejected") || !strings.Contains(view, "retry") {
		t.Errorf("view should show the failure and retry hint:\n%s", view)
	}
}

func TestCancelledLoginIsNotAFailure(t *testing.T) {
	m := New(app.NewState(), &config.Config{})
	m.Update(app.LoginResultMsg{Error: context.Canceled})
	if m.Err() != nil {
		t.Errorf("Err = %v, want nil", m.Err())
	}
}

func TestDeviceCodeError(t *testing.T) {
	m := New(app.NewState(), &config.Config{})
	m.Update(app.DeviceCodeMsg{Error: errors.New("app not configured")})
	if m.Waiting() {
		t.Error("failed device code request should not wait")
	}
	if m.Err() == nil {
		t.Error("device code failure should be kept")
	}
}

func TestMethodLabel(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.Config
		want string
	}{
		{"token", &config.Config{AccessToken: "tok"}, "access token"},
		{"device", &config.Config{AppID: "app", ClientToken: "client"}, "device code"},
		{"nil config", nil, "device code"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(app.NewState(), tt.cfg)
			if got := m.methodLabel(); !strings.Contains(got, tt.want) {
				t.Errorf("methodLabel = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHelp(t *testing.T) {
	m := New(app.NewState(), &config.Config{})
	if len(m.ShortHelp()) == 0 || len(m.FullHelp()) == 0 {
		t.Error("help should list bindings")
	}
}

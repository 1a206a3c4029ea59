package info

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/page-insights-tui/internal/app"
	"github.com/j-veylop/page-insights-tui/internal/config"
	"github.com/j-veylop/page-insights-tui/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		AppID:                 "1234",
		GraphBaseURL:          "https://graph.facebook.com",
		GraphAPIVersion:       "v19.0",
		DatabasePath:          "/tmp/insights.db",
		HTTPTimeout:           30 * time.Second,
		MaxConcurrentRequests: 5,
		DefaultRangeDays:      28,
	}
}

func TestNew(t *testing.T) {
	m := New(app.NewState(), testConfig())
	if m == nil {
		t.Fatal("New returned nil")
	}
	if m.Init() != nil {
		t.Error("Init should return nil")
	}
}

func TestModel_Update(t *testing.T) {
	m := New(app.NewState(), testConfig())

	updated, cmd := m.Update(nil)
	if updated == nil {
		t.Error("Update returned nil model")
	}
	if cmd != nil {
		t.Error("non-key messages should be ignored")
	}
}

func TestModel_Copy(t *testing.T) {
	m := New(app.NewState(), testConfig())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	if cmd == nil {
		t.Fatal("c should copy the database path")
	}
	msg, ok := cmd().(app.CopyToClipboardMsg)
	if !ok || msg.Text != "/tmp/insights.db" {
		t.Errorf("unexpected copy message %#v", cmd())
	}

	if len(m.ShortHelp()) != 1 {
		t.Error("copy binding should be listed for a file store")
	}
}

func TestModel_CopyDisabledWithoutFile(t *testing.T) {
	memory := testConfig()
	memory.DatabasePath = ":memory:"
	empty := testConfig()
	empty.DatabasePath = ""

	tests := []struct {
		cfg  *config.Config
		name string
	}{
		{nil, "no config"},
		{memory, "in-memory store"},
		{empty, "default path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(app.NewState(), tt.cfg)
			if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")}); cmd != nil {
				t.Errorf("c produced %#v, want nothing to copy", cmd())
			}
			if len(m.ShortHelp()) != 0 {
				t.Error("copy binding should be hidden")
			}
		})
	}
}

func TestModel_View(t *testing.T) {
	m := New(app.NewState(), testConfig())
	m.SetSize(100, 80)

	view := m.View()
	for _, want := range []string{
		"https://graph.facebook.com/v19.0",
		"/tmp/insights.db",
		"device code",
		"Not logged in",
		"Telemetry",
		"Go Version",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModel_ViewSession(t *testing.T) {
	state := app.NewState()
	state.SetSession(&models.Session{
		StartedAt:  time.Now(),
		Profile:    models.Profile{ID: "u1", Name: "Ada"},
		Credential: models.Credential{Token: "tok"},
	})
	state.SetPages([]models.Page{{ID: "p1", Name: "Bakery"}})

	cfg := testConfig()
	cfg.AccessToken = "tok"
	m := New(state, cfg)
	m.SetSize(100, 80)

	view := m.View()
	for _, want := range []string{"Ada", "access token", "not reported"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModel_ViewWithoutConfig(t *testing.T) {
	m := New(app.NewState(), nil)
	m.SetSize(80, 60)
	if !strings.Contains(m.View(), "Configuration not loaded") {
		t.Error("view should say the configuration is missing")
	}
}

func TestModel_Help(t *testing.T) {
	m := New(app.NewState(), testConfig())
	if len(m.ShortHelp()) == 0 || len(m.FullHelp()) == 0 {
		t.Error("help should list bindings")
	}
}

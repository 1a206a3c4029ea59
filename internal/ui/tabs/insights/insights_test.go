package insights

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/page-insights-tui/internal/app"
	"github.com/j-veylop/page-insights-tui/internal/models"
)

var testRange = models.NewDateRange(
	time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	time.Date(2024, 3, 28, 0, 0, 0, 0, time.UTC),
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel() (*Model, *app.State) {
	state := app.NewState()
	state.SetPages([]models.Page{
		{ID: "p1", Name: "Bakery", Category: "Food"},
		{ID: "p2", Name: "Cafe"},
	})
	state.SetRange(testRange)
	m := New(state, app.NewCommands(nil))
	m.SetSize(120, 40)
	return m, state
}

func sampleResults() *models.ResultSet {
	impressions := models.MetricSpec{Metric: "page_impressions", Period: "day", Label: "Impressions"}
	reactions := models.MetricSpec{Metric: "page_actions_post_reactions_total", Period: "day", Label: "Reactions"}
	return &models.ResultSet{
		PageID:    "p1",
		Range:     testRange,
		FetchedAt: time.Now(),
		Order:     []string{impressions.Key(), reactions.Key()},
		Results: map[string]models.MetricResult{
			impressions.Key(): {Key: impressions.Key(), Spec: impressions, Value: models.Number(1200)},
			reactions.Key(): {Key: reactions.Key(), Spec: reactions,
				Value: models.Breakdown(map[string]float64{"like": 5, "love": 2})},
		},
	}
}

func TestCursorMovement(t *testing.T) {
	m, _ := newTestModel()

	m.Update(runes("k"))
	if m.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0 at the top", m.Cursor())
	}
	m.Update(runes("j"))
	m.Update(runes("j"))
	if m.Cursor() != 1 {
		t.Errorf("cursor = %d, want 1 at the bottom", m.Cursor())
	}
}

func TestEnterSelectsPageWithRange(t *testing.T) {
	m, _ := newTestModel()
	m.Update(runes("j"))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should return a command")
	}
	msg, ok := cmd().(app.SelectPageMsg)
	if !ok {
		t.Fatalf("expected SelectPageMsg, got %T", cmd())
	}
	if msg.Page.ID != "p2" {
		t.Errorf("page = %s, want p2", msg.Page.ID)
	}
	if !msg.Range.Since.Equal(testRange.Since) || !msg.Range.Until.Equal(testRange.Until) {
		t.Errorf("range = %s, want %s", msg.Range, testRange)
	}
}

func TestInvalidDateBlocksSelection(t *testing.T) {
	m, _ := newTestModel()
	m.Update(nil)
	m.since.SetValue("2024-13-01")

	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Error("an unparsable date should not request a fetch")
	}
	if m.inputErr == nil {
		t.Fatal("parse error should be kept for display")
	}
	if !strings.Contains(m.View(), "invalid start date") {
		t.Error("view should show the parse error")
	}
}

func TestDateInputFocus(t *testing.T) {
	m, _ := newTestModel()

	if m.CapturesKey(runes("q")) {
		t.Error("q should stay global while not editing")
	}
	if !m.CapturesKey(tea.KeyMsg{Type: tea.KeyTab}) {
		t.Error("tab should be captured to edit dates")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != focusSince {
		t.Fatalf("focus = %d, want since", m.focus)
	}
	if !m.CapturesKey(runes("q")) {
		t.Error("every key should be captured while editing")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != focusUntil {
		t.Errorf("focus = %d, want until", m.focus)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.focus != focusNone {
		t.Errorf("esc should leave the inputs, focus = %d", m.focus)
	}
}

func TestTypingEditsFocusedInput(t *testing.T) {
	m, _ := newTestModel()
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m.since.SetValue("")

	m.Update(runes("2024-03-05"))
	if got := m.since.Value(); got != "2024-03-05" {
		t.Errorf("since = %q, want 2024-03-05", got)
	}
	if got := m.until.Value(); got != testRange.UntilString() {
		t.Errorf("until changed to %q", got)
	}
}

func TestApplyRequiresSelection(t *testing.T) {
	m, _ := newTestModel()

	_, cmd := m.Update(runes("a"))
	if cmd == nil {
		t.Fatal("apply without a page should explain why")
	}
	msg, ok := cmd().(app.AddNotificationMsg)
	if !ok || msg.Type != app.NotificationInfo {
		t.Errorf("expected info notification, got %#v", cmd())
	}
}

func TestApplyRange(t *testing.T) {
	m, state := newTestModel()
	state.BeginCycle(models.Page{ID: "p1", Name: "Bakery"}, testRange, 1)

	m.Update(nil)
	m.until.SetValue("2024-03-14")

	_, cmd := m.Update(runes("a"))
	if cmd == nil {
		t.Fatal("apply should return a command")
	}
	msg, ok := cmd().(app.ApplyRangeMsg)
	if !ok {
		t.Fatalf("expected ApplyRangeMsg, got %T", cmd())
	}
	if msg.Range.UntilString() != "2024-03-14" {
		t.Errorf("until = %s, want 2024-03-14", msg.Range.UntilString())
	}
}

func TestEnterInInputsApplies(t *testing.T) {
	m, state := newTestModel()
	state.BeginCycle(models.Page{ID: "p1", Name: "Bakery"}, testRange, 1)

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter in the inputs should apply")
	}
	if _, ok := cmd().(app.ApplyRangeMsg); !ok {
		t.Errorf("expected ApplyRangeMsg, got %T", cmd())
	}
	if m.focus != focusNone {
		t.Error("enter should leave the inputs")
	}
}

func TestRangeSync(t *testing.T) {
	m, state := newTestModel()
	m.Update(nil)
	if m.since.Value() != testRange.SinceString() {
		t.Fatalf("since = %q, want %q", m.since.Value(), testRange.SinceString())
	}

	next := models.NewDateRange(testRange.Since.AddDate(0, 0, 7), testRange.Until)
	state.SetRange(next)
	m.Update(nil)
	if m.since.Value() != next.SinceString() {
		t.Errorf("since = %q, want %q", m.since.Value(), next.SinceString())
	}
}

func TestViewStates(t *testing.T) {
	page := models.Page{ID: "p1", Name: "Bakery"}

	t.Run("no selection", func(t *testing.T) {
		m, _ := newTestModel()
		view := m.View()
		if !strings.Contains(view, "Select a page") || !strings.Contains(view, "Bakery") {
			t.Errorf("view should list pages and prompt for a selection:\n%s", view)
		}
	})

	t.Run("loading", func(t *testing.T) {
		m, state := newTestModel()
		state.BeginCycle(page, testRange, 1)
		if !strings.Contains(m.View(), "Fetching insights for Bakery") {
			t.Error("view should show the fetch in progress")
		}
	})

	t.Run("failed", func(t *testing.T) {
		m, state := newTestModel()
		state.BeginCycle(page, testRange, 1)
		state.CompleteCycle(1, nil, errors.New("start date is after end date"))
		if !strings.Contains(m.View(), "start date is after end date") {
			t.Error("view should show the cycle error")
		}
	})

	t.Run("results", func(t *testing.T) {
		m, state := newTestModel()
		state.BeginCycle(page, testRange, 1)
		state.CompleteCycle(1, sampleResults(), nil)

		view := m.View()
		for _, want := range []string{"Impressions", "1,200", "Reactions", "like", "2 metrics"} {
			if !strings.Contains(view, want) {
				t.Errorf("view missing %q", want)
			}
		}
	})
}

func TestHelp(t *testing.T) {
	m, _ := newTestModel()
	if len(m.ShortHelp()) == 0 || len(m.FullHelp()) == 0 {
		t.Error("help should list bindings")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if len(m.ShortHelp()) != 2 {
		t.Error("short help should switch to input bindings while editing")
	}
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/j-veylop/page-insights-tui/internal/logger"
	"github.com/j-veylop/page-insights-tui/internal/models"
	"github.com/j-veylop/page-insights-tui/internal/telemetry"
)

// errNoPageSelected is returned by Apply and Refresh before any selection.
var errNoPageSelected = errors.New("no page selected")

// SelectPage makes page current and starts a fetch cycle for rng. The
// previous results are cleared before any request is issued. It returns the
// generation of the new cycle. When rng is rejected nothing changes: the
// selection, range and results stay as they were, no request is made and
// the validation error is returned with the unchanged generation.
func (m *Manager) SelectPage(page models.Page, rng models.DateRange) (uint64, error) {
	if !m.LoggedIn() {
		return 0, errNotLoggedIn
	}
	return m.startCycle(page, rng)
}

// Apply re-validates rng and re-fetches the selected page with it.
func (m *Manager) Apply(rng models.DateRange) (uint64, error) {
	m.mu.RLock()
	selected := m.selected
	m.mu.RUnlock()

	if selected == nil {
		return 0, errNoPageSelected
	}
	return m.SelectPage(*selected, rng)
}

// Refresh re-fetches the selected page with the current range.
func (m *Manager) Refresh() (uint64, error) {
	return m.Apply(m.Range())
}

// startCycle supersedes the previous cycle, clears the current results and
// launches the new one. A rejected rng is only recorded.
func (m *Manager) startCycle(page models.Page, rng models.DateRange) (uint64, error) {
	cycle := models.FetchCycle{
		ID:        uuid.NewString(),
		PageID:    page.ID,
		PageName:  page.Name,
		Range:     rng,
		StartedAt: time.Now(),
	}

	if err := m.insights.Validate(rng); err != nil {
		m.mu.RLock()
		cycle.Generation = m.generation
		epoch := m.epoch
		m.mu.RUnlock()

		m.finishInvalid(cycle, epoch, err)
		return cycle.Generation, err
	}

	m.mu.Lock()
	if m.cancelCycle != nil {
		m.cancelCycle()
	}
	m.generation++
	cycle.Generation = m.generation
	epoch := m.epoch
	selected := page
	m.selected = &selected
	m.rng = rng
	m.current = nil
	m.loading = true

	ctx, cancel := context.WithCancel(m.ctx)
	m.cancelCycle = cancel
	m.mu.Unlock()

	m.broadcast(CycleStartedEvent{Page: page, Range: rng, Generation: cycle.Generation})

	m.cycles.Add(1)
	go func() {
		defer m.cycles.Done()
		defer cancel()
		m.runCycle(ctx, cycle, epoch, page)
	}()

	return cycle.Generation, nil
}

func (m *Manager) finishInvalid(cycle models.FetchCycle, epoch uint64, err error) {
	cycle.Outcome = models.CycleInvalid
	cycle.Error = err.Error()
	telemetry.ObserveCycle(telemetry.OutcomeInvalid, 0)
	logger.Debug("Rejected date range", "page", cycle.PageID, "range", cycle.Range.String(), "error", err)

	m.record(cycle, epoch, nil)
}

func (m *Manager) runCycle(ctx context.Context, cycle models.FetchCycle, epoch uint64, page models.Page) {
	logger.Info("Fetch cycle started", "page", page.ID, "generation", cycle.Generation, "range", cycle.Range.String())

	rs, err := m.insights.Fetch(ctx, page, cycle.Range)
	cycle.Duration = time.Since(cycle.StartedAt)

	m.mu.Lock()
	stale := cycle.Generation != m.generation
	if !stale {
		m.loading = false
		m.cancelCycle = nil
		if err == nil {
			rs.CycleID = cycle.ID
			m.current = rs
		}
	}
	m.mu.Unlock()

	switch {
	case stale:
		cycle.Outcome = models.CycleSuperseded
		telemetry.ObserveCycle(telemetry.OutcomeSuperseded, cycle.Duration)
		logger.Debug("Discarded superseded fetch cycle", "generation", cycle.Generation)
		m.record(cycle, epoch, nil)
		return
	case err != nil:
		cycle.Outcome = models.CycleFailed
		cycle.Error = err.Error()
		telemetry.ObserveCycle(telemetry.OutcomeFailed, cycle.Duration)
		m.notifyDesktop("Insights fetch failed", fmt.Sprintf("%s: %v", page.Label(), err))
	default:
		cycle.Outcome = models.CycleSucceeded
		cycle.MetricCount = rs.Len()
		telemetry.ObserveCycle(telemetry.OutcomeSuccess, cycle.Duration)
	}

	m.record(cycle, epoch, rs)
	m.broadcast(CycleCompletedEvent{Generation: cycle.Generation, Cycle: cycle, Results: rs, Error: err})
	if err != nil {
		m.broadcast(ErrorEvent{Service: "insights", Error: err})
	}
}

// record stores cycle unless the session it ran in has since ended.
func (m *Manager) record(cycle models.FetchCycle, epoch uint64, rs *models.ResultSet) {
	if m.database == nil {
		return
	}

	m.storeMu.Lock()
	defer m.storeMu.Unlock()

	m.mu.RLock()
	current := m.epoch == epoch && m.session != nil
	m.mu.RUnlock()
	if !current {
		logger.Debug("Dropped fetch cycle of an ended session", "cycle", cycle.ID)
		return
	}

	if err := m.database.RecordCycle(context.Background(), cycle, rs); err != nil {
		logger.Warn("Failed to record fetch cycle", "cycle", cycle.ID, "error", err)
	}
}

// CurrentResults returns the results of the latest started cycle once it
// has succeeded, or nil.
func (m *Manager) CurrentResults() *models.ResultSet {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Selected returns the current page.
func (m *Manager) Selected() (models.Page, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.selected == nil {
		return models.Page{}, false
	}
	return *m.selected, true
}

// Range returns the date range of the latest cycle.
func (m *Manager) Range() models.DateRange {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rng
}

// Loading reports whether the current cycle is still in flight.
func (m *Manager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

// Generation returns the generation of the latest started cycle.
func (m *Manager) Generation() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.generation
}

// RecentCycles returns the newest cycles recorded this session.
func (m *Manager) RecentCycles(ctx context.Context, limit int) ([]models.FetchCycle, error) {
	return m.database.RecentCycles(ctx, "", limit)
}

// LatestSeries returns the stored series of key for the selected page.
func (m *Manager) LatestSeries(ctx context.Context, key string) ([]models.SeriesPoint, error) {
	page, ok := m.Selected()
	if !ok {
		return nil, nil
	}
	return m.database.LatestSeries(ctx, page.ID, key)
}

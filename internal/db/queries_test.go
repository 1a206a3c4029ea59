package db

import (
	"context"
	"testing"
	"time"

	"github.com/j-veylop/page-insights-tui/internal/models"
)

func sampleResultSet(pageID string) *models.ResultSet {
	rng, _ := models.ParseDateRange("2024-07-01", "2024-07-31")
	day := time.Date(2024, 7, 1, 7, 0, 0, 0, time.UTC)

	fans := models.MetricSpec{Metric: "page_fans", Period: "day"}
	reactions := models.MetricSpec{Metric: "page_actions_post_reactions_total", Period: "day"}
	engagements := models.MetricSpec{Metric: "page_post_engagements", Period: "total_over_range", Ranged: true}

	return &models.ResultSet{
		PageID: pageID,
		Range:  rng,
		Order:  []string{fans.Key(), reactions.Key(), engagements.Key()},
		Results: map[string]models.MetricResult{
			fans.Key(): {
				Key:   fans.Key(),
				Spec:  fans,
				Value: models.Number(1200),
				Series: []models.SeriesPoint{
					{EndTime: day, Value: models.Number(1200)},
					{EndTime: day.AddDate(0, 0, 1), Value: models.Number(1210)},
				},
			},
			reactions.Key(): {
				Key:    reactions.Key(),
				Spec:   reactions,
				Value:  models.Breakdown(map[string]float64{"like": 3, "love": 1}),
				Series: []models.SeriesPoint{{EndTime: day, Value: models.Breakdown(map[string]float64{"like": 3, "love": 1})}},
			},
			engagements.Key(): {
				Key:   engagements.Key(),
				Spec:  engagements,
				Value: models.Missing(),
			},
		},
	}
}

func sampleCycle(id, pageID string, started time.Time, outcome models.CycleOutcome) models.FetchCycle {
	rng, _ := models.ParseDateRange("2024-07-01", "2024-07-31")
	return models.FetchCycle{
		ID:          id,
		Generation:  1,
		PageID:      pageID,
		PageName:    "Bakery",
		Range:       rng,
		StartedAt:   started,
		Duration:    250 * time.Millisecond,
		Outcome:     outcome,
		MetricCount: 3,
	}
}

func TestRecordCycle_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	started := time.Date(2024, 8, 1, 10, 0, 0, 0, time.UTC)

	if err := db.RecordCycle(ctx, sampleCycle("c1", "p1", started, models.CycleSucceeded), sampleResultSet("p1")); err != nil {
		t.Fatalf("RecordCycle() failed: %v", err)
	}

	cycles, err := db.RecentCycles(ctx, "p1", 10)
	if err != nil {
		t.Fatalf("RecentCycles() failed: %v", err)
	}
	if len(cycles) != 1 {
		t.Fatalf("len(cycles) = %d, want 1", len(cycles))
	}

	c := cycles[0]
	if c.ID != "c1" || c.PageName != "Bakery" || !c.Succeeded() {
		t.Errorf("unexpected cycle: %+v", c)
	}
	if !c.StartedAt.Equal(started) {
		t.Errorf("StartedAt = %v, want %v", c.StartedAt, started)
	}
	if c.Duration != 250*time.Millisecond {
		t.Errorf("Duration = %v", c.Duration)
	}
	if c.Range.SinceString() != "2024-07-01" || c.Range.UntilString() != "2024-07-31" {
		t.Errorf("Range = %v", c.Range)
	}

	values, err := db.CycleValues(ctx, "c1")
	if err != nil {
		t.Fatalf("CycleValues() failed: %v", err)
	}
	if !values["page_fans_day"].Equal(models.Number(1200)) {
		t.Errorf("page_fans_day = %v", values["page_fans_day"])
	}
	if values["page_actions_post_reactions_total_day"].Format() != "like 3 · love 1" {
		t.Errorf("reactions = %v", values["page_actions_post_reactions_total_day"])
	}
	if !values["page_post_engagements_total_over_range"].IsMissing() {
		t.Errorf("engagements = %v, want missing", values["page_post_engagements_total_over_range"])
	}
}

func TestSeriesFor(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.RecordCycle(ctx, sampleCycle("c1", "p1", time.Now(), models.CycleSucceeded), sampleResultSet("p1")); err != nil {
		t.Fatalf("RecordCycle() failed: %v", err)
	}

	points, err := db.SeriesFor(ctx, "c1", "page_fans_day")
	if err != nil {
		t.Fatalf("SeriesFor() failed: %v", err)
	}
	if len(points) != 2 || points[0].Value.Number != 1200 || points[1].Value.Number != 1210 {
		t.Errorf("points = %+v", points)
	}
	if points[0].EndTime.IsZero() {
		t.Error("EndTime should round-trip")
	}

	reactions, _ := db.SeriesFor(ctx, "c1", "page_actions_post_reactions_total_day")
	if len(reactions) != 1 || reactions[0].Value.Number != 4 {
		t.Errorf("breakdown series should store totals, got %+v", reactions)
	}

	empty, _ := db.SeriesFor(ctx, "c1", "page_post_engagements_total_over_range")
	if len(empty) != 0 {
		t.Errorf("missing metric should have no series, got %d points", len(empty))
	}
}

func TestLatestSeries(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	base := time.Date(2024, 8, 1, 10, 0, 0, 0, time.UTC)

	older := sampleResultSet("p1")
	r := older.Results["page_fans_day"]
	r.Series = []models.SeriesPoint{{Value: models.Number(1)}}
	older.Results["page_fans_day"] = r

	if err := db.RecordCycle(ctx, sampleCycle("old", "p1", base, models.CycleSucceeded), older); err != nil {
		t.Fatalf("RecordCycle() failed: %v", err)
	}
	if err := db.RecordCycle(ctx, sampleCycle("new", "p1", base.Add(time.Minute), models.CycleSucceeded), sampleResultSet("p1")); err != nil {
		t.Fatalf("RecordCycle() failed: %v", err)
	}
	failed := sampleCycle("failed", "p1", base.Add(2*time.Minute), models.CycleFailed)
	failed.Error = "boom"
	if err := db.RecordCycle(ctx, failed, nil); err != nil {
		t.Fatalf("RecordCycle() failed: %v", err)
	}

	points, err := db.LatestSeries(ctx, "p1", "page_fans_day")
	if err != nil {
		t.Fatalf("LatestSeries() failed: %v", err)
	}
	if len(points) != 2 {
		t.Errorf("LatestSeries() should skip failed cycles and use the newest success, got %+v", points)
	}

	none, err := db.LatestSeries(ctx, "other", "page_fans_day")
	if err != nil || none != nil {
		t.Errorf("LatestSeries(unknown) = %v, %v; want nil, nil", none, err)
	}
}

func TestRecentCycles_OrderAndFilter(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	base := time.Date(2024, 8, 1, 10, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		page := "p1"
		if id == "b" {
			page = "p2"
		}
		if err := db.RecordCycle(ctx, sampleCycle(id, page, base.Add(time.Duration(i)*time.Minute), models.CycleFailed), nil); err != nil {
			t.Fatalf("RecordCycle(%s) failed: %v", id, err)
		}
	}

	all, err := db.RecentCycles(ctx, "", 10)
	if err != nil {
		t.Fatalf("RecentCycles() failed: %v", err)
	}
	if len(all) != 3 || all[0].ID != "c" || all[2].ID != "a" {
		t.Errorf("RecentCycles(all) order wrong: %v", ids(all))
	}

	p1, _ := db.RecentCycles(ctx, "p1", 10)
	if len(p1) != 2 {
		t.Errorf("RecentCycles(p1) = %v, want 2 cycles", ids(p1))
	}

	limited, _ := db.RecentCycles(ctx, "", 1)
	if len(limited) != 1 || limited[0].ID != "c" {
		t.Errorf("RecentCycles(limit 1) = %v", ids(limited))
	}
}

func TestRecordCycle_Errors(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.RecordCycle(ctx, models.FetchCycle{}, nil); err == nil {
		t.Error("RecordCycle() should reject an empty id")
	}

	c := sampleCycle("dup", "p1", time.Now(), models.CycleSucceeded)
	if err := db.RecordCycle(ctx, c, nil); err != nil {
		t.Fatalf("RecordCycle() failed: %v", err)
	}
	if err := db.RecordCycle(ctx, c, nil); err == nil {
		t.Error("RecordCycle() should reject a duplicate id")
	}

	n, _ := db.CountCycles(ctx)
	if n != 1 {
		t.Errorf("CountCycles() = %d, want 1", n)
	}
}

func TestReset(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.RecordCycle(ctx, sampleCycle("c1", "p1", time.Now(), models.CycleSucceeded), sampleResultSet("p1")); err != nil {
		t.Fatalf("RecordCycle() failed: %v", err)
	}

	if err := db.Reset(ctx); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}

	n, err := db.CountCycles(ctx)
	if err != nil || n != 0 {
		t.Errorf("CountCycles() = %d, %v; want 0", n, err)
	}
	values, _ := db.CycleValues(ctx, "c1")
	if len(values) != 0 {
		t.Errorf("metric values survived Reset: %v", values)
	}
	points, _ := db.SeriesFor(ctx, "c1", "page_fans_day")
	if len(points) != 0 {
		t.Errorf("series survived Reset: %v", points)
	}
}

func ids(cycles []models.FetchCycle) []string {
	out := make([]string, len(cycles))
	for i, c := range cycles {
		out[i] = c.ID
	}
	return out
}

package insights

import (
	"testing"

	"github.com/j-veylop/page-insights-tui/internal/models"
)

func TestDefaultSpecs(t *testing.T) {
	specs := DefaultSpecs()
	if err := ValidateSpecs(specs); err != nil {
		t.Fatalf("DefaultSpecs() invalid: %v", err)
	}

	want := []string{
		"page_fans_day",
		"page_impressions_day",
		"page_impressions_week",
		"page_impressions_days_28",
		"page_actions_post_reactions_total_day",
		"page_fans_total_over_range",
		"page_post_engagements_total_over_range",
		"page_impressions_unique_total_over_range",
	}
	if len(specs) != len(want) {
		t.Fatalf("len(DefaultSpecs()) = %d, want %d", len(specs), len(want))
	}
	for i, key := range want {
		if specs[i].Key() != key {
			t.Errorf("specs[%d].Key() = %q, want %q", i, specs[i].Key(), key)
		}
		if specs[i].Ranged != (specs[i].Period == PeriodTotalOverRange) {
			t.Errorf("specs[%d] Ranged = %v for period %q", i, specs[i].Ranged, specs[i].Period)
		}
	}
}

func TestValidateSpecs(t *testing.T) {
	tests := []struct {
		name    string
		specs   []models.MetricSpec
		wantErr bool
	}{
		{"Empty", nil, true},
		{"Single", []models.MetricSpec{{Metric: "page_fans", Period: "day"}}, false},
		{"Duplicate", []models.MetricSpec{{Metric: "page_fans", Period: "day"}, {Metric: "page_fans", Period: "day"}}, true},
		{"SameMetricDifferentPeriod", []models.MetricSpec{{Metric: "page_fans", Period: "day"}, {Metric: "page_fans", Period: "week"}}, false},
		{"BlankMetric", []models.MetricSpec{{Period: "day"}}, true},
		{"BlankPeriod", []models.MetricSpec{{Metric: "page_fans"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateSpecs(tt.specs); (err != nil) != tt.wantErr {
				t.Errorf("ValidateSpecs() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

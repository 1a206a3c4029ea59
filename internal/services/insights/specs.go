package insights

import (
	"errors"
	"fmt"

	"github.com/j-veylop/page-insights-tui/internal/models"
)

// Periods accepted by the insights endpoint.
const (
	PeriodDay            = "day"
	PeriodWeek           = "week"
	PeriodDays28         = "days_28"
	PeriodTotalOverRange = "total_over_range"
)

// DefaultSpecs returns the fixed list of metrics fetched for every page.
func DefaultSpecs() []models.MetricSpec {
	return []models.MetricSpec{
		{Metric: "page_fans", Period: PeriodDay, Label: "Followers"},
		{Metric: "page_impressions", Period: PeriodDay, Label: "Impressions (Day)"},
		{Metric: "page_impressions", Period: PeriodWeek, Label: "Impressions (Week)"},
		{Metric: "page_impressions", Period: PeriodDays28, Label: "Impressions (28 Days)"},
		{Metric: "page_actions_post_reactions_total", Period: PeriodDay, Label: "Reactions"},
		{Metric: "page_fans", Period: PeriodTotalOverRange, Label: "Followers (Range)", Ranged: true},
		{Metric: "page_post_engagements", Period: PeriodTotalOverRange, Label: "Engagements (Range)", Ranged: true},
		{Metric: "page_impressions_unique", Period: PeriodTotalOverRange, Label: "Reach (Range)", Ranged: true},
	}
}

// ValidateSpecs rejects empty lists, blank fields and duplicate keys.
func ValidateSpecs(specs []models.MetricSpec) error {
	if len(specs) == 0 {
		return errors.New("no metric specs")
	}

	seen := make(map[string]struct{}, len(specs))
	for i, s := range specs {
		if s.Metric == "" || s.Period == "" {
			return fmt.Errorf("metric spec %d has an empty metric or period", i)
		}
		key := s.Key()
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate metric spec %q", key)
		}
		seen[key] = struct{}{}
	}
	return nil
}

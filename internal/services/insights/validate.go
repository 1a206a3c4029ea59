package insights

import (
	"fmt"
	"time"

	"github.com/j-veylop/page-insights-tui/internal/models"
)

// MaxRangeDays is the longest span between since and until the insights
// endpoint accepts. A span of exactly MaxRangeDays is allowed.
const MaxRangeDays = 93

// ValidateRange checks a date range against today at day granularity.
// It never touches the network.
func ValidateRange(r models.DateRange, today time.Time) error {
	since := models.Date(r.Since)
	until := models.Date(r.Until)
	day := models.Date(today)

	if since.After(until) {
		return fmt.Errorf("%w: %s is after %s", models.ErrInvalidRange, r.SinceString(), r.UntilString())
	}
	if since.After(day) || until.After(day) {
		return fmt.Errorf("%w: today is %s", models.ErrFutureDate, day.Format(models.DateLayout))
	}
	if days := r.Days(); days > MaxRangeDays {
		return fmt.Errorf("%w: span is %d days", models.ErrRangeTooLong, days)
	}
	return nil
}

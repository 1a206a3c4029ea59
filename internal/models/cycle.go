package models

import "time"

// CycleOutcome is how a fetch cycle ended.
type CycleOutcome string

// Cycle outcomes.
const (
	CycleSucceeded  CycleOutcome = "success"
	CycleFailed     CycleOutcome = "failed"
	CycleInvalid    CycleOutcome = "invalid"
	CycleSuperseded CycleOutcome = "superseded"
)

// FetchCycle describes one run of the insights fetch for a page.
type FetchCycle struct {
	StartedAt   time.Time
	Range       DateRange
	ID          string
	PageID      string
	PageName    string
	Outcome     CycleOutcome
	Error       string
	Generation  uint64
	Duration    time.Duration
	MetricCount int
}

// Succeeded reports whether the cycle produced a result set.
func (c FetchCycle) Succeeded() bool {
	return c.Outcome == CycleSucceeded
}

package models

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

// MetricSpec names one insights query: a metric at an aggregation period.
// Ranged specs are sent with the selected since/until window.
type MetricSpec struct {
	Metric string
	Period string
	Label  string
	Ranged bool
}

// Key identifies the result of s, e.g. "page_impressions_week".
func (s MetricSpec) Key() string {
	return s.Metric + "_" + s.Period
}

// DisplayLabel returns Label, falling back to the key.
func (s MetricSpec) DisplayLabel() string {
	if s.Label != "" {
		return s.Label
	}
	return s.Key()
}

// ValueKind tags the shape of a MetricValue.
type ValueKind int

// Value kinds.
const (
	ValueMissing ValueKind = iota
	ValueNumber
	ValueBreakdown
)

func (k ValueKind) String() string {
	switch k {
	case ValueNumber:
		return "number"
	case ValueBreakdown:
		return "breakdown"
	default:
		return "missing"
	}
}

// MissingText is rendered for metrics the provider returned no data for.
const MissingText = "N/A"

// MetricValue is a number, a keyed breakdown, or the explicit missing marker.
type MetricValue struct {
	Breakdown map[string]float64
	Number    float64
	Kind      ValueKind
}

// Missing returns the sentinel value for a metric with no data.
func Missing() MetricValue {
	return MetricValue{Kind: ValueMissing}
}

// Number wraps a numeric value.
func Number(n float64) MetricValue {
	return MetricValue{Kind: ValueNumber, Number: n}
}

// Breakdown wraps a keyed value. The map is copied.
func Breakdown(b map[string]float64) MetricValue {
	c := make(map[string]float64, len(b))
	maps.Copy(c, b)
	return MetricValue{Kind: ValueBreakdown, Breakdown: c}
}

// IsMissing reports whether the value is the missing marker.
func (v MetricValue) IsMissing() bool {
	return v.Kind == ValueMissing
}

// Total returns the numeric value, or the sum of a breakdown.
// Missing values total zero.
func (v MetricValue) Total() float64 {
	switch v.Kind {
	case ValueNumber:
		return v.Number
	case ValueBreakdown:
		var sum float64
		for _, n := range v.Breakdown {
			sum += n
		}
		return sum
	default:
		return 0
	}
}

// Format renders the value for display.
func (v MetricValue) Format() string {
	switch v.Kind {
	case ValueNumber:
		return FormatNumber(v.Number)
	case ValueBreakdown:
		if len(v.Breakdown) == 0 {
			return "0"
		}
		keys := slices.Sorted(maps.Keys(v.Breakdown))
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+" "+FormatNumber(v.Breakdown[k]))
		}
		return strings.Join(parts, " · ")
	default:
		return MissingText
	}
}

func (v MetricValue) String() string {
	return v.Format()
}

// Equal reports whether two values have the same kind and content.
func (v MetricValue) Equal(o MetricValue) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case ValueNumber:
		return v.Number == o.Number
	case ValueBreakdown:
		return maps.Equal(v.Breakdown, o.Breakdown)
	default:
		return true
	}
}

// FormatNumber renders n with thousands separators. Fractions keep up to two
// decimals.
func FormatNumber(n float64) string {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return MissingText
	}

	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}

	n = math.Round(n*100) / 100
	whole, frac := math.Modf(n)
	intPart := strconv.FormatFloat(whole, 'f', 0, 64)

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := sign + b.String()
	if frac > 0 {
		dec := strings.TrimRight(fmt.Sprintf("%.2f", frac), "0")
		out += strings.TrimPrefix(dec, "0")
	}
	return out
}

// SeriesPoint is one data point of a metric over time.
type SeriesPoint struct {
	EndTime time.Time
	Value   MetricValue
}

// MetricResult is the outcome of one spec in a fetch cycle.
type MetricResult struct {
	Key    string
	Spec   MetricSpec
	Value  MetricValue
	Series []SeriesPoint
}

// ResultSet is the complete output of one successful fetch cycle.
// It is replaced as a whole and never merged with an earlier set.
type ResultSet struct {
	FetchedAt time.Time
	Results   map[string]MetricResult
	PageID    string
	Range     DateRange
	Order     []string
	CycleID   string
}

// Get returns the result for key.
func (rs *ResultSet) Get(key string) (MetricResult, bool) {
	if rs == nil {
		return MetricResult{}, false
	}
	r, ok := rs.Results[key]
	return r, ok
}

// Ordered returns results in spec order.
func (rs *ResultSet) Ordered() []MetricResult {
	if rs == nil {
		return nil
	}
	out := make([]MetricResult, 0, len(rs.Order))
	for _, k := range rs.Order {
		if r, ok := rs.Results[k]; ok {
			out = append(out, r)
		}
	}
	return out
}

// Len returns the number of results.
func (rs *ResultSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.Results)
}

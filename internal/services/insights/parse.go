package insights

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/j-veylop/page-insights-tui/internal/graph"
	"github.com/j-veylop/page-insights-tui/internal/models"
)

// endTimeLayout is the timestamp format of insights data points.
const endTimeLayout = "2006-01-02T15:04:05-0700"

// parseValue decodes a data point value. Null or absent values are missing.
func parseValue(raw json.RawMessage) (models.MetricValue, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return models.Missing(), nil
	}

	switch trimmed[0] {
	case '{':
		var breakdown map[string]float64
		if err := json.Unmarshal(trimmed, &breakdown); err != nil {
			return models.MetricValue{}, fmt.Errorf("unparseable breakdown value %s: %w", trimmed, err)
		}
		return models.Breakdown(breakdown), nil
	default:
		var n float64
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return models.MetricValue{}, fmt.Errorf("unparseable value %s: %w", trimmed, err)
		}
		return models.Number(n), nil
	}
}

// extract builds the result for one spec from its response. The first
// value of the first data point is the result; no data points yields the
// missing marker.
func extract(spec models.MetricSpec, resp *graph.InsightsResponse) (models.MetricResult, error) {
	result := models.MetricResult{
		Key:   spec.Key(),
		Spec:  spec,
		Value: models.Missing(),
	}

	if resp == nil || len(resp.Data) == 0 || len(resp.Data[0].Values) == 0 {
		return result, nil
	}

	values := resp.Data[0].Values
	series := make([]models.SeriesPoint, 0, len(values))
	for i, v := range values {
		value, err := parseValue(v.Value)
		if err != nil {
			return models.MetricResult{}, fmt.Errorf("data point %d: %w", i, err)
		}

		point := models.SeriesPoint{Value: value}
		if v.EndTime != "" {
			if t, err := time.Parse(endTimeLayout, v.EndTime); err == nil {
				point.EndTime = t
			} else if t, err := time.Parse(time.RFC3339, v.EndTime); err == nil {
				point.EndTime = t
			}
		}
		series = append(series, point)
	}

	result.Value = series[0].Value
	result.Series = series
	return result, nil
}

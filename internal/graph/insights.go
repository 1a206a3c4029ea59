package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/j-veylop/page-insights-tui/internal/models"
)

// InsightsQuery selects one metric at one period. Since and Until are only
// sent when set.
type InsightsQuery struct {
	Since  time.Time
	Until  time.Time
	Metric string
	Period string
}

// InsightsResponse is the body of a page insights call.
type InsightsResponse struct {
	Data []InsightsData `json:"data"`
}

// InsightsData is one metric in an insights response.
type InsightsData struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Period string          `json:"period"`
	Title  string          `json:"title"`
	Values []InsightsValue `json:"values"`
}

// InsightsValue is one data point. Value is either a number or an object
// of numbers keyed by breakdown dimension.
type InsightsValue struct {
	EndTime string          `json:"end_time"`
	Value   json.RawMessage `json:"value"`
}

// Insights fetches a single metric for a page using the page's token.
func (c *Client) Insights(ctx context.Context, pageID, token string, q InsightsQuery) (*InsightsResponse, error) {
	if pageID == "" {
		return nil, fmt.Errorf("page id is empty")
	}
	if token == "" {
		return nil, fmt.Errorf("access token is empty")
	}

	params := url.Values{}
	params.Set("metric", q.Metric)
	params.Set("period", q.Period)
	if !q.Since.IsZero() {
		params.Set("since", q.Since.Format(models.DateLayout))
	}
	if !q.Until.IsZero() {
		params.Set("until", q.Until.Format(models.DateLayout))
	}
	params.Set("access_token", token)

	var resp InsightsResponse
	if err := c.get(ctx, EndpointInsights, url.PathEscape(pageID)+"/insights", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Package insights validates date ranges and fetches the fixed set of page
// metrics that make up one fetch cycle.
package insights

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/j-veylop/page-insights-tui/internal/graph"
	"github.com/j-veylop/page-insights-tui/internal/logger"
	"github.com/j-veylop/page-insights-tui/internal/models"
)

// Client is the subset of the Graph client the fetcher needs.
type Client interface {
	Insights(ctx context.Context, pageID, token string, q graph.InsightsQuery) (*graph.InsightsResponse, error)
}

// Config holds configuration for the insights service.
type Config struct {
	Now           func() time.Time
	Specs         []models.MetricSpec
	MaxConcurrent int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Specs:         DefaultSpecs(),
		MaxConcurrent: 5,
		Now:           time.Now,
	}
}

// Service runs fetch cycles. It keeps no results between calls.
type Service struct {
	client Client
	now    func() time.Time
	specs  []models.MetricSpec
	limit  int
}

// New creates an insights service. Zero config fields take their defaults.
func New(client Client, cfg Config) (*Service, error) {
	def := DefaultConfig()
	if cfg.Specs == nil {
		cfg.Specs = def.Specs
	}
	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = def.MaxConcurrent
	}
	if cfg.Now == nil {
		cfg.Now = def.Now
	}

	if err := ValidateSpecs(cfg.Specs); err != nil {
		return nil, err
	}

	return &Service{
		client: client,
		specs:  slices.Clone(cfg.Specs),
		limit:  cfg.MaxConcurrent,
		now:    cfg.Now,
	}, nil
}

// Specs returns the metric specs fetched each cycle, in order.
func (s *Service) Specs() []models.MetricSpec {
	return slices.Clone(s.specs)
}

// Validate checks rng against the service clock.
func (s *Service) Validate(rng models.DateRange) error {
	return ValidateRange(rng, s.now())
}

// Fetch validates rng and then requests every spec for page concurrently.
// Either every spec yields a result or the whole cycle fails with
// ErrInsightsFetchFailed and nothing is returned.
func (s *Service) Fetch(ctx context.Context, page models.Page, rng models.DateRange) (*models.ResultSet, error) {
	if err := s.Validate(rng); err != nil {
		return nil, err
	}
	if page.ID == "" || page.AccessToken == "" {
		return nil, fmt.Errorf("%w: %w", models.ErrInsightsFetchFailed, errors.New("page has no id or access token"))
	}

	start := time.Now()
	results := make([]models.MetricResult, len(s.specs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limit)

	for i, spec := range s.specs {
		g.Go(func() error {
			result, err := s.fetchOne(gctx, page, rng, spec)
			if err != nil {
				return fmt.Errorf("%s: %w", spec.Key(), err)
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Warn("Insights fetch failed", "page", page.ID, "error", err)
		return nil, fmt.Errorf("%w: %w", models.ErrInsightsFetchFailed, err)
	}

	set := &models.ResultSet{
		PageID:    page.ID,
		Range:     models.NewDateRange(rng.Since, rng.Until),
		Results:   make(map[string]models.MetricResult, len(results)),
		Order:     make([]string, 0, len(results)),
		FetchedAt: s.now(),
	}
	for _, r := range results {
		set.Results[r.Key] = r
		set.Order = append(set.Order, r.Key)
	}

	logger.Info("Insights fetched", "page", page.ID, "metrics", len(results), "duration", time.Since(start))
	return set, nil
}

func (s *Service) fetchOne(ctx context.Context, page models.Page, rng models.DateRange, spec models.MetricSpec) (models.MetricResult, error) {
	q := graph.InsightsQuery{Metric: spec.Metric, Period: spec.Period}
	if spec.Ranged {
		q.Since = rng.Since
		q.Until = rng.Until
	}

	resp, err := s.client.Insights(ctx, page.ID, page.AccessToken, q)
	if err != nil {
		return models.MetricResult{}, err
	}
	return extract(spec, resp)
}

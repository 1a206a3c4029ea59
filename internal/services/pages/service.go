// Package pages lists the pages a logged-in user manages.
package pages

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/j-veylop/page-insights-tui/internal/logger"
	"github.com/j-veylop/page-insights-tui/internal/models"
)

// Client is the subset of the Graph client the lister needs.
type Client interface {
	Accounts(ctx context.Context, token string) ([]models.Page, error)
}

// Service lists pages once per credential and remembers the result for
// the rest of the session.
type Service struct {
	client Client
	cache  map[string][]models.Page
	mu     sync.Mutex
}

// New creates a page lister.
func New(client Client) *Service {
	return &Service{
		client: client,
		cache:  make(map[string][]models.Page),
	}
}

// List returns the pages the credential's user manages, in provider order.
func (s *Service) List(ctx context.Context, cred models.Credential) ([]models.Page, error) {
	if cred.IsZero() {
		return nil, fmt.Errorf("%w: %w", models.ErrResourceListFailed, errors.New("not logged in"))
	}

	s.mu.Lock()
	cached, ok := s.cache[cred.Token]
	s.mu.Unlock()
	if ok {
		return slices.Clone(cached), nil
	}

	pages, err := s.client.Accounts(ctx, cred.Token)
	if err != nil {
		logger.Warn("Failed to list pages", "error", err)
		return nil, fmt.Errorf("%w: %w", models.ErrResourceListFailed, err)
	}

	s.mu.Lock()
	s.cache[cred.Token] = slices.Clone(pages)
	s.mu.Unlock()

	logger.Info("Listed pages", "count", len(pages))
	return pages, nil
}

// Reset forgets every cached listing.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.cache)
}

// Package auth logs users in against the Graph identity provider.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/j-veylop/page-insights-tui/internal/graph"
	"github.com/j-veylop/page-insights-tui/internal/logger"
	"github.com/j-veylop/page-insights-tui/internal/models"
	"github.com/j-veylop/page-insights-tui/internal/telemetry"
)

// Login methods, used as metric labels.
const (
	MethodToken  = "token"
	MethodDevice = "device"
)

// slowDownStep is added to the poll interval each time the provider asks
// the client to back off.
const slowDownStep = 5 * time.Second

// Client is the subset of the Graph client the authenticator needs.
type Client interface {
	Me(ctx context.Context, token string) (models.Profile, error)
	DeviceLogin(ctx context.Context, scope string) (*graph.DeviceCode, error)
	DeviceLoginStatus(ctx context.Context, code string) (*graph.DeviceToken, error)
}

// Service performs logins. It holds no session state itself.
type Service struct {
	client Client
	now    func() time.Time
	wait   func(ctx context.Context, d time.Duration) error
	scope  string
}

// New creates an authenticator requesting the given comma separated scope.
func New(client Client, scope string) *Service {
	return &Service{
		client: client,
		scope:  scope,
		now:    time.Now,
		wait:   sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func loginFailed(err error) error {
	return fmt.Errorf("%w: %w", models.ErrLoginFailed, err)
}

// LoginWithToken validates a pre-issued user token by fetching its profile.
func (s *Service) LoginWithToken(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		telemetry.ObserveLogin(MethodToken, false)
		return nil, loginFailed(errors.New("access token is empty"))
	}

	session, err := s.sessionFor(ctx, models.Credential{Token: token})
	telemetry.ObserveLogin(MethodToken, err == nil)
	if err != nil {
		return nil, err
	}

	logger.Info("Logged in with access token", "user", session.Profile.ID)
	return session, nil
}

// StartDeviceLogin requests a user code for the device login flow.
func (s *Service) StartDeviceLogin(ctx context.Context) (*graph.DeviceCode, error) {
	code, err := s.client.DeviceLogin(ctx, s.scope)
	if err != nil {
		telemetry.ObserveLogin(MethodDevice, false)
		return nil, loginFailed(err)
	}

	logger.Info("Device login started", "verification_uri", code.VerificationURI, "expires_in", code.ExpiresIn)
	return code, nil
}

// CompleteDeviceLogin polls until the user approves the code, the code
// expires, ctx is cancelled or the provider reports a failure.
func (s *Service) CompleteDeviceLogin(ctx context.Context, code *graph.DeviceCode) (*models.Session, error) {
	session, err := s.pollDeviceLogin(ctx, code)
	telemetry.ObserveLogin(MethodDevice, err == nil)
	if err != nil {
		logger.Warn("Device login failed", "error", err)
		return nil, err
	}

	logger.Info("Logged in with device code", "user", session.Profile.ID)
	return session, nil
}

func (s *Service) pollDeviceLogin(ctx context.Context, code *graph.DeviceCode) (*models.Session, error) {
	if code == nil || code.Code == "" {
		return nil, loginFailed(errors.New("no device code"))
	}

	interval := code.PollInterval()
	deadline := code.Deadline(s.now())

	for {
		if err := s.wait(ctx, interval); err != nil {
			return nil, loginFailed(err)
		}

		tok, err := s.client.DeviceLoginStatus(ctx, code.Code)
		switch {
		case err == nil:
			cred := models.Credential{Token: tok.AccessToken, ExpiresAt: tok.ExpiresAt(s.now())}
			return s.sessionFor(ctx, cred)
		case graph.IsAuthorizationPending(err):
			logger.Debug("Device login pending")
		case graph.IsSlowDown(err):
			interval += slowDownStep
			logger.Debug("Device login slow down", "interval", interval)
		default:
			return nil, loginFailed(err)
		}

		if !s.now().Before(deadline) {
			return nil, loginFailed(errors.New("device code expired"))
		}
	}
}

func (s *Service) sessionFor(ctx context.Context, cred models.Credential) (*models.Session, error) {
	profile, err := s.client.Me(ctx, cred.Token)
	if err != nil {
		return nil, loginFailed(err)
	}

	return &models.Session{
		Credential: cred,
		Profile:    profile,
		StartedAt:  s.now(),
	}, nil
}

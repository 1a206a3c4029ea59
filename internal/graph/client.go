// Package graph is a small client for the Facebook Graph API endpoints used
// by the dashboard: the user profile, managed pages, page insights and the
// device login flow.
package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/j-veylop/page-insights-tui/internal/config"
	"github.com/j-veylop/page-insights-tui/internal/logger"
	"github.com/j-veylop/page-insights-tui/internal/telemetry"
)

// Endpoint names used for logging and metrics.
const (
	EndpointMe                = "me"
	EndpointAccounts          = "accounts"
	EndpointInsights          = "insights"
	EndpointDeviceLogin       = "device_login"
	EndpointDeviceLoginStatus = "device_login_status"
)

// Options configures a Client.
type Options struct {
	HTTPClient  *http.Client
	BaseURL     string
	Version     string
	AppID       string
	ClientToken string
	Timeout     time.Duration
}

// Client talks to the Graph API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	version     string
	appID       string
	clientToken string
}

// New creates a client. Empty options fall back to the public Graph endpoint.
func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://graph.facebook.com"
	}
	if opts.Version == "" {
		opts.Version = "v20.0"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}

	return &Client{
		httpClient:  opts.HTTPClient,
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		version:     opts.Version,
		appID:       opts.AppID,
		clientToken: opts.ClientToken,
	}
}

// NewFromConfig creates a client from the application configuration.
func NewFromConfig(cfg *config.Config) *Client {
	return New(Options{
		BaseURL:     cfg.GraphBaseURL,
		Version:     cfg.GraphAPIVersion,
		AppID:       cfg.AppID,
		ClientToken: cfg.ClientToken,
		Timeout:     cfg.HTTPTimeout,
	})
}

// endpoint returns the absolute URL for a versioned Graph path.
func (c *Client) endpoint(path string) string {
	return c.baseURL + "/" + c.version + "/" + strings.TrimLeft(path, "/")
}

func (c *Client) get(ctx context.Context, name, path string, params url.Values, out any) error {
	u := c.endpoint(path)
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", name, err)
	}
	req.Header.Set("Accept", "application/json")

	return c.do(name, req, out)
}

func (c *Client) postForm(ctx context.Context, name, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", name, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	return c.do(name, req, out)
}

func (c *Client) do(name string, req *http.Request, out any) error {
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		telemetry.ObserveRequest(name, 0, time.Since(start))
		return fmt.Errorf("%s request failed: %w", name, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	telemetry.ObserveRequest(name, resp.StatusCode, time.Since(start))
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", name, err)
	}

	logger.Debug("Graph request", "endpoint", name, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseAPIError(resp.StatusCode, body)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", name, err)
	}
	return nil
}

// Package main is the entry point for the Page Insights TUI application.
// It initializes configuration, services, and runs the Bubble Tea program.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/page-insights-tui/internal/app"
	"github.com/j-veylop/page-insights-tui/internal/config"
	"github.com/j-veylop/page-insights-tui/internal/logger"
	"github.com/j-veylop/page-insights-tui/internal/services"
	"github.com/j-veylop/page-insights-tui/internal/telemetry"
	"github.com/j-veylop/page-insights-tui/internal/ui/tabs/info"
	"github.com/j-veylop/page-insights-tui/internal/ui/tabs/insights"
	"github.com/j-veylop/page-insights-tui/internal/ui/tabs/login"
	"github.com/j-veylop/page-insights-tui/internal/ui/tabs/trend"
	"github.com/j-veylop/page-insights-tui/internal/version"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && (os.Args[1] == "-v" || os.Args[1] == "--version") {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	// Handle help flag
	if len(os.Args) > 1 && (os.Args[1] == "-h" || os.Args[1] == "--help") {
		printUsage()
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// The TUI owns the terminal, so logs only go to a file.
	logCloser, err := logger.Init(cfg.LogFile, cfg.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = logCloser.Close() }()

	logger.Info("Starting", "version", version.Info())

	if cfg.MetricsAddr != "" {
		metrics, err := telemetry.Start(cfg.MetricsAddr)
		if err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = metrics.Shutdown(ctx)
		}()
	}

	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	model := app.NewModel(svcManager)

	state := model.GetState()
	model.SetLogin(login.New(state, cfg))
	model.SetTabs([]app.Tab{
		insights.New(state, model.GetCommands()),
		trend.New(state, svcManager),
		info.New(state, cfg),
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	go func() {
		<-sigChan
		p.Send(tea.Quit())
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// printUsage prints the command-line usage information.
func printUsage() {
	fmt.Println(`Page Insights TUI - Facebook page insights in the terminal

Usage:
  insights-tui [flags]

Flags:
  -h, --help      Show this help message
  -v, --version   Show version information

Keyboard Shortcuts:
  1-3             Switch between tabs (Insights, Trend, Info)
  Left/Right      Navigate between tabs
  j/k, Up/Down    Navigate lists
  Enter           Log in / select page
  Tab             Edit the date range (Insights tab)
  a               Apply the date range
  t/T             Next/previous metric (Trend tab)
  r               Refresh the selected page
  L               Log out
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  GRAPH_APP_ID             Application id used for device login (required)
  GRAPH_CLIENT_TOKEN       Client token used for device login
  GRAPH_ACCESS_TOKEN       User access token; skips device login when set
  GRAPH_BASE_URL           Graph API base URL (default: https://graph.facebook.com)
  GRAPH_API_VERSION        Graph API version
  DATABASE_PATH            SQLite database path (default: in memory)
  METRICS_ADDR             Serve Prometheus metrics on this address
  LOG_FILE                 Write logs to this file
  HTTP_TIMEOUT             Timeout per Graph request (default: 30s)
  MAX_CONCURRENT_REQUESTS  Insights requests in flight per cycle (default: 5)
  DEFAULT_RANGE_DAYS       Span of the initial date range (default: 28)
  DESKTOP_NOTIFICATIONS    Notify on failed fetches (default: true)
  DEBUG                    Log at debug level

Configuration:
  The application looks for .env files in the following locations:
  - Current directory
  - ~/.config/insights-tui/.env
  - ~/.insights-tui/.env
  - Parent directory`)
}

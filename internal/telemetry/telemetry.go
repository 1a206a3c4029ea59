// Package telemetry exposes Prometheus metrics for Graph requests and
// insights fetch cycles.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"

	"github.com/j-veylop/page-insights-tui/internal/logger"
)

// Cycle outcomes.
const (
	OutcomeSuccess    = "success"
	OutcomeFailed     = "failed"
	OutcomeInvalid    = "invalid"
	OutcomeSuperseded = "superseded"
)

var registry = prometheus.NewRegistry()

var (
	GraphRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "insights_graph_requests_total",
		Help: "Graph API requests by endpoint and status class",
	}, []string{"endpoint", "status"})
	GraphRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "insights_graph_request_duration_seconds",
		Help:    "Graph API request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
	FetchCycles = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "insights_fetch_cycles_total",
		Help: "Insights fetch cycles by outcome",
	}, []string{"outcome"})
	FetchCycleDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "insights_fetch_cycle_duration_seconds",
		Help:    "Wall time of a complete insights fetch cycle",
		Buckets: prometheus.DefBuckets,
	})
	Logins = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "insights_logins_total",
		Help: "Login attempts by method and outcome",
	}, []string{"method", "outcome"})
)

func init() {
	registry.MustRegister(
		GraphRequests,
		GraphRequestDuration,
		FetchCycles,
		FetchCycleDuration,
		Logins,
	)
}

// Registry returns the registry all metrics are registered with.
func Registry() *prometheus.Registry {
	return registry
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// StatusClass buckets an HTTP status code. Zero means the request never got
// a response.
func StatusClass(code int) string {
	if code <= 0 {
		return "error"
	}
	return strconv.Itoa(code/100) + "xx"
}

// ObserveRequest records one Graph request.
func ObserveRequest(endpoint string, status int, d time.Duration) {
	GraphRequests.WithLabelValues(endpoint, StatusClass(status)).Inc()
	GraphRequestDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// ObserveCycle records the outcome of one fetch cycle.
func ObserveCycle(outcome string, d time.Duration) {
	FetchCycles.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSuccess || outcome == OutcomeFailed {
		FetchCycleDuration.Observe(d.Seconds())
	}
}

// ObserveLogin records a login attempt.
func ObserveLogin(method string, ok bool) {
	outcome := OutcomeSuccess
	if !ok {
		outcome = OutcomeFailed
	}
	Logins.WithLabelValues(method, outcome).Inc()
}

// Snapshot is a summary of the counters shown in the Info tab.
type Snapshot struct {
	Requests       float64
	RequestErrors  float64
	Cycles         float64
	CycleFailures  float64
	CyclesDiscards float64
}

// Snap gathers the current counter totals.
func Snap() (Snapshot, error) {
	families, err := registry.Gather()
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to gather metrics: %w", err)
	}

	var s Snapshot
	for _, mf := range families {
		switch mf.GetName() {
		case "insights_graph_requests_total":
			for _, m := range mf.GetMetric() {
				v := m.GetCounter().GetValue()
				s.Requests += v
				if status := label(m, "status"); status != "2xx" {
					s.RequestErrors += v
				}
			}
		case "insights_fetch_cycles_total":
			for _, m := range mf.GetMetric() {
				v := m.GetCounter().GetValue()
				s.Cycles += v
				switch label(m, "outcome") {
				case OutcomeFailed:
					s.CycleFailures += v
				case OutcomeSuperseded:
					s.CyclesDiscards += v
				}
			}
		}
	}
	return s, nil
}

func label(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}

// Server serves /metrics.
type Server struct {
	srv      *http.Server
	listener net.Listener
}

// Start listens on addr and serves metrics in the background.
func Start(addr string) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())

	s := &Server{
		srv:      &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		listener: ln,
	}

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server stopped", "error", err)
		}
	}()

	logger.Info("Metrics server started", "addr", ln.Addr().String())
	return s, nil
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Shutdown stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

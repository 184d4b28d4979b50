// Package service exposes the sidecar HTTP surface of a grading run: a
// health endpoint and the Prometheus metrics endpoint.
package service

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/ethereum/go-ethereum/log"

	"github.com/NguyenHuuCuongK18/auto-testkit-generation-and-testing/metrics"
)

const (
	HealthzHost = "0.0.0.0"
	HealthzPort = "8080"

	MetricsHost = "0.0.0.0"
	MetricsPort = "7300"
)

// StatusFunc reports whether a grading run is currently in flight. It is
// polled by the health endpoint; nil means "not running".
type StatusFunc func() bool

// Service runs the two sidecar HTTP servers for the lifetime of the CLI
// process. Grading itself never depends on them; a port conflict costs an
// error metric and a log line, not the run.
type Service struct {
	Healthz *HealthzServer
	Metrics *MetricsServer
}

// New builds the sidecar servers. The version and status function feed the
// health endpoint's response body.
func New(version string, status StatusFunc) *Service {
	return &Service{
		Healthz: NewHealthzServer(version, status),
		Metrics: &MetricsServer{},
	}
}

// Start brings both servers up in the background.
func (s *Service) Start(ctx context.Context) {
	go s.serve(ctx, "healthz", net.JoinHostPort(HealthzHost, HealthzPort), s.Healthz.Start)
	go s.serve(ctx, "metrics", net.JoinHostPort(MetricsHost, MetricsPort), s.Metrics.Start)
}

func (s *Service) serve(ctx context.Context, name, addr string, start func(context.Context, string) error) {
	log.Info("Starting sidecar server", "server", name, "addr", addr)
	if err := start(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("Sidecar server failed", "server", name, "err", err)
		metrics.RecordError("sidecar server " + name)
	}
}

// Shutdown stops both servers, waiting briefly for in-flight requests.
func (s *Service) Shutdown() {
	if err := s.Healthz.Shutdown(); err != nil {
		log.Debug("Healthz shutdown", "err", err)
	}
	if err := s.Metrics.Shutdown(); err != nil {
		log.Debug("Metrics shutdown", "err", err)
	}
	log.Info("Sidecar servers stopped")
}

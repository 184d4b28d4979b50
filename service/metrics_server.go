package service

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// MetricsServer exposes the Prometheus registry over HTTP.
type MetricsServer struct {
	server *http.Server
}

func (m *MetricsServer) Start(_ context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
	})
	m.server = &http.Server{
		Handler:           c.Handler(mux),
		Addr:              addr,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return m.server.ListenAndServe()
}

func (m *MetricsServer) Shutdown() error {
	if m.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return m.server.Shutdown(ctx)
}

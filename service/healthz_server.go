package service

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/rs/cors"
)

const shutdownTimeout = 5 * time.Second

// HealthzServer answers liveness probes with the grader's version and
// whether a run is currently in flight.
type HealthzServer struct {
	version string
	status  StatusFunc
	server  *http.Server
}

type healthzResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Running bool   `json:"running"`
}

func NewHealthzServer(version string, status StatusFunc) *HealthzServer {
	return &HealthzServer{version: version, status: status}
}

func (h *HealthzServer) Start(_ context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.handle)
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
	})
	h.server = &http.Server{
		Handler:           c.Handler(mux),
		Addr:              addr,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return h.server.ListenAndServe()
}

func (h *HealthzServer) Shutdown() error {
	if h.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.server.Shutdown(ctx)
}

func (h *HealthzServer) handle(w http.ResponseWriter, r *http.Request) {
	log.Debug("Health check", "path", r.URL.Path, "remote", r.RemoteAddr)

	running := false
	if h.status != nil {
		running = h.status()
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(healthzResponse{
		Status:  "ok",
		Version: h.version,
		Running: running,
	})
}

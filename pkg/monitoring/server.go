package monitoring

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// Server exposes the local health and metrics endpoints for a client
// deployment. It listens on loopback by default; nothing here is meant to
// be reachable off the device.
type Server struct {
	httpServer *http.Server
}

// NewServer creates a monitoring server wiring the health manager and
// metrics collector onto their configured paths.
func NewServer(addr, healthPath, metricsPath string, health *HealthManager, metrics *MetricsCollector) *Server {
	router := mux.NewRouter()
	router.Handle(healthPath, health.Handler()).Methods(http.MethodGet)
	router.Handle(metricsPath, metrics.Handler()).Methods(http.MethodGet)

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
	}
}

// Start begins serving; it blocks until the server stops
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully shuts the server down
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

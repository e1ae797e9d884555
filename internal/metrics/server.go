// Package metrics serves the Prometheus scrape endpoint and the process
// uptime and memory gauges. Domain metrics are registered by the packages
// that own them.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/DevBigEazi/circlepot-indexer/internal/common"
	"github.com/DevBigEazi/circlepot-indexer/internal/config"
	"github.com/DevBigEazi/circlepot-indexer/internal/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes /metrics and a trivial health endpoint.
type Server struct {
	cfg    *config.MetricsConfig
	log    *logger.Logger
	server *http.Server
	stopCh chan struct{}
}

// NewServer creates a metrics server. It does nothing until Start.
func NewServer(cfg *config.MetricsConfig, log *logger.Logger) *Server {
	return &Server{
		cfg:    cfg,
		log:    log.WithComponent(common.ComponentMetrics),
		stopCh: make(chan struct{}),
	}
}

// Start begins serving in the background. Disabled config is a no-op.
func (s *Server) Start(ctx context.Context) error {
	if s.cfg == nil || !s.cfg.Enabled {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(s.cfg.Path, promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	s.server = &http.Server{
		Addr:              s.cfg.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go s.updateSystemMetrics(ctx)

	go func() {
		s.log.Infof("metrics listening on %s%s", s.cfg.ListenAddress, s.cfg.Path)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Errorf("metrics server error: %v", err)
		}
	}()

	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	close(s.stopCh)

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown metrics server: %w", err)
	}
	return nil
}

func (s *Server) updateSystemMetrics(ctx context.Context) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			UpdateSystemMetrics()
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		}
	}
}

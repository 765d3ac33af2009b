package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/reef-chain/explorer-backtracker/internal/logger"
)

// PullService exposes the default registry for Prometheus to scrape
type PullService struct {
	server *http.Server
}

// NewPullService creates a pull service listening on addr
func NewPullService(addr string) *PullService {
	return &PullService{
		server: &http.Server{
			Addr:           addr,
			Handler:        promhttp.Handler(),
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   10 * time.Second,
			MaxHeaderBytes: 1 << 20,
		},
	}
}

// Start serves metrics in the background
func (s *PullService) Start() {
	logger.Info("Starting metrics pull service", zap.String("address", s.server.Addr))
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(err, zap.String("address", s.server.Addr))
		}
	}()
}

// Shutdown stops the pull service
func (s *PullService) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/reef-chain/explorer-backtracker/internal/adapter"
	"github.com/reef-chain/explorer-backtracker/internal/api/middleware"
	"github.com/reef-chain/explorer-backtracker/internal/api/rest"
	"github.com/reef-chain/explorer-backtracker/internal/domain"
	"github.com/reef-chain/explorer-backtracker/internal/logger"
	"github.com/reef-chain/explorer-backtracker/internal/metrics"
	"github.com/reef-chain/explorer-backtracker/internal/price"
)

// Config holds the server configuration
type Config struct {
	Debug        bool
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	Network      domain.Network
	Version      string
}

// Server wraps the HTTP server
type Server struct {
	config     Config
	prices     price.Cache
	clock      adapter.Clock
	httpServer *http.Server
}

// New creates a new API server
func New(cfg Config, prices price.Cache, clock adapter.Clock) *Server {
	return &Server{
		config: cfg,
		prices: prices,
		clock:  clock,
	}
}

// Router builds the gin engine with all middleware and routes
func (s *Server) Router() *gin.Engine {
	// Set Gin mode based on debug flag
	if s.config.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics(metrics.NewDefaultRequestMetrics("explorer_api")))
	router.Use(middleware.SetupCORS())

	restHandler := rest.NewHandler(s.config.Network, s.config.Version, s.prices, s.clock)
	rest.SetupRoutes(router, restHandler)

	return router
}

// Start initializes and starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	logger.Info("Starting API server",
		zap.String("address", addr),
		zap.String("network", string(s.config.Network)),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down API server")

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}

	return nil
}

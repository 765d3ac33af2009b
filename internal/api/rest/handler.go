package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reef-chain/explorer-backtracker/internal/adapter"
	"github.com/reef-chain/explorer-backtracker/internal/domain"
	"github.com/reef-chain/explorer-backtracker/internal/price"
)

// Handler defines the interface for REST API handlers
type Handler interface {
	// HealthCheck returns the network, the service version and the server time
	// GET /hc
	HealthCheck(c *gin.Context)

	// GetPrice returns the cached native token price
	// GET /price/reef
	GetPrice(c *gin.Context)

	// NotFound responds to unknown routes
	NotFound(c *gin.Context)
}

// VersionResponse is the body of the health check
type VersionResponse struct {
	Network domain.Network `json:"network"`
	Version string         `json:"version"`
	// Time in unix milliseconds
	Time int64 `json:"time"`
}

// handler implements the Handler interface
type handler struct {
	network domain.Network
	version string
	prices  price.Cache
	clock   adapter.Clock
}

// NewHandler creates a new REST API handler
func NewHandler(network domain.Network, version string, prices price.Cache, clock adapter.Clock) Handler {
	return &handler{
		network: network,
		version: version,
		prices:  prices,
		clock:   clock,
	}
}

func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, VersionResponse{
		Network: h.network,
		Version: h.version,
		Time:    h.clock.Now().UnixMilli(),
	})
}

func (h *handler) GetPrice(c *gin.Context) {
	snapshot, err := h.prices.Get(c.Request.Context())
	if err != nil {
		respondUnavailable(c, err, "Price is unavailable")
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

func (h *handler) NotFound(c *gin.Context) {
	respondNotFound(c, "Route not found")
}

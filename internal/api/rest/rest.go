package rest

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler) {
	router.GET("/hc", handler.HealthCheck)
	router.GET("/price/reef", handler.GetPrice)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.NoRoute(handler.NotFound)
}

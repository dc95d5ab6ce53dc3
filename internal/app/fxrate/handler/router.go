package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fxrateproxy/pkg/logger"
	"fxrateproxy/pkg/metrics"
)

// ReadinessChecker reports whether the Snapshot Cache has completed its
// first sync and is fit to serve lookups.
type ReadinessChecker interface {
	Ready() bool
}

// SetupRoutes wires the API role's Gin engine: Recovery, request logging,
// Prometheus instrumentation, CORS, then the rates endpoint and the
// operational surface (health, readiness, metrics).
func SetupRoutes(ratesHandler *RatesHandler, readiness ReadinessChecker) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(logger.GinLoggerMiddleware())
	router.Use(metrics.GinPrometheusMiddleware("fx-api"))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposeHeaders:    []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "fx-api"})
	})

	router.GET("/readyz", func(c *gin.Context) {
		if !readiness.Ready() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/rates", ratesHandler.GetRate)

	return router
}

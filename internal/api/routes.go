package api

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cardfolio/cardfolio/internal/api/handlers"
	"github.com/cardfolio/cardfolio/internal/catalog"
	"github.com/cardfolio/cardfolio/internal/metrics"
	"github.com/cardfolio/cardfolio/internal/services"
)

func SetupRouter(catalogRepo catalog.Repository, insightsService *services.InsightsService, priceWorker *services.PriceWorker, snapshotService *services.SnapshotService) *gin.Engine {
	router := gin.Default()

	// CORS configuration - allow origins from environment or use defaults
	config := cors.DefaultConfig()
	if corsOrigins := os.Getenv("CORS_ALLOWED_ORIGINS"); corsOrigins != "" {
		config.AllowOrigins = strings.Split(corsOrigins, ",")
	} else {
		config.AllowOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	config.AllowCredentials = false // Explicitly set
	router.Use(cors.New(config))

	router.Use(httpMetrics())

	// Initialize handlers
	inventoryHandler := handlers.NewInventoryHandler(snapshotService)
	insightsHandler := handlers.NewInsightsHandler(insightsService)
	catalogHandler := handlers.NewCatalogHandler(catalogRepo)
	priceHandler := handlers.NewPriceHandler(priceWorker)

	// API routes
	api := router.Group("/api")
	{
		// Inventory routes
		inventory := api.Group("/inventory")
		{
			inventory.GET("", inventoryHandler.GetInventory)
			inventory.POST("", inventoryHandler.AddItem)
			inventory.PUT("/:id", inventoryHandler.UpdateItem)
			inventory.DELETE("/:id", inventoryHandler.DeleteItem)
			inventory.GET("/stats", inventoryHandler.GetStats)
			inventory.GET("/value-history", inventoryHandler.GetValueHistory)
			inventory.POST("/snapshot", inventoryHandler.TakeSnapshot)
			inventory.POST("/:id/refresh-price", priceHandler.RefreshItemPrice)
		}

		// Catalog routes
		cat := api.Group("/catalog")
		{
			cat.GET("", catalogHandler.ListCards)
			cat.GET("/search", catalogHandler.SearchCards)
		}

		// Insights routes
		ins := api.Group("/insights")
		{
			ins.GET("/profile", insightsHandler.GetProfile)
			ins.GET("/recommendations", insightsHandler.GetRecommendations)
		}

		// Price routes
		prices := api.Group("/prices")
		{
			prices.GET("/status", priceHandler.GetPriceStatus)
		}
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

// httpMetrics records request counts and latency per route.
func httpMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" || path == "/metrics" {
			return
		}

		metrics.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method, path, strconv.Itoa(c.Writer.Status()),
		).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(
			c.Request.Method, path,
		).Observe(time.Since(start).Seconds())
	}
}

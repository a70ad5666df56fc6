package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/nomigo/geosearch/app/controllers"
)

// SetupAPIRoutes wires the forward-search endpoint and its health check.
func SetupAPIRoutes(router *gin.Engine, search *controllers.SearchController) {
	v1 := router.Group("/v1")
	{
		v1.GET("/search", search.Search)
		v1.GET("/health", search.HealthCheck)
	}
}

// SetupHealthRoutes mounts the root-level liveness/readiness probes.
func SetupHealthRoutes(router *gin.Engine, search *controllers.SearchController) {
	router.GET("/health", search.HealthCheck)
	router.GET("/ready", search.HealthCheck)
	router.GET("/live", search.HealthCheck)
}

// SetupAllRoutes wires middleware, web, health and API routes.
func SetupAllRoutes(router *gin.Engine, search *controllers.SearchController) {
	setupMiddleware(router)

	SetupWebRoutes(router)
	SetupHealthRoutes(router, search)
	SetupAPIRoutes(router, search)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"error":  "Route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})
}

func setupMiddleware(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
}

package routes

import "github.com/gin-gonic/gin"

// SetupWebRoutes mounts the informational root and docs pages.
func SetupWebRoutes(router *gin.Engine) {
	web := router.Group("/")
	{
		web.GET("/", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"message": "geosearch",
				"version": "1.0.0",
				"docs":    "/docs",
			})
		})

		web.GET("/docs", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"api": "geosearch forward-search API v1",
				"endpoints": map[string]string{
					"search": "GET /v1/search?q=...",
					"health": "GET /v1/health",
				},
			})
		})
	}
}

package httpapi

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter собирает gin роутер со всеми маршрутами API
func NewRouter(api *API) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(AccessLog(api.logger))
	router.Use(CORS())

	router.GET("/api/categories", api.GetCategories)
	router.POST("/api/refresh", api.Refresh)
	router.GET("/api/summary", api.GetSummary)
	router.GET("/api/export", api.Export)
	router.GET("/api/charts/:kind", api.GetChart)

	products := router.Group("/api/products")
	{
		products.GET("", api.GetProducts)
		products.POST("", api.InsertProduct)
		products.DELETE("/:id", api.DeleteProduct)
	}

	api.logger.Debug("routes registered", zap.Int("count", len(router.Routes())))
	return router
}

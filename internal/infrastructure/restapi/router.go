package restapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterAssetRoutes wires the asset endpoints onto an existing engine.
// Middleware (logging, CORS, recovery) is the caller's concern.
func RegisterAssetRoutes(router *gin.Engine, handler *AssetHandler) {
	v1 := router.Group("/api/v1")
	{
		v1.GET("/owners/:owner/assets", handler.GetOwnerAssetsHandler)
	}

	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
}

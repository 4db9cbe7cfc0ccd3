package api

import (
	"net/http"

	authDelivery "aura-backend/internal/auth/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *Handler) {
	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		protected := api.Group("")
		protected.Use(authDelivery.AuthMiddleware(h.config.JWTSecret))
		{
			// Sync routes
			protected.POST("/sync", h.syncHandler.StartSync)
			protected.POST("/sync/:type/cancel", h.syncHandler.CancelSync)
			protected.GET("/sync/status", h.syncHandler.GetSyncStatus)

			// Source routes
			protected.POST("/sources", h.sourceHandler.RegisterSource)
			protected.GET("/sources", h.sourceHandler.GetSources)
			protected.PUT("/sources/:type/toggle", h.sourceHandler.ToggleSource)
			protected.DELETE("/sources/:type", h.sourceHandler.DeleteSource)

			// Fact routes
			protected.GET("/facts", h.factHandler.GetFacts)

			// Property routes
			protected.GET("/properties", h.propertyHandler.GetProperties)
			protected.GET("/properties/:id", h.propertyHandler.GetPropertyByID)
			protected.DELETE("/properties/:id", h.propertyHandler.DeleteProperty)
		}
	}
}

package api

import (
	factDelivery "aura-backend/internal/fact/delivery"
	factRepo "aura-backend/internal/fact/repository"
	propertyDelivery "aura-backend/internal/property/delivery"
	propertyRepo "aura-backend/internal/property/repository"
	propertyUsecasePkg "aura-backend/internal/property/usecase"
	sourceDelivery "aura-backend/internal/source/delivery"
	sourceUsecasePkg "aura-backend/internal/source/usecase"
	syncDelivery "aura-backend/internal/sync/delivery"
	syncUsecasePkg "aura-backend/internal/sync/usecase"
	"aura-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	config          *config.Config
	syncHandler     *syncDelivery.SyncHandler
	sourceHandler   *sourceDelivery.SourceHandler
	factHandler     *factDelivery.FactHandler
	propertyHandler *propertyDelivery.PropertyHandler
}

func NewHandler(
	syncUc syncUsecasePkg.SyncUsecase,
	sourceUc sourceUsecasePkg.SourceUsecase,
	factRepository factRepo.FactRepository,
	propertyRepository propertyRepo.PropertyRepository,
	cfg *config.Config,
) *Handler {
	return &Handler{
		config:          cfg,
		syncHandler:     syncDelivery.NewSyncHandler(syncUc),
		sourceHandler:   sourceDelivery.NewSourceHandler(sourceUc),
		factHandler:     factDelivery.NewFactHandler(factRepository),
		propertyHandler: propertyDelivery.NewPropertyHandler(propertyUsecasePkg.NewPropertyUsecase(propertyRepository, factRepository)),
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()
	gin.SetMode(gin.ReleaseMode)

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h)

	return r.Run(addr)
}

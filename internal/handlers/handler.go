package handlers

import (
	"thermostat/internal/logger"
	"thermostat/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	// live target stream for wall displays, same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		h.registerProfileRoutes(api)
		h.registerTemperatureRoutes(api)
		h.registerSettingRoutes(api.Group("/settings", h.userIdMiddleware))
		api.GET("/logs", h.userIdMiddleware, h.getLogs)
	}
}

func (h *Handler) registerProfileRoutes(api *gin.RouterGroup) {
	profiles := api.Group("/profiles")
	{
		profiles.GET("", h.getProfiles)
		// form or JSON: profile=weekdays&hour=6&temp=21.5
		profiles.POST("/slider", h.userIdMiddleware, h.setSlider)
	}
}

func (h *Handler) registerTemperatureRoutes(api *gin.RouterGroup) {
	temp := api.Group("/temperature")
	{
		temp.GET("/target", h.getTargetTemp)
		temp.GET("/actual", h.getActualTemp)
		temp.POST("/actual", h.reportActualTemp)
	}
}

func (h *Handler) registerSettingRoutes(settings *gin.RouterGroup) {
	settings.GET("", h.listSettings)
	settings.POST("/refresh", h.refreshSettings)
	settings.GET("/:key", h.getSetting)
	settings.PUT("/:key", h.putSetting)
	settings.DELETE("/:key", h.deleteSetting)
}

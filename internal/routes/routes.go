package routes

import (
	"oriventa_backend/internal/handlers"
	"oriventa_backend/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes регистрирует все HTTP маршруты.
// authMW - проверка сессии, роли проверяются внутри хэндлеров через middleware.Require.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	authMW gin.HandlerFunc,
) {
	api := ginRouter.Group("/api")
	{
		appHandlers.AuthHandler.RegisterRoutes(api, authMW)
		appHandlers.UserHandler.RegisterRoutes(api, authMW)
		appHandlers.ConsultationHandler.RegisterRoutes(api, authMW)
		appHandlers.DossierHandler.RegisterRoutes(api, authMW)
		appHandlers.ResumeHandler.RegisterRoutes(api, authMW)
		appHandlers.ContactHandler.RegisterRoutes(api, authMW)
		appHandlers.SuiviHandler.RegisterRoutes(api, authMW)
	}

	ginRouter.GET("/health", appHandlers.HealthHandler.Health)
	ginRouter.GET("/metrics", gin.WrapH(promhttp.Handler()))

	logger.Debug("HTTP routes registered", "count", len(ginRouter.Routes()))
}

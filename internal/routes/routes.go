package routes

import (
	"teamchat/internal/handlers"
	"teamchat/internal/logger"
	"teamchat/internal/middleware"
	"teamchat/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes mounts every HTTP and WebSocket route.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	wsHandler *ws.WebSocketHandler,
	tokens middleware.TokenParser,
) {
	ginRouter.GET("/health", appHandlers.HealthHandler.Health)
	ginRouter.GET("/metrics", gin.WrapH(promhttp.Handler()))
	ginRouter.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := ginRouter.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)

		// Signed upload URLs and stored files carry their own authorization.
		appHandlers.UploadHandler.RegisterPublicRoutes(api)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(tokens))
		{
			appHandlers.WorkspaceHandler.RegisterRoutes(protected)
			appHandlers.ChannelHandler.RegisterRoutes(protected)
			appHandlers.MemberHandler.RegisterRoutes(protected)
			appHandlers.MessageHandler.RegisterRoutes(protected)
			appHandlers.UploadHandler.RegisterRoutes(protected)
		}
	}

	// /ws authenticates with the ?token= query parameter.
	ginRouter.GET("/ws", wsHandler.ServeWS)
	logger.Info("WebSocket route /ws registered")
}

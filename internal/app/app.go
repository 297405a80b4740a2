package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"teamchat/database"
	"teamchat/internal/auth"
	"teamchat/internal/config"
	"teamchat/internal/handlers"
	"teamchat/internal/imageprocessor"
	"teamchat/internal/logger"
	"teamchat/internal/middleware"
	"teamchat/internal/routes"
	"teamchat/internal/services"
	"teamchat/internal/storage"
	"teamchat/internal/validator"
	"teamchat/internal/workers"
	"teamchat/pkg/apperrors"
	"teamchat/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	gormDB, err := database.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	defer sqlDB.Close()

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}
	logger.Info("Database connected")

	ginRouter, err := SetupRouter(ctx, cfg, gormDB)
	if err != nil {
		logger.Fatal("Failed to set up router", "error", err)
	}

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              address,
		Handler:           ginRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "address", address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shut down", "error", err)
	}
}

// SetupRouter wires storage, services, handlers and the realtime hub.
// Background goroutines stop when ctx is cancelled.
func SetupRouter(ctx context.Context, cfg *config.Config, gormDB *gorm.DB) (*gin.Engine, error) {
	apperrors.Debug = cfg.IsDevelopment()

	storageInstance, err := storage.NewStorage(storage.Config{
		Type:       cfg.Storage.Type,
		BasePath:   cfg.Storage.BasePath,
		BaseURL:    cfg.Storage.BaseURL,
		Bucket:     cfg.Storage.Bucket,
		Region:     cfg.Storage.Region,
		AccessKey:  cfg.Storage.AccessKey,
		SecretKey:  cfg.Storage.SecretKey,
		Endpoint:   cfg.Storage.Endpoint,
		UseSSL:     cfg.Storage.UseSSL,
		PublicRead: cfg.Storage.PublicRead,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize storage: %w", err)
	}
	logger.Info("Storage initialized", "type", storageInstance.Provider())

	// 1. Realtime hub
	wsManager := ws.NewWebSocketManager()
	go wsManager.Run(ctx)

	// 2. Services
	serviceContainer := initializeServices(cfg, storageInstance, wsManager)

	// 3. Background workers
	if cfg.Retention.Enabled {
		sweeper, err := workers.NewUploadSweeper(gormDB, serviceContainer.UploadService, cfg.Retention.Cron, cfg.OrphanAfter())
		if err != nil {
			return nil, fmt.Errorf("initialize upload sweeper: %w", err)
		}
		sweeper.Start(ctx)
	}

	// 4. Handlers
	limiter := middleware.NewLimiterPool(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	go func() {
		<-ctx.Done()
		limiter.Shutdown()
	}()
	appHandlers := initializeHandlers(serviceContainer, gormDB, limiter)

	wsHandler := ws.NewWebSocketHandler(
		wsManager,
		serviceContainer.AuthService,
		serviceContainer.AccessService,
		gormDB,
		cfg.Server.CORSOrigins,
	)

	// 5. Gin
	ginRouter := initializeGinRouter(cfg, gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers, wsHandler, serviceContainer.AuthService)

	return ginRouter, nil
}

func initializeServices(cfg *config.Config, storageInstance storage.Storage, wsManager *ws.WebSocketManager) *services.ServiceContainer {
	return services.NewServiceContainer(services.Dependencies{
		Tokens:    auth.NewTokenManager(cfg.JWT.Secret),
		Storage:   storageInstance,
		Images:    imageprocessor.NewProcessor(cfg.Upload.ImageQuality),
		Publisher: wsManager,
		Auth: services.AuthConfig{
			AccessTTL:  cfg.AccessTokenTTL(),
			RefreshTTL: cfg.RefreshTokenTTL(),
		},
		Upload: services.UploadConfig{
			PublicURL:      cfg.Server.PublicURL,
			TokenTTL:       cfg.UploadTokenTTL(),
			MaxFileSize:    cfg.Upload.MaxSize,
			AllowedTypes:   cfg.Upload.AllowedTypes,
			ThumbnailWidth: cfg.Upload.ThumbnailWidth,
		},
	})
}

func initializeHandlers(svc *services.ServiceContainer, gormDB *gorm.DB, limiter *middleware.LimiterPool) *handlers.AppHandlers {
	baseHandler := handlers.NewBaseHandler(validator.New())

	return &handlers.AppHandlers{
		AuthHandler:      handlers.NewAuthHandler(baseHandler, svc.AuthService, limiter),
		WorkspaceHandler: handlers.NewWorkspaceHandler(baseHandler, svc.WorkspaceService),
		ChannelHandler:   handlers.NewChannelHandler(baseHandler, svc.ChannelService),
		MemberHandler:    handlers.NewMemberHandler(baseHandler, svc.MemberService, svc.ConversationService),
		MessageHandler:   handlers.NewMessageHandler(baseHandler, svc.MessageService, svc.ReactionService),
		UploadHandler:    handlers.NewUploadHandler(baseHandler, svc.UploadService),
		HealthHandler:    handlers.NewHealthHandler(gormDB),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Server.CORSOrigins))
	router.Use(middleware.DBMiddleware(db))
	return router
}

package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"oriventa_backend/internal/auth"
	"oriventa_backend/internal/config"
	"oriventa_backend/internal/database"
	"oriventa_backend/internal/handlers"
	"oriventa_backend/internal/logger"
	"oriventa_backend/internal/middleware"
	"oriventa_backend/internal/routes"
	"oriventa_backend/internal/services"
	"oriventa_backend/internal/storage"
	"oriventa_backend/internal/validator"
	"oriventa_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const shutdownTimeout = 15 * time.Second

// Run поднимает БД, миграции, manager из конфигурации и HTTP-сервер.
// migrateOnly - выйти сразу после миграций.
func Run(cfg *config.Config, migrateOnly bool) error {
	logger.Init(cfg.Server.Env)
	apperrors.SetDebug(cfg.IsDevelopment())
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	gormDB, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return fmt.Errorf("get *sql.DB from GORM: %w", err)
	}
	defer sqlDB.Close()
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if migrateOnly {
		logger.Info("Migrations applied, exiting")
		return nil
	}

	storageInstance, err := storage.NewStorage(storageConfig(cfg))
	if err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	ginRouter, container, err := SetupRouter(cfg, gormDB, storageInstance)
	if err != nil {
		return err
	}

	if err := seedManager(gormDB, container.UserService, cfg); err != nil {
		return fmt.Errorf("seed manager: %w", err)
	}

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           ginRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server startup error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// SetupRouter собирает сервисы, хэндлеры и gin.Engine. Используется и тестами.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB, storageInstance storage.Storage) (*gin.Engine, *services.ServiceContainer, error) {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	issuer, err := newTokenIssuer(cfg)
	if err != nil {
		return nil, nil, err
	}

	// 1. Сервисы
	serviceContainer := services.NewServiceContainer(storageInstance, issuer, suiviRule(cfg))

	// 2. Хэндлеры
	appHandlers := initializeHandlers(cfg, serviceContainer)

	// 3. Gin
	ginRouter := initializeGinRouter(cfg, gormDB)

	// 4. Маршруты
	routes.RegisterRoutes(ginRouter, appHandlers, middleware.AuthMiddleware(issuer))

	return ginRouter, serviceContainer, nil
}

func initializeHandlers(cfg *config.Config, svc *services.ServiceContainer) *handlers.AppHandlers {
	baseHandler := handlers.NewBaseHandler(validator.New())
	uploadLimit := cfg.Upload.MaxRequestSize

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, svc.AuthService, svc.UserService, cfg.Cookie.Secure),
		UserHandler:         handlers.NewUserHandler(baseHandler, svc.UserService),
		ConsultationHandler: handlers.NewConsultationHandler(baseHandler, svc.ConsultationService),
		DossierHandler:      handlers.NewDossierHandler(baseHandler, svc.DossierService, uploadLimit),
		ResumeHandler:       handlers.NewResumeHandler(baseHandler, svc.ResumeService, uploadLimit),
		ContactHandler:      handlers.NewContactHandler(baseHandler, svc.ContactService),
		SuiviHandler:        handlers.NewSuiviHandler(baseHandler, svc.SuiviService, uploadLimit),
		HealthHandler:       handlers.NewHealthHandler(baseHandler),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = 8 << 20
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Server.CORSOrigins))
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}

// seedManager - ровно один manager: создается из ADMIN_EMAIL/ADMIN_PASSWORD, если его нет
func seedManager(db *gorm.DB, users services.UserService, cfg *config.Config) error {
	created, err := users.EnsureManager(db, cfg.Bootstrap.ManagerEmail, cfg.Bootstrap.ManagerPassword)
	if err != nil {
		return err
	}
	if created {
		logger.Info("Manager account created", "email", cfg.Bootstrap.ManagerEmail)
	} else {
		logger.Info("Manager account already exists. Skipping creation.")
	}
	return nil
}

func newTokenIssuer(cfg *config.Config) (*auth.TokenIssuer, error) {
	secret := cfg.JWT.Secret
	if secret == "" {
		// Validate пропускает пустой секрет только в development/test
		secret = uuid.NewString() + uuid.NewString()
		logger.Warn("JWT_SECRET is not set, using a random secret; sessions will not survive a restart")
	}
	issuer, err := auth.NewTokenIssuer(secret)
	if err != nil {
		return nil, fmt.Errorf("token issuer: %w", err)
	}
	return issuer, nil
}

func storageConfig(cfg *config.Config) storage.Config {
	return storage.Config{
		Type:      cfg.Storage.Type,
		BasePath:  cfg.Storage.BasePath,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Endpoint:  cfg.Storage.Endpoint,
	}
}

func suiviRule(cfg *config.Config) *services.UploadRule {
	rule := services.DefaultSuiviRule()
	if len(cfg.Upload.SuiviExtensions) > 0 {
		rule.Extensions = cfg.Upload.SuiviExtensions
	}
	if cfg.Upload.MaxSize > 0 {
		rule.MaxSize = cfg.Upload.MaxSize
	}
	return rule
}

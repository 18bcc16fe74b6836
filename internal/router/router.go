package router

import (
	"log/slog"

	"github.com/ecobite/backend/internal/handlers"
	"github.com/ecobite/backend/internal/lifecycle"
	"github.com/ecobite/backend/internal/middleware"
	"github.com/ecobite/backend/internal/models"
	"github.com/ecobite/backend/internal/repositories"
	"github.com/ecobite/backend/internal/storage"
	"github.com/ecobite/backend/pkg/config"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.Use(eMiddleware.RequestLoggerWithConfig(eMiddleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v eMiddleware.RequestLoggerValues) error {
			if v.Error != nil {
				slog.Warn("request", "method", v.Method, "uri", v.URI, "status", v.Status, "error", v.Error)
			} else {
				slog.Info("request", "method", v.Method, "uri", v.URI, "status", v.Status)
			}
			return nil
		},
	}))
	slog.Info("global middleware configured")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, db *gorm.DB, uploader storage.Uploader, cfg *config.Config) error {
	// AutoMigrate relational models
	err := db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Claim{},
	)
	if err != nil {
		return err
	}
	slog.Info("auto-migrations completed for all models")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories and the lifecycle engine ---
	userRepo := repositories.NewPostgresUserRepository(db)
	postRepo := repositories.NewPostgresPostRepository(db)
	claimRepo := repositories.NewPostgresClaimRepository(db)
	statsRepo := repositories.NewPostgresStatsRepository(db)
	engine := lifecycle.NewEngine(db)

	// --- Unprotected routes ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret)
	authHandler.RegisterAuthRoutes(authGroup)

	statsHandler := handlers.NewStatsHandler(statsRepo)
	e.GET("/api/v1/stats/global", statsHandler.GetGlobalStats)

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())

	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterProfileRoutes(api)

	postHandler := handlers.NewPostHandler(postRepo, claimRepo, engine, uploader)
	postHandler.RegisterPostRoutes(api)

	claimHandler := handlers.NewClaimHandler(claimRepo, engine)
	claimHandler.RegisterClaimRoutes(api)

	api.GET("/stats/me", statsHandler.GetMyStats)

	slog.Info("all routes configured")
	return nil
}

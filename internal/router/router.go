package router

import (
	"github.com/anonto42/quillpost/backend/internal/cache"
	"github.com/anonto42/quillpost/backend/internal/handlers"
	"github.com/anonto42/quillpost/backend/internal/middleware"
	"github.com/anonto42/quillpost/backend/internal/repositories"
	"github.com/anonto42/quillpost/backend/internal/services"
	pkglog "github.com/anonto42/quillpost/backend/pkg/log"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, db *gorm.DB, counts cache.CountCache, jwtSecret string) {
	l := pkglog.L()

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewGormUserRepository(db)
	followRepo := repositories.NewGormFollowRepository(db)
	postRepo := repositories.NewGormPostRepository(db)

	// --- Initialize Services ---
	followService := services.NewFollowService(userRepo, followRepo, counts)
	postService := services.NewPostService(postRepo, counts)

	// Reads are open to visitors; mutations require a user (see middleware.RequireUser)
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(jwtSecret))

	userHandler := handlers.NewUserHandler(userRepo, followService, postService)
	userHandler.RegisterProfileRoutes(api)
	l.Debug().Msg("user profile routes configured")

	postHandler := handlers.NewPostHandler(postService)
	postHandler.RegisterPostRoutes(api)
	l.Debug().Msg("post routes configured")

	feedHandler := handlers.NewFeedHandler(postService)
	feedHandler.RegisterFeedRoutes(api)
	l.Debug().Msg("feed routes configured")

	followHandler := handlers.NewFollowHandler(followService)
	followHandler.RegisterFollowRoutes(api)
	l.Debug().Msg("follow routes configured")

	l.Info().Msg("all routes configured")
}

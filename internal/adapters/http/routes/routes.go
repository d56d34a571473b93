package routes

import (
	"time"

	"healthplan-admin/internal/adapters/http/handlers"
	"healthplan-admin/internal/adapters/http/middleware"
	"healthplan-admin/internal/adapters/persistence/repositories"
	"healthplan-admin/internal/config"
	"healthplan-admin/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) *services.ReportService {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	geoRepo := repositories.NewGeoRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, cfg)
	userService := services.NewUserService(userRepo, geoRepo)
	reportService := services.NewReportService(userRepo, geoRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg)
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	adminHandler := handlers.NewAdminHandler(userService, reportService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	requireAuth := middleware.AuthMiddleware(authService)

	// Auth routes. Responses carry credentials and must never be cached.
	auth := apiV1.Group("/auth", middleware.NoCacheHeaders())
	auth.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	auth.Post("/forgot-password", middleware.StrictRateLimiter(), authHandler.ForgotPassword)
	auth.Post("/reset-password", middleware.StrictRateLimiter(), authHandler.ResetPassword)
	auth.Get("/me", requireAuth, authHandler.Me)
	auth.Post("/verify-token", requireAuth, authHandler.VerifyToken)
	auth.Post("/change-password", requireAuth, authHandler.ChangePassword)

	// User directory routes
	users := apiV1.Group("/users", requireAuth)
	users.Post("/", middleware.AdminOnly(), userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/admin/all", middleware.AdminOnly(), userHandler.Admins)
	users.Get("/facility/:id", middleware.ManagerOrAdmin(), userHandler.ByFacility)
	users.Get("/district/:id", middleware.ManagerOrAdmin(), userHandler.ByDistrict)
	users.Get("/:id", userHandler.Get)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", middleware.AdminOnly(), userHandler.Delete)
	users.Post("/:id/deactivate", middleware.ManagerOrAdmin(), userHandler.Deactivate)
	users.Post("/:id/activate", middleware.ManagerOrAdmin(), userHandler.Activate)
	users.Post("/:id/change-password", userHandler.ChangePassword)

	// Admin routes
	admin := apiV1.Group("/admin", requireAuth, middleware.AdminOnly())
	admin.Get("/dashboard", middleware.PrivateCacheHeaders(time.Minute), adminHandler.Dashboard)
	admin.Get("/users/analytics", middleware.PrivateCacheHeaders(time.Minute), adminHandler.Analytics)
	admin.Get("/users/recent", adminHandler.RecentUsers)
	admin.Get("/users/inactive", adminHandler.InactiveUsers)
	admin.Get("/users/admins", adminHandler.Admins)
	admin.Get("/users/search-advanced", adminHandler.SearchUsers)
	admin.Post("/users/create-admin", adminHandler.CreateAdmin)
	admin.Post("/users/bulk-activate", adminHandler.BulkActivate)
	admin.Post("/users/bulk-deactivate", adminHandler.BulkDeactivate)
	admin.Post("/users/:id/reset-password", middleware.StrictRateLimiter(), adminHandler.ResetPassword)
	admin.Post("/users/:id/promote-to-admin", adminHandler.Promote)
	admin.Post("/users/:id/demote-from-admin", adminHandler.Demote)
	admin.Get("/security/admin-activity", adminHandler.AdminActivity)
	admin.Get("/system/health", adminHandler.SystemHealth)

	return reportService
}

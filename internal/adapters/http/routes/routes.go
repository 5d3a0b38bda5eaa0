package routes

import (
	"kidwallet-api/internal/adapters/http/handlers"
	"kidwallet-api/internal/adapters/http/middleware"
	"kidwallet-api/internal/adapters/persistence/githubstore"
	"kidwallet-api/internal/adapters/persistence/repositories"
	"kidwallet-api/internal/config"
	"kidwallet-api/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, store *githubstore.Client, refreshTokenRepo repositories.RefreshTokenRepository, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(store)
	friendRepo := repositories.NewFriendRepository(store)
	withdrawalRepo := repositories.NewWithdrawalRepository(store)
	userFileRepo := repositories.NewUserFileRepository(store)

	// Initialize services
	authService := services.NewAuthService(userRepo, userFileRepo, refreshTokenRepo, cfg)
	referralService := services.NewReferralService(userRepo, friendRepo, userFileRepo, cfg)
	withdrawalService := services.NewWithdrawalService(userRepo, withdrawalRepo, userFileRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(store)
	authHandler := handlers.NewAuthHandler(authService, cfg)
	referralHandler := handlers.NewReferralHandler(referralService)
	withdrawalHandler := handlers.NewWithdrawalHandler(withdrawalService)
	adminHandler := handlers.NewAdminHandler(userRepo, friendRepo, withdrawalRepo)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, healthHandler, authHandler, referralHandler,
		withdrawalHandler, adminHandler, cfg)
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(
	router fiber.Router,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	referralHandler *handlers.ReferralHandler,
	withdrawalHandler *handlers.WithdrawalHandler,
	adminHandler *handlers.AdminHandler,
	cfg *config.Config,
) {
	// API Info
	router.Get("/", healthHandler.APIInfo)

	// Auth routes (public)
	authRoutes := router.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// Friend referral routes (Authenticated users)
	friendRoutes := router.Group("/friends")
	friendRoutes.Use(middleware.AuthMiddleware(cfg))
	setupFriendRoutes(friendRoutes, referralHandler)

	// Withdrawal routes (Authenticated users)
	withdrawalRoutes := router.Group("/withdrawals")
	withdrawalRoutes.Use(middleware.AuthMiddleware(cfg))
	setupWithdrawalRoutes(withdrawalRoutes, withdrawalHandler)

	// Admin routes (Admin only)
	adminRoutes := router.Group("/admin")
	adminRoutes.Use(middleware.AuthMiddleware(cfg))
	adminRoutes.Use(middleware.AdminOnly())
	setupAdminRoutes(adminRoutes, adminHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes (rate-limited harder than the rest of the API)
	router.Post("/signup", middleware.AuthRateLimiter(), handler.Signup)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupFriendRoutes configures friend referral routes
func setupFriendRoutes(router fiber.Router, handler *handlers.ReferralHandler) {
	router.Get("/", handler.ListFriends)
	router.Post("/", handler.AddFriend)
	router.Get("/summary", handler.Summary)
}

// setupWithdrawalRoutes configures withdrawal routes
func setupWithdrawalRoutes(router fiber.Router, handler *handlers.WithdrawalHandler) {
	router.Get("/", handler.List)
	router.Post("/", handler.Request)
	router.Get("/eligibility", handler.Eligibility)
}

// setupAdminRoutes configures admin read-only routes
func setupAdminRoutes(router fiber.Router, handler *handlers.AdminHandler) {
	router.Get("/users", handler.ListUsers)
	router.Get("/friends", handler.ListFriends)
	router.Get("/withdrawals", handler.ListWithdrawals)
}

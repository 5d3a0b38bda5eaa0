package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kidwallet-api/internal/adapters/http/middleware"
	"kidwallet-api/internal/adapters/http/routes"
	"kidwallet-api/internal/adapters/persistence/githubstore"
	"kidwallet-api/internal/adapters/persistence/repositories"
	"kidwallet-api/internal/config"
	"kidwallet-api/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "kidwallet-api/docs" // Swagger docs
)

// @title KidWallet API
// @version 1.0
// @description Referral reward and wallet API for the KidWallet app
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@kidwallet.app

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to the document store
	store := githubstore.New(cfg.GitHub)

	// Bootstrap: repository access, data layout, admin account
	userRepo := repositories.NewUserRepository(store)
	userFileRepo := repositories.NewUserFileRepository(store)
	bootstrap := services.NewBootstrapService(store, userRepo, userFileRepo, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	if err := bootstrap.Run(ctx); err != nil {
		cancel()
		log.Fatalf("❌ Failed to bootstrap document store: %v", err)
	}
	cancel()

	// Session token table (process-local)
	refreshTokenRepo := repositories.NewRefreshTokenRepository()

	// Start Cron Service (store heartbeat + session cleanup)
	cronService := services.NewCronService(store, refreshTokenRepo)
	cronService.Start()
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "KidWallet API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, store, refreshTokenRepo, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}

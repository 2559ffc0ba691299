package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"edupayhub/internal/adapters/backend"
	"edupayhub/internal/adapters/http/middleware"
	"edupayhub/internal/adapters/http/routes"
	"edupayhub/internal/adapters/http/views"
	"edupayhub/internal/adapters/persistence/models"
	"edupayhub/internal/adapters/persistence/repositories"
	"edupayhub/internal/config"
	"edupayhub/internal/core/services"
	"edupayhub/internal/core/session"

	"github.com/gofiber/fiber/v2"

	_ "edupayhub/docs" // Swagger docs
)

// @title EduPayHub Dashboard API
// @version 1.0
// @description JSON surface of the EduPayHub school-payment dashboard

// @contact.name API Support

// @BasePath /api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Session store
	repo, closeStore, err := openSessionStore(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to open session store: %v", err)
	}
	defer closeStore()

	manager := session.NewManager(repo, cfg.Session.Secret, cfg.Session.TTL)
	api := backend.NewClient(cfg.API.BaseURL, cfg.API.Timeout)

	// Sweep expired sessions
	cronService := services.NewCronService(manager, cfg.Session.SweepSchedule)
	if err := cronService.Start(); err != nil {
		log.Fatalf("❌ Failed to start cron service: %v", err)
	}
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "EduPayHub Dashboard v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
		Views:        views.New(),
		ViewsLayout:  views.Layout,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, cfg, manager, api)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s, API: %s]", cfg.Port, cfg.AppMode, cfg.API.BaseURL)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// openSessionStore builds the configured session repository and returns
// a function releasing its connection
func openSessionStore(cfg *config.Config) (repositories.SessionRepository, func(), error) {
	switch cfg.Session.Store {
	case config.StoreMySQL:
		db, err := config.ConnectDatabase(cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := models.AutoMigrate(db); err != nil {
			config.CloseDatabase(db)
			return nil, nil, err
		}
		log.Println("✅ Database migration completed")
		return repositories.NewSessionRepository(db), func() { config.CloseDatabase(db) }, nil

	case config.StoreRedis:
		client, err := config.ConnectRedis(context.Background(), cfg)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewRedisSessionRepository(client), func() {
			if err := client.Close(); err != nil {
				log.Printf("⚠️ Error closing redis: %v", err)
			}
		}, nil

	default:
		log.Println("⚠️ Using in-memory session store; sessions are lost on restart")
		return repositories.NewMemorySessionRepository(), func() {}, nil
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

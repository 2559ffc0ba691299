package routes

import (
	"time"

	"edupayhub/internal/adapters/http/handlers"
	"edupayhub/internal/adapters/http/middleware"
	"edupayhub/internal/adapters/http/views"
	"edupayhub/internal/config"
	"edupayhub/internal/core/services"
	"edupayhub/internal/core/session"
	"edupayhub/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, cfg *config.Config, manager *session.Manager, api services.BackendAPI) {
	// Initialize services
	authService := services.NewAuthService(api, manager, validation.New())
	txService := services.NewTransactionService(api)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(manager, cfg)
	authHandler := handlers.NewAuthHandler(authService)
	dashboardHandler := handlers.NewDashboardHandler(txService, cfg.ItemsPerPage)

	// Routes without a session. Registered before the session middleware so
	// probes and scrapers never create sessions.
	app.Get("/health", healthHandler.HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Use("/static", middleware.CacheControl(24*time.Hour), filesystem.New(filesystem.Config{
		Root: views.Static(),
	}))
	app.Get("/api/v1", healthHandler.APIInfo)

	// Everything below runs with the browser's session
	app.Use(middleware.Sessions(manager, cfg), middleware.NoCacheHeaders())

	authLimiter := middleware.AuthRateLimiter()

	setupPageRoutes(app, authHandler, dashboardHandler, authLimiter)

	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, authHandler, dashboardHandler, authLimiter)
}

// setupPageRoutes configures the server-rendered pages
func setupPageRoutes(
	app *fiber.App,
	authHandler *handlers.AuthHandler,
	dashboardHandler *handlers.DashboardHandler,
	authLimiter fiber.Handler,
) {
	withSession := middleware.RequireSessionStore()

	// Protected
	app.Get(services.RouteDashboard, middleware.RequireSession(services.RouteSignIn), dashboardHandler.Dashboard)

	// Public
	app.Get("/signin", withSession, authHandler.SignInPage)
	app.Post("/signin", authLimiter, withSession, authHandler.SignIn)
	app.Get("/signup/admin", withSession, authHandler.SignUpAdminPage)
	app.Post("/signup/admin", authLimiter, withSession, authHandler.SignUpAdmin)
	app.Get("/signup/school-admin", withSession, authHandler.SignUpSchoolAdminPage)
	app.Post("/signup/school-admin", authLimiter, withSession, authHandler.SignUpSchoolAdmin)

	// Header control
	app.Post("/logout", withSession, authHandler.Logout)
}

// setupAPIV1Routes configures the JSON routes
func setupAPIV1Routes(
	router fiber.Router,
	authHandler *handlers.AuthHandler,
	dashboardHandler *handlers.DashboardHandler,
	authLimiter fiber.Handler,
) {
	withSession := middleware.RequireSessionStore()

	router.Get("/session", withSession, authHandler.APISession)

	// Auth routes (public)
	authRoutes := router.Group("/auth", withSession)
	authRoutes.Post("/signin", authLimiter, authHandler.APISignIn)
	authRoutes.Post("/signup/admin", authLimiter, authHandler.APISignUpAdmin)
	authRoutes.Post("/signup/school-admin", authLimiter, authHandler.APISignUpSchoolAdmin)
	authRoutes.Post("/logout", authHandler.APILogout)

	// Transactions (signed-in users)
	router.Get("/transactions", middleware.RequireAPISession(), dashboardHandler.APITransactions)
}

package handlers

import (
	"context"
	"time"

	"edupayhub/internal/config"
	"edupayhub/internal/core/session"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	manager *session.Manager
	cfg     *config.Config
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(manager *session.Manager, cfg *config.Config) *HealthHandler {
	return &HealthHandler{manager: manager, cfg: cfg}
}

// HealthCheck handles health check
// @Summary Health check
// @Description Check the dashboard and its session store
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	code := fiber.StatusOK
	status := "ok"
	storeStatus := "healthy"
	if err := h.manager.Ping(ctx); err != nil {
		code = fiber.StatusServiceUnavailable
		status = "degraded"
		storeStatus = "unhealthy"
	}

	return c.Status(code).JSON(fiber.Map{
		"status": status,
		"mode":   h.cfg.AppMode,
		"checks": fiber.Map{
			"api":           "healthy",
			"session_store": storeStatus,
		},
		"store":         h.cfg.Session.Store,
		"live_sessions": h.manager.LiveCount(),
	})
}

// APIInfo handles API v1 info
// @Summary API v1 Info
// @Description Returns API v1 information
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *HealthHandler) APIInfo(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "EduPayHub Dashboard API v1.0",
		"version": "1.0.0",
		"docs":    "/swagger/index.html",
	})
}

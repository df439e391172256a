package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	serviceName    = "stockpulse-api"
	serviceVersion = "1.0.0"
)

// Providers records which optional upstreams have credentials
type Providers struct {
	SymbolSearch string
	AIModel      string
}

type HealthHandler struct {
	startTime time.Time
	providers Providers
}

func NewHealthHandler(providers Providers) *HealthHandler {
	return &HealthHandler{
		startTime: time.Now(),
		providers: providers,
	}
}

// Root handles GET /
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service": serviceName,
		"version": serviceVersion,
		"status":  "running",
	})
}

// Health handles GET /health
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
		"uptime":  time.Since(h.startTime).String(),
		"time":    time.Now(),
	})
}

// Ready handles GET /health/ready. Missing optional providers only disable
// their endpoints, so the service still reports ready.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ready",
		"checks": fiber.Map{
			"api":           "ok",
			"market_data":   "yahoo",
			"symbol_search": providerState(h.providers.SymbolSearch),
			"ai":            providerState(h.providers.AIModel),
		},
	})
}

func providerState(name string) string {
	if name == "" {
		return "not configured"
	}
	return name
}

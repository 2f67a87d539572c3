package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/solvesync/internal/config"
	"github.com/noah-isme/solvesync/internal/handler"
	"github.com/noah-isme/solvesync/internal/middleware"
	"github.com/noah-isme/solvesync/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	CaptureHandler  *handler.CaptureHandler
	SolutionHandler *handler.SolutionHandler
	ConfigHandler   *handler.ConfigHandler
	PushHandler     *handler.PushHandler
	PendingCount    handler.PendingCounter
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.PendingCount))
	app.Get("/metrics", observability.MetricsHandler())

	protected := api.Group("", middleware.RequireAPIKey(cfg.APIKey))

	if deps.CaptureHandler != nil {
		captureGroup := protected.Group("/capture", middleware.RateLimit("capture", cfg.CaptureRateLimit, time.Minute))
		deps.CaptureHandler.Register(captureGroup)
	}

	if deps.SolutionHandler != nil {
		deps.SolutionHandler.Register(protected)
	}

	if deps.ConfigHandler != nil {
		deps.ConfigHandler.Register(protected.Group("/config"))
	}

	if deps.PushHandler != nil {
		deps.PushHandler.Register(protected.Group("/push"))
	}
}

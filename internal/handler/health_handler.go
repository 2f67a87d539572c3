package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/solvesync/internal/config"
	"github.com/noah-isme/solvesync/internal/utils"
)

// PendingCounter reports how many captured solutions wait for a push.
type PendingCounter func(ctx context.Context) (int, error)

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Service     string    `json:"service"`
	Environment string    `json:"environment"`
	Storage     string    `json:"storage"`
	Pending     *int      `json:"pending,omitempty"`
}

// HealthCheck reports service health. With a counter it also reads the pending queue,
// answering 503 when storage cannot be read.
func HealthCheck(cfg config.Config, pending PendingCounter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:      "ok",
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
			Storage:     cfg.Storage,
		}
		if pending == nil {
			return utils.SendSuccess(c, "service healthy", payload)
		}

		count, err := pending(c.UserContext())
		if err != nil {
			payload.Status = "degraded"
			return utils.Fail(c, fiber.StatusServiceUnavailable, "storage unavailable", payload)
		}
		payload.Pending = &count
		return utils.SendSuccess(c, "service healthy", payload)
	}
}

package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/solvesync/internal/utils"
)

// APIKeyHeader carries the shared key configured for the companion service.
const APIKeyHeader = "X-API-Key"

// RequireAPIKey rejects requests whose X-API-Key header does not match key.
// An empty key disables the check.
func RequireAPIKey(key string) fiber.Handler {
	expected := []byte(strings.TrimSpace(key))

	return func(c *fiber.Ctx) error {
		if len(expected) == 0 || c.Method() == fiber.MethodOptions {
			return c.Next()
		}

		provided := []byte(strings.TrimSpace(c.Get(APIKeyHeader)))
		if len(provided) == 0 {
			return utils.SendError(c, fiber.StatusUnauthorized, "api key required")
		}
		if subtle.ConstantTimeCompare(provided, expected) != 1 {
			return utils.SendError(c, fiber.StatusForbidden, "invalid api key")
		}
		return c.Next()
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestRegisterAppliesOriginsAndTabCorrelation(t *testing.T) {
	app := fiber.New()
	Register(app, Config{AllowOrigins: "https://leetcode.com"})
	app.Post("/api/v1/capture/navigation", func(c *fiber.Ctx) error {
		return c.SendString(GetTabID(c))
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/capture/navigation", nil)
	req.Header.Set("Origin", "https://leetcode.com")
	req.Header.Set(TabIDHeader, "tab-9")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "https://leetcode.com", resp.Header.Get("Access-Control-Allow-Origin"))
	require.True(t, strings.HasPrefix(resp.Header.Get("X-Correlation-ID"), "tab-9/"))

	req = httptest.NewRequest(http.MethodPost, "/api/v1/capture/navigation", nil)
	req.Header.Set("Origin", "https://evil.example")
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

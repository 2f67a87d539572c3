package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	fiberutils "github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
)

// TabIDHeader names the browser tab that produced a capture request.
const TabIDHeader = "X-Tab-ID"

type requestKey int

const (
	correlationKey requestKey = iota
	tabKey
)

const (
	localCorrelationID = "correlation_id"
	localTabID         = "tab_id"
)

// CorrelationID binds a correlation identifier and the originating tab to every request.
// Header values are copied out of the request buffer so they stay valid once fasthttp
// recycles it for the next request.
func CorrelationID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tabID := fiberutils.CopyString(strings.TrimSpace(c.Get(TabIDHeader)))

		correlation := strings.TrimSpace(c.Get("X-Correlation-ID"))
		if correlation == "" {
			correlation = strings.TrimSpace(c.Get("X-Request-ID"))
		}
		if correlation == "" {
			correlation = newCorrelationID(tabID)
		} else {
			correlation = fiberutils.CopyString(correlation)
		}

		c.Locals(localCorrelationID, correlation)
		c.Set("X-Correlation-ID", correlation)

		ctx := ContextWithCorrelation(c.UserContext(), correlation)
		if tabID != "" {
			c.Locals(localTabID, tabID)
			ctx = ContextWithTabID(ctx, tabID)
		}
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// newCorrelationID prefixes generated ids with the tab so one tab's requests group together in logs.
func newCorrelationID(tabID string) string {
	if tabID == "" {
		return uuid.NewString()
	}
	return tabID + "/" + uuid.NewString()
}

func stringValue(ctx context.Context, key requestKey) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(key).(string)
	return id
}

// CorrelationIDFromContext extracts the correlation identifier from context, if present.
func CorrelationIDFromContext(ctx context.Context) string {
	return stringValue(ctx, correlationKey)
}

// TabIDFromContext extracts the originating tab id from context, if present.
func TabIDFromContext(ctx context.Context) string {
	return stringValue(ctx, tabKey)
}

// GetCorrelationID returns the correlation identifier bound to the active request.
func GetCorrelationID(c *fiber.Ctx) string {
	if c == nil {
		return ""
	}
	if id, ok := c.Locals(localCorrelationID).(string); ok {
		return id
	}
	return CorrelationIDFromContext(c.UserContext())
}

// GetTabID returns the tab bound by CorrelationID, falling back to a copy of the raw header
// on routes mounted without the middleware.
func GetTabID(c *fiber.Ctx) string {
	if c == nil {
		return ""
	}
	if id, ok := c.Locals(localTabID).(string); ok {
		return id
	}
	return fiberutils.CopyString(strings.TrimSpace(c.Get(TabIDHeader)))
}

// ContextWithCorrelation attaches the correlation identifier to the provided context.
func ContextWithCorrelation(ctx context.Context, correlationID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(correlationID) == "" {
		return ctx
	}
	return context.WithValue(ctx, correlationKey, strings.TrimSpace(correlationID))
}

// ContextWithTabID attaches the originating tab id to the provided context.
func ContextWithTabID(ctx context.Context, tabID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if tabID == "" {
		return ctx
	}
	return context.WithValue(ctx, tabKey, tabID)
}

package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/solvesync/internal/middleware"
	"github.com/noah-isme/solvesync/internal/utils"
)

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c == nil {
		return &logger
	}
	fields := base.With()
	if correlation := middleware.GetCorrelationID(c); correlation != "" {
		fields = fields.Str("correlation_id", correlation)
	}
	if tabID := middleware.GetTabID(c); tabID != "" {
		fields = fields.Str("tab_id", tabID)
	}
	logger = fields.Logger()
	return &logger
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}

// validationDetails maps each failing field to the tag that rejected it.
func validationDetails(err error) map[string]string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}
	details := make(map[string]string, len(validationErrors))
	for _, fieldErr := range validationErrors {
		details[fieldErr.Field()] = fieldErr.Tag()
	}
	return details
}

func sendValidationError(c *fiber.Ctx, err error) error {
	return utils.Fail(c, fiber.StatusBadRequest, "validation failed", validationDetails(err))
}

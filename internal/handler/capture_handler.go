package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/solvesync/internal/dto"
	"github.com/noah-isme/solvesync/internal/middleware"
	"github.com/noah-isme/solvesync/internal/service"
	"github.com/noah-isme/solvesync/internal/utils"
)

// CaptureHandler receives observations posted by the page shim.
type CaptureHandler struct {
	service service.CaptureService
	logger  zerolog.Logger
}

// NewCaptureHandler constructs a capture handler.
func NewCaptureHandler(service service.CaptureService, logger zerolog.Logger) *CaptureHandler {
	return &CaptureHandler{
		service: service,
		logger:  logger.With().Str("component", "capture_handler").Logger(),
	}
}

// Register wires capture routes.
func (h *CaptureHandler) Register(router fiber.Router) {
	router.Post("/network", h.network)
	router.Post("/dom", h.dom)
	router.Post("/navigation", h.navigation)
}

func (h *CaptureHandler) network(c *fiber.Ctx) error {
	var payload dto.NetworkCaptureRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if payload.TabID == "" {
		payload.TabID = middleware.GetTabID(c)
	}

	response, err := h.service.CaptureNetwork(c.UserContext(), payload)
	if err != nil {
		if isValidationError(err) {
			return sendValidationError(c, err)
		}
		requestLogger(h.logger, c).Error().Err(err).Str("url", payload.URL).Msg("failed to process network observation")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to process observation")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusAccepted, "observation processed", response)
}

func (h *CaptureHandler) dom(c *fiber.Ctx) error {
	var payload dto.DOMCaptureRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if payload.TabID == "" {
		payload.TabID = middleware.GetTabID(c)
	}

	if err := h.service.CaptureDOM(c.UserContext(), payload); err != nil {
		if isValidationError(err) {
			return sendValidationError(c, err)
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to queue page snapshot")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to process snapshot")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusAccepted, "snapshot queued", nil)
}

func (h *CaptureHandler) navigation(c *fiber.Ctx) error {
	var payload dto.NavigationRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if payload.TabID == "" {
		payload.TabID = middleware.GetTabID(c)
	}

	if err := h.service.Navigate(c.UserContext(), payload); err != nil {
		if isValidationError(err) {
			return sendValidationError(c, err)
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to record navigation")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to record navigation")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusAccepted, "navigation recorded", nil)
}

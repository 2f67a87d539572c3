package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/solvesync/internal/dto"
	"github.com/noah-isme/solvesync/internal/service"
	"github.com/noah-isme/solvesync/internal/utils"
)

// PushHandler triggers commits of pending solutions.
type PushHandler struct {
	service service.PushService
	logger  zerolog.Logger
}

// NewPushHandler constructs a push handler.
func NewPushHandler(service service.PushService, logger zerolog.Logger) *PushHandler {
	return &PushHandler{
		service: service,
		logger:  logger.With().Str("component", "push_handler").Logger(),
	}
}

// Register wires push routes.
func (h *PushHandler) Register(router fiber.Router) {
	router.Post("", h.push)
}

func (h *PushHandler) push(c *fiber.Ctx) error {
	var payload dto.PushRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
		}
	}

	response, err := h.service.Push(c.UserContext(), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRepoNotConfigured):
			return utils.SendError(c, fiber.StatusConflict, "repository is not configured")
		case isValidationError(err):
			return sendValidationError(c, err)
		case errors.Is(err, service.ErrInvalidTemplate):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("push failed")
			return utils.SendError(c, fiber.StatusBadGateway, "push failed")
		}
	}

	status := fiber.StatusOK
	if len(response.Failed) > 0 {
		status = fiber.StatusMultiStatus
	}
	return utils.SendSuccessWithStatus(c, status, "push completed", response)
}

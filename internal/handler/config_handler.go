package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/solvesync/internal/dto"
	"github.com/noah-isme/solvesync/internal/service"
	"github.com/noah-isme/solvesync/internal/utils"
)

// ConfigHandler reads and saves the push destination.
type ConfigHandler struct {
	service service.ConfigService
	logger  zerolog.Logger
}

// NewConfigHandler constructs a config handler.
func NewConfigHandler(service service.ConfigService, logger zerolog.Logger) *ConfigHandler {
	return &ConfigHandler{
		service: service,
		logger:  logger.With().Str("component", "config_handler").Logger(),
	}
}

// Register wires config routes.
func (h *ConfigHandler) Register(router fiber.Router) {
	router.Get("", h.get)
	router.Put("", h.save)
}

func (h *ConfigHandler) get(c *fiber.Ctx) error {
	response, err := h.service.Get(c.UserContext())
	if err != nil {
		if errors.Is(err, service.ErrRepoNotConfigured) {
			return utils.SendError(c, fiber.StatusNotFound, "repository is not configured")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load repository config")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load repository config")
	}
	return utils.SendSuccess(c, "repository config retrieved", response)
}

func (h *ConfigHandler) save(c *fiber.Ctx) error {
	var payload dto.RepoConfigRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Save(c.UserContext(), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return sendValidationError(c, err)
		case errors.Is(err, service.ErrInvalidTemplate):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to save repository config")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to save repository config")
		}
	}
	return utils.SendSuccess(c, "repository config saved", response)
}

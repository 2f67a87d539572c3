package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/solvesync/internal/service"
	"github.com/noah-isme/solvesync/internal/utils"
)

// SolutionHandler exposes the pending queue and solve stats.
type SolutionHandler struct {
	service service.CaptureService
	logger  zerolog.Logger
}

// NewSolutionHandler constructs a solution handler.
func NewSolutionHandler(service service.CaptureService, logger zerolog.Logger) *SolutionHandler {
	return &SolutionHandler{
		service: service,
		logger:  logger.With().Str("component", "solution_handler").Logger(),
	}
}

// Register wires pending and stats routes.
func (h *SolutionHandler) Register(router fiber.Router) {
	router.Get("/pending", h.listPending)
	router.Delete("/pending", h.clearPending)
	router.Delete("/pending/:id", h.removePending)
	router.Get("/stats", h.stats)
}

func (h *SolutionHandler) listPending(c *fiber.Ctx) error {
	response, err := h.service.ListPending(c.UserContext())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list pending solutions")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list pending solutions")
	}
	return utils.SendSuccess(c, "pending solutions retrieved", response)
}

func (h *SolutionHandler) removePending(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.RemovePending(c.UserContext(), id); err != nil {
		if errors.Is(err, service.ErrPendingNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "pending solution not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Str("id", id).Msg("failed to remove pending solution")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to remove pending solution")
	}
	return utils.SendSuccess(c, "pending solution removed", nil)
}

func (h *SolutionHandler) clearPending(c *fiber.Ctx) error {
	if err := h.service.ClearPending(c.UserContext()); err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to clear pending solutions")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to clear pending solutions")
	}
	return utils.SendSuccess(c, "pending solutions cleared", nil)
}

func (h *SolutionHandler) stats(c *fiber.Ctx) error {
	response, err := h.service.Stats(c.UserContext())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load stats")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load stats")
	}
	return utils.SendSuccess(c, "stats retrieved", response)
}

package handlers

import (
	"github.com/FooTalentGroup/Equipo2-tarde-sp7-sub001/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// SessionsHandler exposes the denylist diagnostics and a manual sweep
// for operators; the scheduled job covers the normal case.
type SessionsHandler struct {
	store *repository.RevokedTokenRepository
}

// CleanupResponse reports a sweep of the denylist
type CleanupResponse struct {
	Removed int64                      `json:"removed"`
	Stats   repository.RevocationStats `json:"stats"`
}

func NewSessionsHandler(store *repository.RevokedTokenRepository) *SessionsHandler {
	return &SessionsHandler{store: store}
}

// @Summary Denylist statistics
// @Description Counts of total, active and expired revocation records
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} repository.RevocationStats
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /admin/sessions/stats [get]
func (h *SessionsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.store.Stats()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read session stats",
		})
	}

	return c.JSON(stats)
}

// @Summary Sweep expired revocations
// @Description Delete denylist records whose expiry has passed
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} CleanupResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /admin/sessions/cleanup [post]
func (h *SessionsHandler) Cleanup(c *fiber.Ctx) error {
	removed, err := h.store.CleanExpired()
	if err != nil {
		log.Error().Err(err).Msg("Manual session cleanup failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to clean sessions",
		})
	}

	stats, err := h.store.Stats()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read session stats",
		})
	}

	return c.JSON(CleanupResponse{
		Removed: removed,
		Stats:   stats,
	})
}

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/taskera/backend/internal/core/ports"
	"github.com/taskera/backend/internal/core/services"
	"github.com/taskera/backend/internal/infrastructure/logger"
	httpmw "github.com/taskera/backend/internal/transport/http/middleware"
)

type StatsHandler struct {
	service ports.TaskService
	logger  *logger.Logger
}

func NewStatsHandler(service ports.TaskService, logger *logger.Logger) *StatsHandler {
	return &StatsHandler{service: service, logger: logger}
}

// GetStats tallies the principal's visible tasks per status and reports the
// done fraction for the progress bar. Admins may narrow by assignee.
func (h *StatsHandler) GetStats(c *fiber.Ctx) error {
	principal := httpmw.Principal(c)
	query, err := scopedQuery(c, principal)
	if err != nil {
		return err
	}
	// Stats always tally over the full status spread.
	query.StatusFilter = nil

	tasks, err := h.service.ListTasks(c.Context(), query)
	if err != nil {
		h.logger.Errorw("stats_failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	tally := services.Tally(tasks)
	return c.JSON(fiber.Map{
		"pending":   tally.Pending,
		"done":      tally.Done,
		"postponed": tally.Postponed,
		"cancelled": tally.Cancelled,
		"total":     tally.Total(),
		"progress":  tally.Progress(),
	})
}

package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/taskera/backend/internal/core/services"
	"github.com/taskera/backend/internal/domain"
)

// statusForError maps service errors onto HTTP codes: validation failures to
// 400, lookups to 404, auth to 401/409, upload failures to 502, the rest to
// 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrTaskTitleRequired),
		errors.Is(err, services.ErrTaskDateRequired),
		errors.Is(err, services.ErrTaskNoAssignees),
		errors.Is(err, services.ErrTaskInvalidInput),
		errors.Is(err, services.ErrEmailRequired),
		errors.Is(err, services.ErrPasswordRequired),
		errors.Is(err, domain.ErrReasonRequired):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrUserNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrSessionExpired):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrEmailTaken):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrEvidenceUploadFail):
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

func errorJSON(c *fiber.Ctx, err error) error {
	return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
}

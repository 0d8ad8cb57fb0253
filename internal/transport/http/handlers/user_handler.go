package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/taskera/backend/internal/core/ports"
	"github.com/taskera/backend/internal/infrastructure/logger"
)

type UserHandler struct {
	auth   ports.AuthService
	logger *logger.Logger
}

func NewUserHandler(auth ports.AuthService, logger *logger.Logger) *UserHandler {
	return &UserHandler{auth: auth, logger: logger}
}

// GetUsers feeds the admin's assignee selectors and filters, ordered by
// name.
func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	users, err := h.auth.ListUsers(c.Context())
	if err != nil {
		h.logger.Errorw("user_list_failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(users)
}

type createUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
}

func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req createUserRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Warnw("user_create_body_parse_failed", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	user, err := h.auth.SignUp(c.Context(), ports.SignUpInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		IsAdmin:  req.IsAdmin,
	})
	if err != nil {
		return errorJSON(c, err)
	}

	h.logger.Infow("user_create_success", "id", user.ID)
	return c.Status(fiber.StatusCreated).JSON(user)
}

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/taskera/backend/internal/core/ports"
	"github.com/taskera/backend/internal/infrastructure/logger"
	httpmw "github.com/taskera/backend/internal/transport/http/middleware"
)

type AuthHandler struct {
	auth   ports.AuthService
	logger *logger.Logger
}

func NewAuthHandler(auth ports.AuthService, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req signInRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Warnw("auth_signin_body_parse_failed", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	user, session, err := h.auth.SignIn(c.Context(), req.Email, req.Password)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(fiber.Map{
		"user":       user,
		"token":      session.Token,
		"expires_at": session.ExpiresAt,
	})
}

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp is the open bootstrap path: it only works while no user exists yet
// and makes that first account the admin. Later accounts are created by an
// admin through the users endpoint.
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	bootstrapped, err := h.auth.Bootstrapped(c.Context())
	if err != nil {
		h.logger.Errorw("auth_bootstrap_check_failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if bootstrapped {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "sign-up is closed; ask an administrator for an account",
		})
	}

	var req signUpRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Warnw("auth_signup_body_parse_failed", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	user, err := h.auth.SignUp(c.Context(), ports.SignUpInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		IsAdmin:  true,
	})
	if err != nil {
		return errorJSON(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

func (h *AuthHandler) SignOut(c *fiber.Ctx) error {
	token := httpmw.SessionToken(c)
	if err := h.auth.SignOut(c.Context(), token); err != nil {
		h.logger.Errorw("auth_signout_failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(httpmw.Principal(c))
}

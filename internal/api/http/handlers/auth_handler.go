package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/deskflow/helpdesk/internal/api/dto"
	"github.com/deskflow/helpdesk/internal/auth"
	"github.com/deskflow/helpdesk/internal/domain"
	"github.com/deskflow/helpdesk/internal/service"
	apperrors "github.com/deskflow/helpdesk/pkg/util"
)

// AuthHandler exposes login and logout.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	// Unknown hints pass through untouched: the directory rejects them only when registering.
	var roleHint domain.Role
	if strings.TrimSpace(req.Role) != "" {
		roleHint = domain.Role(req.Role)
		if role, ok := domain.ParseRole(req.Role); ok {
			roleHint = role
		}
	}

	sess, token, err := h.auth.Login(c.UserContext(), req.Username, roleHint)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AuthResponse{
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
		User:      domain.User{Username: sess.Username, Role: sess.Role},
	}})
}

// Logout POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sess, err := auth.SessionFromContext(c)
	if err != nil {
		return err
	}
	if err := h.auth.Logout(c.UserContext(), sess); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

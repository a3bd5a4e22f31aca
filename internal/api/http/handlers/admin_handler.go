package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/deskflow/helpdesk/internal/api/dto"
	"github.com/deskflow/helpdesk/internal/auth"
	"github.com/deskflow/helpdesk/internal/domain"
	"github.com/deskflow/helpdesk/internal/service"
	apperrors "github.com/deskflow/helpdesk/pkg/util"
)

// AdminHandler serves directory management for admins.
type AdminHandler struct {
	desk *service.Desk
}

// NewAdminHandler constructs handler.
func NewAdminHandler(desk *service.Desk) *AdminHandler {
	return &AdminHandler{desk: desk}
}

// Stats GET /admin/stats.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.desk.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// ListUsers GET /admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.desk.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": users})
}

// AddUser POST /admin/users.
func (h *AdminHandler) AddUser(c *fiber.Ctx) error {
	var req dto.AddUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	role, ok := domain.ParseRole(req.Role)
	if !ok {
		return apperrors.NewInvalidInput("invalid role", map[string]any{"role": req.Role, "allowed": domain.Roles})
	}
	user, err := h.desk.AddUser(c.UserContext(), req.Username, role)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": user})
}

// DeleteUser DELETE /admin/users/:username.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	sess, err := auth.SessionFromContext(c)
	if err != nil {
		return err
	}
	unassigned, err := h.desk.DeleteUser(c.UserContext(), sess, c.Params("username"))
	if err != nil {
		return err
	}
	if unassigned == nil {
		unassigned = []int64{}
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"unassigned_tickets": unassigned}})
}

// ListCategories GET /admin/categories.
func (h *AdminHandler) ListCategories(c *fiber.Ctx) error {
	labels, err := h.desk.ListCategories(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCategoriesResponse(labels)})
}

// AddCategory POST /admin/categories.
func (h *AdminHandler) AddCategory(c *fiber.Ctx) error {
	var req dto.AddCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	labels, err := h.desk.AddCategory(c.UserContext(), req.Label)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewCategoriesResponse(labels)})
}

// DeleteCategory DELETE /admin/categories/:index.
func (h *AdminHandler) DeleteCategory(c *fiber.Ctx) error {
	raw := c.Params("index")
	index, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) {
		return apperrors.NewOutOfRange("category index out of range", map[string]any{"index": raw})
	}
	if err != nil {
		return apperrors.NewInvalidInput("invalid category index", map[string]any{"index": raw})
	}
	labels, err := h.desk.DeleteCategory(c.UserContext(), index)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCategoriesResponse(labels)})
}

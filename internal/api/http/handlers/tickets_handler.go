package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/deskflow/helpdesk/internal/api/dto"
	"github.com/deskflow/helpdesk/internal/auth"
	"github.com/deskflow/helpdesk/internal/domain"
	"github.com/deskflow/helpdesk/internal/service"
	apperrors "github.com/deskflow/helpdesk/pkg/util"
)

// TicketsHandler manages ticket endpoints for every role.
type TicketsHandler struct {
	desk    *service.Desk
	history *service.HistoryService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(desk *service.Desk, history *service.HistoryService) *TicketsHandler {
	return &TicketsHandler{desk: desk, history: history}
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	sess, err := auth.SessionFromContext(c)
	if err != nil {
		return err
	}
	filter, err := parseTicketFilter(c)
	if err != nil {
		return err
	}
	view, err := h.desk.QueryTickets(c.UserContext(), sess, filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(view.Tickets))
	for _, ticket := range view.Tickets {
		items = append(items, dto.NewTicketResponse(ticket))
	}
	return c.JSON(fiber.Map{"data": dto.TicketViewResponse{
		Role:     view.Role,
		Tickets:  items,
		Stats:    view.Stats,
		Selected: view.Selected,
	}})
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	sess, err := auth.SessionFromContext(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	ticket, err := h.desk.CreateTicket(c.UserContext(), sess, service.TicketCreateInput{
		Subject:     req.Subject,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	sess, err := auth.SessionFromContext(c)
	if err != nil {
		return err
	}
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	ticket, err := h.desk.TicketForSession(c.UserContext(), sess, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// History GET /tickets/:id/history.
func (h *TicketsHandler) History(c *fiber.Ctx) error {
	sess, err := auth.SessionFromContext(c)
	if err != nil {
		return err
	}
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	if _, err := h.desk.TicketForSession(c.UserContext(), sess, id); err != nil {
		return err
	}
	entries, err := h.history.ListForTicket(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": entries})
}

// AddComment POST /tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	sess, err := auth.SessionFromContext(c)
	if err != nil {
		return err
	}
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	ticket, err := h.desk.AddComment(c.UserContext(), sess, id, req.Message)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// Vote POST /tickets/:id/votes.
func (h *TicketsHandler) Vote(c *fiber.Ctx) error {
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	var req dto.VoteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	direction, ok := domain.ParseVoteDirection(req.Direction)
	if !ok {
		return apperrors.NewInvalidInput("direction must be up or down", map[string]any{"direction": req.Direction})
	}
	ticket, err := h.desk.Vote(c.UserContext(), id, direction)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// AssignToSelf POST /tickets/:id/assign.
func (h *TicketsHandler) AssignToSelf(c *fiber.Ctx) error {
	sess, err := auth.SessionFromContext(c)
	if err != nil {
		return err
	}
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	ticket, err := h.desk.AssignToSelf(c.UserContext(), sess, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// ChangeStatus PATCH /tickets/:id/status.
func (h *TicketsHandler) ChangeStatus(c *fiber.Ctx) error {
	sess, err := auth.SessionFromContext(c)
	if err != nil {
		return err
	}
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	var req dto.ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	status, ok := domain.ParseTicketStatus(req.Status)
	if !ok {
		return apperrors.NewInvalidInput("invalid status", map[string]any{"status": req.Status})
	}
	ticket, err := h.desk.ChangeStatus(c.UserContext(), sess, id, status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// Categories GET /categories.
func (h *TicketsHandler) Categories(c *fiber.Ctx) error {
	labels, err := h.desk.ListCategories(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCategoriesResponse(labels)})
}

func parseTicketFilter(c *fiber.Ctx) (service.TicketFilter, error) {
	filter := service.TicketFilter{Category: c.Query("category")}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" && !strings.EqualFold(raw, service.FilterAll) {
		status, ok := domain.ParseTicketStatus(raw)
		if !ok {
			return filter, apperrors.NewInvalidInput("invalid status", map[string]any{"status": raw})
		}
		filter.Status = status
	}
	order, ok := service.ParseSortOrder(c.Query("sort"))
	if !ok {
		return filter, apperrors.NewInvalidInput("invalid sort", map[string]any{"sort": c.Query("sort")})
	}
	filter.Sort = order
	queue, ok := service.ParseQueue(c.Query("queue"))
	if !ok {
		return filter, apperrors.NewInvalidInput("invalid queue", map[string]any{"queue": c.Query("queue")})
	}
	filter.Queue = queue
	if raw := c.Query("selected"); raw != "" {
		selected, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, apperrors.NewInvalidInput("invalid selected ticket id", map[string]any{"selected": raw})
		}
		filter.Selected = &selected
	}
	return filter, nil
}

func ticketID(c *fiber.Ctx) (int64, error) {
	raw := c.Params("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewInvalidInput("invalid ticket id", map[string]any{"id": raw})
	}
	return id, nil
}

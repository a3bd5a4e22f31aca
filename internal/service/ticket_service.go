package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/deskflow/helpdesk/internal/domain"
	"github.com/deskflow/helpdesk/internal/events"
	"github.com/deskflow/helpdesk/internal/repository"
	apperrors "github.com/deskflow/helpdesk/pkg/util"
)

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	categories repository.CategoryRepository
	publisher
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	CategoryRepo repository.CategoryRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
	Clock        Clock
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Subject     string
	Description string
	Category    string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		categories: deps.CategoryRepo,
		publisher:  newPublisher(deps.Dispatcher, deps.Logger, deps.Clock),
	}
}

// CreateTicket opens a ticket on behalf of an end user.
func (s *TicketService) CreateTicket(ctx context.Context, sess domain.Session, input TicketCreateInput) (domain.Ticket, error) {
	if !sess.Role.CanCreateTicket() {
		return domain.Ticket{}, apperrors.NewForbidden("only end users can create tickets")
	}
	subject := strings.TrimSpace(input.Subject)
	description := strings.TrimSpace(input.Description)
	category := strings.TrimSpace(input.Category)
	if subject == "" || description == "" || category == "" {
		return domain.Ticket{}, apperrors.NewInvalidInput("subject, description and category required", nil)
	}
	known, err := s.categories.Contains(ctx, category)
	if err != nil {
		return domain.Ticket{}, err
	}
	if !known {
		return domain.Ticket{}, apperrors.NewInvalidInput("unknown category", map[string]any{"category": category})
	}

	now := s.clock()
	ticket := &domain.Ticket{
		Subject:     subject,
		Description: description,
		Category:    category,
		Status:      domain.TicketStatusOpen,
		Creator:     sess.Username,
		Comments:    []domain.Comment{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return domain.Ticket{}, err
	}
	s.logger.Info("ticket created",
		zap.Int64("ticket_id", ticket.ID),
		zap.String("creator", ticket.Creator),
		zap.String("category", ticket.Category))
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    sessionActor(sess),
		Payload: events.TicketCreatedPayload{
			Subject:  ticket.Subject,
			Category: ticket.Category,
		},
	})
	return ticket.Clone(), nil
}

// GetTicket returns a snapshot of a ticket.
func (s *TicketService) GetTicket(ctx context.Context, id int64) (domain.Ticket, error) {
	return s.tickets.GetByID(ctx, id)
}

// AddComment appends a reply to the thread of an open ticket.
func (s *TicketService) AddComment(ctx context.Context, sess domain.Session, ticketID int64, message string) (domain.Ticket, error) {
	message = strings.TrimSpace(message)
	ticket, err := s.tickets.Update(ctx, ticketID, func(t *domain.Ticket) error {
		if message == "" {
			return apperrors.NewInvalidInput("message required", nil)
		}
		if !sess.Role.CanCommentOnAnyTicket() {
			if sess.Role != domain.RoleEndUser || t.Creator != sess.Username {
				return apperrors.NewForbidden("end users can only reply on their own tickets")
			}
		}
		if t.IsClosed() {
			return apperrors.NewInvalidState("ticket is closed", map[string]any{"ticket_id": t.ID})
		}
		t.AppendComment(domain.Comment{
			Author:    sess.Username,
			Role:      sess.Role,
			Message:   message,
			Timestamp: s.clock(),
		})
		return nil
	})
	if err != nil {
		return domain.Ticket{}, err
	}
	s.logger.Debug("comment added",
		zap.Int64("ticket_id", ticket.ID),
		zap.String("author", sess.Username))
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCommentAdded,
		TicketID: ticket.ID,
		Actor:    sessionActor(sess),
		Payload: events.TicketCommentAddedPayload{
			Author:         sess.Username,
			AuthorRole:     sess.Role,
			MessagePreview: stringPreview(message, 120),
			CommentCount:   len(ticket.Comments),
		},
	})
	return ticket, nil
}

// Vote increments the up or down counter. Votes are unbounded and never refresh UpdatedAt.
func (s *TicketService) Vote(ctx context.Context, ticketID int64, direction domain.VoteDirection) (domain.Ticket, error) {
	if direction != domain.VoteUp && direction != domain.VoteDown {
		return domain.Ticket{}, apperrors.NewInvalidInput("direction must be up or down", map[string]any{"direction": direction})
	}
	ticket, err := s.tickets.Update(ctx, ticketID, func(t *domain.Ticket) error {
		t.Vote(direction)
		return nil
	})
	if err != nil {
		return domain.Ticket{}, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketVoted,
		TicketID: ticket.ID,
		Payload: events.TicketVotedPayload{
			Direction: direction,
			Upvotes:   ticket.Upvotes,
			Downvotes: ticket.Downvotes,
		},
	})
	return ticket, nil
}

// ChangeStatus moves a ticket to any status. Closed tickets may be reopened this way.
func (s *TicketService) ChangeStatus(ctx context.Context, sess domain.Session, ticketID int64, newStatus domain.TicketStatus) (domain.Ticket, error) {
	if !sess.Role.CanChangeStatus() {
		return domain.Ticket{}, apperrors.NewForbidden("only agents and admins can change status")
	}
	if !newStatus.IsValid() {
		return domain.Ticket{}, apperrors.NewInvalidInput("invalid status", map[string]any{"status": newStatus})
	}
	var oldStatus domain.TicketStatus
	ticket, err := s.tickets.Update(ctx, ticketID, func(t *domain.Ticket) error {
		oldStatus = t.Status
		t.Status = newStatus
		t.Touch(s.clock())
		return nil
	})
	if err != nil {
		return domain.Ticket{}, err
	}
	s.logger.Info("ticket status changed",
		zap.Int64("ticket_id", ticket.ID),
		zap.String("from", string(oldStatus)),
		zap.String("to", string(newStatus)),
		zap.String("by", sess.Username))
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Actor:    sessionActor(sess),
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
		},
	})
	return ticket, nil
}

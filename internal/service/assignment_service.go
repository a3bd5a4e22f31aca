package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/deskflow/helpdesk/internal/domain"
	"github.com/deskflow/helpdesk/internal/events"
	"github.com/deskflow/helpdesk/internal/repository"
	apperrors "github.com/deskflow/helpdesk/pkg/util"
)

// AssignmentService handles ticket assignment operations.
type AssignmentService struct {
	tickets repository.TicketRepository
	publisher
}

// AssignmentDependencies bundles collaborators.
type AssignmentDependencies struct {
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Clock      Clock
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	return &AssignmentService{
		tickets:   deps.TicketRepo,
		publisher: newPublisher(deps.Dispatcher, deps.Logger, deps.Clock),
	}
}

// SelfAssignTicket allows an agent or admin to take a ticket.
func (s *AssignmentService) SelfAssignTicket(ctx context.Context, sess domain.Session, ticketID int64) (domain.Ticket, error) {
	if !sess.Role.CanAssign() {
		return domain.Ticket{}, apperrors.NewForbidden("only agents and admins can assign tickets")
	}
	var previous *string
	ticket, err := s.tickets.Update(ctx, ticketID, func(t *domain.Ticket) error {
		previous = t.AssignedTo
		assignee := sess.Username
		t.AssignedTo = &assignee
		t.Touch(s.clock())
		return nil
	})
	if err != nil {
		return domain.Ticket{}, err
	}
	s.logger.Info("ticket assigned",
		zap.Int64("ticket_id", ticket.ID),
		zap.String("assignee", sess.Username))
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		Actor:    sessionActor(sess),
		Payload: events.TicketAssignedPayload{
			PreviousAssignee: previous,
			Assignee:         sess.Username,
		},
	})
	return ticket, nil
}

// UnassignUser clears username from every ticket it is assigned to. Used by the directory
// cascade when a user is deleted; tickets are otherwise unchanged.
func (s *AssignmentService) UnassignUser(ctx context.Context, username string) ([]int64, error) {
	affected, err := s.tickets.UnassignAll(ctx, username)
	if err != nil {
		return nil, err
	}
	for _, id := range affected {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketUnassigned,
			TicketID: id,
			Payload:  events.TicketUnassignedPayload{FormerAssignee: username},
		})
	}
	if len(affected) > 0 {
		s.logger.Info("tickets unassigned", zap.String("username", username), zap.Int("count", len(affected)))
	}
	return affected, nil
}

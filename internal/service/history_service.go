package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/deskflow/helpdesk/internal/domain"
	"github.com/deskflow/helpdesk/internal/events"
	"github.com/deskflow/helpdesk/internal/repository"
)

// HistoryService keeps the status and assignee audit trail of each ticket, fed by desk events.
type HistoryService struct {
	history repository.TicketHistoryRepository
	logger  *zap.Logger
}

// NewHistoryService creates the service.
func NewHistoryService(history repository.TicketHistoryRepository, logger *zap.Logger) *HistoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryService{history: history, logger: logger}
}

// RegisterHandlers subscribes to the events that change status or assignee.
func (h *HistoryService) RegisterHandlers(subscriber Subscriber) {
	subscriber.Subscribe(events.EventTicketStatusChanged, h.record)
	subscriber.Subscribe(events.EventTicketAssigned, h.record)
	subscriber.Subscribe(events.EventTicketUnassigned, h.record)
}

// ListForTicket returns the trail of a ticket, oldest first.
func (h *HistoryService) ListForTicket(ctx context.Context, ticketID int64) ([]domain.TicketHistory, error) {
	return h.history.ListByTicket(ctx, ticketID)
}

func (h *HistoryService) record(ctx context.Context, event events.Event) error {
	entry := domain.TicketHistory{
		ID:        event.ID,
		TicketID:  event.TicketID,
		ChangedBy: event.Actor.Username,
		CreatedAt: event.Timestamp,
	}
	switch payload := event.Payload.(type) {
	case events.TicketStatusChangedPayload:
		entry.ChangeType = domain.ChangeTypeStatus
		entry.OldValue = string(payload.OldStatus)
		entry.NewValue = string(payload.NewStatus)
	case events.TicketAssignedPayload:
		entry.ChangeType = domain.ChangeTypeAssignee
		if payload.PreviousAssignee != nil {
			entry.OldValue = *payload.PreviousAssignee
		}
		entry.NewValue = payload.Assignee
	case events.TicketUnassignedPayload:
		entry.ChangeType = domain.ChangeTypeAssignee
		entry.OldValue = payload.FormerAssignee
	default:
		return fmt.Errorf("history: unexpected payload %T for %s", event.Payload, event.Type)
	}
	if err := h.history.Create(ctx, &entry); err != nil {
		return err
	}
	h.logger.Debug("ticket history recorded",
		zap.Int64("ticket_id", entry.TicketID),
		zap.String("change_type", string(entry.ChangeType)))
	return nil
}

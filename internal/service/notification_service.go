package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/deskflow/helpdesk/internal/config"
	"github.com/deskflow/helpdesk/internal/events"
	"github.com/deskflow/helpdesk/internal/observability"
)

// Subscriber registers event handlers. Both events.Dispatcher and Desk satisfy it.
type Subscriber interface {
	Subscribe(eventType events.EventType, handler events.EventHandler)
}

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	subscriber Subscriber
	logger     *zap.Logger
	metrics    *observability.Metrics
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(subscriber Subscriber, logger *zap.Logger, metrics *observability.Metrics, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		subscriber: subscriber,
		logger:     logger,
		metrics:    metrics,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.subscriber == nil {
		return
	}
	n.subscriber.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.subscriber.Subscribe(events.EventTicketStatusChanged, n.handleTicketStatusChanged)
	n.subscriber.Subscribe(events.EventTicketAssigned, n.handleTicketAssigned)
	n.subscriber.Subscribe(events.EventTicketUnassigned, n.handleTicketAssigned)
	n.subscriber.Subscribe(events.EventTicketCommentAdded, n.handleTicketCommentAdded)
	n.subscriber.Subscribe(events.EventUserDeleted, n.handleUserDeleted)
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketCreated", zap.Int64("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleTicketStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketStatusChanged", zap.Int64("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleTicketAssigned(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketAssignmentChanged",
		zap.Int64("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)),
		zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleTicketCommentAdded(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketCommentAdded", zap.Int64("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleUserDeleted(ctx context.Context, event events.Event) error {
	n.logger.Info("UserDeleted", zap.String("by", event.Actor.Username), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.metrics.RecordEvent("email:" + string(event.Type))
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.Int64("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.metrics.RecordEvent("webhook:" + string(event.Type))
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.Int64("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)))
}

package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/deskflow/helpdesk/internal/domain"
	"github.com/deskflow/helpdesk/internal/events"
)

// Clock returns the current time.
type Clock func() time.Time

// publisher stamps and publishes domain events on behalf of a service.
type publisher struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	clock      Clock
}

func newPublisher(dispatcher events.Dispatcher, logger *zap.Logger, clock Clock) publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = time.Now
	}
	return publisher{dispatcher: dispatcher, logger: logger, clock: clock}
}

func (p publisher) publishEvent(ctx context.Context, event events.Event) {
	if p.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = p.clock()
	}
	if err := p.dispatcher.Publish(ctx, event); err != nil {
		p.logger.Warn("event handler failed",
			zap.String("event_type", string(event.Type)),
			zap.String("event_id", event.ID),
			zap.Error(err))
	}
}

func sessionActor(sess domain.Session) events.Actor {
	return events.Actor{Username: sess.Username, Role: sess.Role}
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	runes := []rune(body)
	if len(runes) <= max {
		return body
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

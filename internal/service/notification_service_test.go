package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/deskflow/helpdesk/internal/config"
	"github.com/deskflow/helpdesk/internal/domain"
	"github.com/deskflow/helpdesk/internal/observability"
)

func TestNotificationsFollowDeskEvents(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	metrics := observability.NewMetrics()
	desk := NewDesk(DeskDependencies{Clock: newFakeClock().Now})
	notifier := NewNotificationService(desk, zap.New(core), metrics, config.NotificationConfig{
		EmailFrom:  "desk@example.com",
		WebhookURL: "https://hooks.example.com/desk",
	})
	notifier.RegisterHandlers()

	ctx := context.Background()
	alice, err := desk.Login(ctx, "alice", domain.RoleEndUser)
	require.NoError(t, err)
	agent, err := desk.Login(ctx, "sam", domain.RoleAgent)
	require.NoError(t, err)
	ticket, err := desk.CreateTicket(ctx, alice, TicketCreateInput{Subject: "s", Description: "d", Category: "🐛 Bug"})
	require.NoError(t, err)
	_, err = desk.AddComment(ctx, agent, ticket.ID, "on it")
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessage("TicketCreated").Len())
	assert.Equal(t, 1, logs.FilterMessage("TicketCommentAdded").Len())

	snap := metrics.Snapshot()
	assert.Equal(t, int64(1), snap.Events["email:ticket_created"])
	assert.Equal(t, int64(1), snap.Events["webhook:ticket_created"])
	assert.Equal(t, int64(1), snap.Events["email:ticket_comment_added"])
	assert.Zero(t, snap.Events["webhook:ticket_comment_added"])
}

func TestNotificationStubsSkipUnconfiguredChannels(t *testing.T) {
	metrics := observability.NewMetrics()
	desk := NewDesk(DeskDependencies{Clock: newFakeClock().Now})
	NewNotificationService(desk, nil, metrics, config.NotificationConfig{}).RegisterHandlers()

	ctx := context.Background()
	alice, err := desk.Login(ctx, "alice", domain.RoleEndUser)
	require.NoError(t, err)
	_, err = desk.CreateTicket(ctx, alice, TicketCreateInput{Subject: "s", Description: "d", Category: "🐛 Bug"})
	require.NoError(t, err)

	assert.Empty(t, metrics.Snapshot().Events)
}

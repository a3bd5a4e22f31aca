package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskflow/helpdesk/internal/domain"
	"github.com/deskflow/helpdesk/internal/events"
	"github.com/deskflow/helpdesk/internal/repository"
)

func TestHistoryTracksStatusAndAssignee(t *testing.T) {
	f := newDeskFixture(t)
	history := NewHistoryService(repository.NewTicketHistoryRepository(), nil)
	history.RegisterHandlers(f.desk)

	ctx := context.Background()
	alice := f.login(t, "alice", domain.RoleEndUser)
	bob := f.login(t, "bob", domain.RoleAgent)
	admin := f.login(t, "root", domain.RoleAdmin)
	ticket := f.create(t, alice, "Printer broken", "🐛 Bug")

	_, err := f.desk.AssignToSelf(ctx, bob, ticket.ID)
	require.NoError(t, err)
	_, err = f.desk.ChangeStatus(ctx, bob, ticket.ID, domain.TicketStatusInProgress)
	require.NoError(t, err)
	_, err = f.desk.DeleteUser(ctx, admin, "bob")
	require.NoError(t, err)

	entries, err := history.ListForTicket(ctx, ticket.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, domain.ChangeTypeAssignee, entries[0].ChangeType)
	assert.Equal(t, "", entries[0].OldValue)
	assert.Equal(t, "bob", entries[0].NewValue)
	assert.Equal(t, "bob", entries[0].ChangedBy)

	assert.Equal(t, domain.ChangeTypeStatus, entries[1].ChangeType)
	assert.Equal(t, "OPEN", entries[1].OldValue)
	assert.Equal(t, "IN_PROGRESS", entries[1].NewValue)

	assert.Equal(t, domain.ChangeTypeAssignee, entries[2].ChangeType)
	assert.Equal(t, "bob", entries[2].OldValue)
	assert.Empty(t, entries[2].NewValue)
	assert.Empty(t, entries[2].ChangedBy)
}

func TestHistoryFollowsCommitOrderUnderSlowSubscriber(t *testing.T) {
	f := newDeskFixture(t)
	ctx := context.Background()

	started := make(chan struct{})
	var once sync.Once
	f.desk.Subscribe(events.EventTicketStatusChanged, func(context.Context, events.Event) error {
		first := false
		once.Do(func() {
			first = true
			close(started)
		})
		if first {
			time.Sleep(100 * time.Millisecond)
		}
		return nil
	})
	history := NewHistoryService(repository.NewTicketHistoryRepository(), nil)
	history.RegisterHandlers(f.desk)

	alice := f.login(t, "alice", domain.RoleEndUser)
	bob := f.login(t, "bob", domain.RoleAgent)
	ticket := f.create(t, alice, "VPN drops", "🐛 Bug")

	done := make(chan error, 1)
	go func() {
		_, err := f.desk.ChangeStatus(ctx, bob, ticket.ID, domain.TicketStatusInProgress)
		done <- err
	}()
	<-started

	_, err := f.desk.ChangeStatus(ctx, bob, ticket.ID, domain.TicketStatusClosed)
	require.NoError(t, err)
	require.NoError(t, <-done)

	current, err := f.desk.GetTicket(ctx, ticket.ID)
	require.NoError(t, err)
	entries, err := history.ListForTicket(ctx, ticket.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "IN_PROGRESS", entries[0].NewValue)
	assert.Equal(t, "CLOSED", entries[1].NewValue)
	assert.Equal(t, string(current.Status), entries[1].NewValue)
}

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskflow/helpdesk/internal/domain"
	apperrors "github.com/deskflow/helpdesk/pkg/util"
)

func newTicket(subject string) *domain.Ticket {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return &domain.Ticket{
		Subject:     subject,
		Description: "details",
		Category:    "🐛 Bug",
		Status:      domain.TicketStatusOpen,
		Creator:     "alice",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestTicketRepository_CreateAssignsIncreasingIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewTicketRepository()

	first := newTicket("one")
	second := newTicket("two")
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.Equal(t, int64(3), repo.NextID(ctx))

	third := newTicket("three")
	require.NoError(t, repo.Create(ctx, third))
	assert.Equal(t, int64(4), third.ID, "ids handed out by NextID are never reused")
}

func TestTicketRepository_CreateRejectsMissingFields(t *testing.T) {
	repo := NewTicketRepository()
	tk := newTicket("")
	err := repo.Create(context.Background(), tk)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	assert.Zero(t, tk.ID)
}

func TestTicketRepository_SnapshotsAreIsolated(t *testing.T) {
	ctx := context.Background()
	repo := NewTicketRepository()
	tk := newTicket("printer")
	require.NoError(t, repo.Create(ctx, tk))

	got, err := repo.GetByID(ctx, tk.ID)
	require.NoError(t, err)
	got.Subject = "mutated"
	got.Comments = append(got.Comments, domain.Comment{Author: "x"})

	again, err := repo.GetByID(ctx, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, "printer", again.Subject)
	assert.Empty(t, again.Comments)
}

func TestTicketRepository_UpdateIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	repo := NewTicketRepository()
	tk := newTicket("printer")
	require.NoError(t, repo.Create(ctx, tk))

	boom := errors.New("boom")
	_, err := repo.Update(ctx, tk.ID, func(t *domain.Ticket) error {
		t.Status = domain.TicketStatusClosed
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := repo.GetByID(ctx, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, got.Status)

	updated, err := repo.Update(ctx, tk.ID, func(t *domain.Ticket) error {
		t.Status = domain.TicketStatusResolved
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusResolved, updated.Status)

	_, err = repo.Update(ctx, 99, func(*domain.Ticket) error { return nil })
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestTicketRepository_SeedAdvancesSequence(t *testing.T) {
	ctx := context.Background()
	repo := NewTicketRepository()
	seeded := *newTicket("seeded")
	seeded.ID = 5
	require.NoError(t, repo.Seed(ctx, seeded))
	assert.True(t, apperrors.IsCode(repo.Seed(ctx, seeded), apperrors.CodeConflict))

	tk := newTicket("next")
	require.NoError(t, repo.Create(ctx, tk))
	assert.Equal(t, int64(6), tk.ID)
}

func TestTicketRepository_UnassignAll(t *testing.T) {
	ctx := context.Background()
	repo := NewTicketRepository()
	bob, carol := "bob", "carol"
	for i, assignee := range []*string{&bob, &carol, &bob, nil} {
		tk := newTicket("t")
		tk.AssignedTo = assignee
		tk.UpdatedAt = tk.UpdatedAt.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Create(ctx, tk))
	}

	before, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)

	affected, err := repo.UnassignAll(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, affected)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Nil(t, list[0].AssignedTo)
	assert.Equal(t, "carol", *list[1].AssignedTo)
	assert.Nil(t, list[2].AssignedTo)
	assert.Equal(t, before.UpdatedAt, list[0].UpdatedAt)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	require.NoError(t, repo.Create(ctx, domain.User{Username: "zoe", Role: domain.RoleAgent}))
	require.NoError(t, repo.Create(ctx, domain.User{Username: "alice", Role: domain.RoleEndUser}))
	err := repo.Create(ctx, domain.User{Username: "alice", Role: domain.RoleAdmin})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))

	user, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleEndUser, user.Role)

	_, err = repo.GetByUsername(ctx, "Alice")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound), "usernames are case-sensitive")

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "zoe", users[1].Username)

	require.NoError(t, repo.Delete(ctx, "zoe"))
	assert.True(t, apperrors.IsCode(repo.Delete(ctx, "zoe"), apperrors.CodeNotFound))
	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCategoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewCategoryRepository("🐛 Bug", "✨ Feature Request", "🐛 Bug", "")

	labels, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"🐛 Bug", "✨ Feature Request"}, labels)

	require.NoError(t, repo.Add(ctx, "❓ Other"))
	assert.True(t, apperrors.IsCode(repo.Add(ctx, "❓ Other"), apperrors.CodeConflict))

	removed, err := repo.DeleteAt(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "✨ Feature Request", removed)

	_, err = repo.DeleteAt(ctx, 2)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeOutOfRange))
	_, err = repo.DeleteAt(ctx, -1)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeOutOfRange))

	ok, err := repo.Contains(ctx, "✨ Feature Request")
	require.NoError(t, err)
	assert.False(t, ok)

	labels, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"🐛 Bug", "❓ Other"}, labels)
}

func TestTicketHistoryRepository(t *testing.T) {
	repo := NewTicketHistoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.TicketHistory{TicketID: 1, ChangeType: domain.ChangeTypeStatus, NewValue: "CLOSED"}))
	require.NoError(t, repo.Create(ctx, &domain.TicketHistory{TicketID: 1, ChangeType: domain.ChangeTypeAssignee, NewValue: "bob"}))
	require.NoError(t, repo.Create(ctx, &domain.TicketHistory{TicketID: 2, ChangeType: domain.ChangeTypeStatus}))

	entries, err := repo.ListByTicket(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.ChangeTypeStatus, entries[0].ChangeType)
	assert.Equal(t, "bob", entries[1].NewValue)

	entries[0].NewValue = "mutated"
	again, err := repo.ListByTicket(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "CLOSED", again[0].NewValue)

	empty, err := repo.ListByTicket(ctx, 9)
	require.NoError(t, err)
	assert.Empty(t, empty)

	err = repo.Create(ctx, &domain.TicketHistory{})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

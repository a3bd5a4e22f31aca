package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskflow/helpdesk/internal/domain"
	apperrors "github.com/deskflow/helpdesk/pkg/util"
)

func ids(tickets []domain.Ticket) []int64 {
	out := make([]int64, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, t.ID)
	}
	return out
}

func int64Ptr(v int64) *int64 { return &v }

func ticketWithComments(id int64, n int, updated time.Time) domain.Ticket {
	t := domain.Ticket{ID: id, Creator: "alice", Status: domain.TicketStatusOpen, Category: "🐛 Bug", UpdatedAt: updated}
	for i := 0; i < n; i++ {
		t.Comments = append(t.Comments, domain.Comment{Author: "alice", Message: "x"})
	}
	return t
}

func TestResolveSelection(t *testing.T) {
	tickets := []domain.Ticket{{ID: 2}, {ID: 5}, {ID: 7}}

	assert.Equal(t, int64(2), *ResolveSelection(int64Ptr(9), tickets))
	assert.Equal(t, int64(5), *ResolveSelection(int64Ptr(5), tickets))
	assert.Equal(t, int64(2), *ResolveSelection(nil, tickets))
	assert.Nil(t, ResolveSelection(int64Ptr(9), nil))
}

func TestEndUserSortMostReplied(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tickets := []domain.Ticket{
		ticketWithComments(1, 0, base),
		ticketWithComments(2, 3, base),
		ticketWithComments(3, 1, base),
	}

	out := EndUserTickets(tickets, "alice", TicketFilter{Sort: SortMostReplied})
	assert.Equal(t, []int64{2, 3, 1}, ids(out))

	tied := []domain.Ticket{
		ticketWithComments(1, 2, base),
		ticketWithComments(2, 2, base.Add(time.Hour)),
		ticketWithComments(3, 2, base.Add(time.Hour)),
	}
	out = EndUserTickets(tied, "alice", TicketFilter{Sort: SortMostReplied})
	assert.Equal(t, []int64{3, 2, 1}, ids(out))
}

func TestEndUserFiltersAndRecentSort(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tickets := []domain.Ticket{
		{ID: 1, Creator: "alice", Status: domain.TicketStatusOpen, Category: "🐛 Bug", UpdatedAt: base.Add(3 * time.Hour)},
		{ID: 2, Creator: "alice", Status: domain.TicketStatusClosed, Category: "🐛 Bug", UpdatedAt: base.Add(time.Hour)},
		{ID: 3, Creator: "carol", Status: domain.TicketStatusOpen, Category: "🐛 Bug", UpdatedAt: base.Add(5 * time.Hour)},
		{ID: 4, Creator: "alice", Status: domain.TicketStatusOpen, Category: "❓ Other", UpdatedAt: base.Add(3 * time.Hour)},
	}

	assert.Equal(t, []int64{4, 1, 2}, ids(EndUserTickets(tickets, "alice", TicketFilter{})))
	assert.Equal(t, []int64{4, 1, 2}, ids(EndUserTickets(tickets, "alice", TicketFilter{Status: FilterAll, Category: FilterAll})))
	assert.Equal(t, []int64{4, 1}, ids(EndUserTickets(tickets, "alice", TicketFilter{Status: domain.TicketStatusOpen})))
	assert.Equal(t, []int64{1, 2}, ids(EndUserTickets(tickets, "alice", TicketFilter{Category: "🐛 Bug"})))
	assert.Empty(t, EndUserTickets(tickets, "alice", TicketFilter{Category: "✨ Feature Request"}))
}

func TestAgentQueue(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bob := "bob"
	sam := "sam"
	tickets := []domain.Ticket{
		{ID: 1, AssignedTo: &bob, UpdatedAt: base},
		{ID: 2, AssignedTo: &sam, UpdatedAt: base.Add(time.Hour)},
		{ID: 3, UpdatedAt: base.Add(2 * time.Hour)},
		{ID: 4, AssignedTo: &bob, UpdatedAt: base.Add(time.Hour)},
	}

	assert.Equal(t, []int64{4, 1}, ids(AgentQueue(tickets, "bob", QueueMine)))
	assert.Equal(t, []int64{4, 1}, ids(AgentQueue(tickets, "bob", "")))
	assert.Equal(t, []int64{3, 4, 2, 1}, ids(AgentQueue(tickets, "bob", QueueAll)))
}

func TestQueryIsIdempotent(t *testing.T) {
	f := newDeskFixture(t)
	ctx := context.Background()
	alice := f.login(t, "alice", domain.RoleEndUser)
	for _, subject := range []string{"a", "b", "c"} {
		f.create(t, alice, subject, "🐛 Bug")
	}

	filter := TicketFilter{Sort: SortMostReplied, Selected: int64Ptr(2)}
	first, err := f.desk.QueryTickets(ctx, alice, filter)
	require.NoError(t, err)
	second, err := f.desk.QueryTickets(ctx, alice, filter)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(2), *first.Selected)
}

func TestDeletedCategoryStaysQueryable(t *testing.T) {
	f := newDeskFixture(t)
	ctx := context.Background()
	alice := f.login(t, "alice", domain.RoleEndUser)
	ticket := f.create(t, alice, "Dark mode", "✨ Feature Request")

	labels, err := f.desk.ListCategories(ctx)
	require.NoError(t, err)
	index := -1
	for i, label := range labels {
		if label == "✨ Feature Request" {
			index = i
		}
	}
	require.GreaterOrEqual(t, index, 0)
	_, err = f.desk.DeleteCategory(ctx, index)
	require.NoError(t, err)

	view, err := f.desk.QueryTickets(ctx, alice, TicketFilter{Category: "✨ Feature Request"})
	require.NoError(t, err)
	require.Len(t, view.Tickets, 1)
	assert.Equal(t, ticket, view.Tickets[0])

	_, err = f.desk.CreateTicket(ctx, alice, TicketCreateInput{Subject: "x", Description: "y", Category: "✨ Feature Request"})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestAdminViewCarriesStats(t *testing.T) {
	f := newDeskFixture(t)
	ctx := context.Background()
	alice := f.login(t, "alice", domain.RoleEndUser)
	agent := f.login(t, "sam", domain.RoleAgent)
	admin := f.login(t, "root", domain.RoleAdmin)
	first := f.create(t, alice, "a", "🐛 Bug")
	f.create(t, alice, "b", "🐛 Bug")
	_, err := f.desk.ChangeStatus(ctx, agent, first.ID, domain.TicketStatusResolved)
	require.NoError(t, err)

	view, err := f.desk.QueryTickets(ctx, admin, TicketFilter{Selected: int64Ptr(first.ID)})
	require.NoError(t, err)
	assert.Empty(t, view.Tickets)
	assert.Nil(t, view.Selected)
	require.NotNil(t, view.Stats)
	assert.Equal(t, 2, view.Stats.TotalTickets)
	assert.Equal(t, 1, view.Stats.OpenTickets)
	assert.Equal(t, 3, view.Stats.TotalUsers)
	assert.Equal(t, 4, view.Stats.TotalCategories)
	assert.Equal(t, 1, view.Stats.ByStatus[domain.TicketStatusResolved])
	assert.Equal(t, 0, view.Stats.ByStatus[domain.TicketStatusClosed])
}

func TestTicketForSession(t *testing.T) {
	f := newDeskFixture(t)
	ctx := context.Background()
	alice := f.login(t, "alice", domain.RoleEndUser)
	carol := f.login(t, "carol", domain.RoleEndUser)
	agent := f.login(t, "sam", domain.RoleAgent)
	ticket := f.create(t, alice, "a", "🐛 Bug")

	_, err := f.desk.TicketForSession(ctx, carol, ticket.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
	got, err := f.desk.TicketForSession(ctx, agent, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, got.ID)
	_, err = f.desk.TicketForSession(ctx, alice, 77)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	_, err = f.desk.QueryTickets(ctx, domain.Session{}, TicketFilter{})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
}

func TestParseSortAndQueue(t *testing.T) {
	order, ok := ParseSortOrder("mostReplied")
	assert.True(t, ok)
	assert.Equal(t, SortMostReplied, order)
	order, ok = ParseSortOrder("")
	assert.True(t, ok)
	assert.Equal(t, SortRecentUpdate, order)
	_, ok = ParseSortOrder("oldest")
	assert.False(t, ok)

	queue, ok := ParseQueue("ALL")
	assert.True(t, ok)
	assert.Equal(t, QueueAll, queue)
	_, ok = ParseQueue("team")
	assert.False(t, ok)
}

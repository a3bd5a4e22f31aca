package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in     string
		want   Role
		wantOK bool
	}{
		{"enduser", RoleEndUser, true},
		{"END_USER", RoleEndUser, true},
		{" end-user ", RoleEndUser, true},
		{"agent", RoleAgent, true},
		{"Admin", RoleAdmin, true},
		{"", "", false},
		{"root", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := ParseRole(tc.in)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRoleGates(t *testing.T) {
	assert.True(t, RoleEndUser.CanCreateTicket())
	assert.False(t, RoleAgent.CanCreateTicket())
	assert.False(t, RoleAdmin.CanCreateTicket())

	assert.False(t, RoleEndUser.CanAssign())
	assert.True(t, RoleAgent.CanAssign())
	assert.True(t, RoleAdmin.CanChangeStatus())
	assert.False(t, RoleEndUser.CanCommentOnAnyTicket())

	for _, r := range Roles {
		assert.True(t, r.CanVote(), r)
	}
	assert.False(t, Role("GUEST").CanVote())
	assert.True(t, RoleAdmin.CanAdminister())
	assert.False(t, RoleAgent.CanAdminister())
}

func TestParseTicketStatus(t *testing.T) {
	tests := []struct {
		in   string
		want TicketStatus
	}{
		{"OPEN", TicketStatusOpen},
		{"In Progress", TicketStatusInProgress},
		{"inprogress", TicketStatusInProgress},
		{"in_progress", TicketStatusInProgress},
		{"resolved", TicketStatusResolved},
		{"Closed", TicketStatusClosed},
	}
	for _, tc := range tests {
		got, ok := ParseTicketStatus(tc.in)
		require.True(t, ok, tc.in)
		assert.Equal(t, tc.want, got)
	}

	_, ok := ParseTicketStatus("pending")
	assert.False(t, ok)
	_, ok = ParseTicketStatus("  ")
	assert.False(t, ok)
	assert.Equal(t, "In Progress", TicketStatusInProgress.Label())
}

func TestTouchAlwaysAdvances(t *testing.T) {
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tk := Ticket{CreatedAt: base, UpdatedAt: base}

	got := tk.Touch(base)
	assert.True(t, got.After(base))
	assert.Equal(t, got, tk.UpdatedAt)

	earlier := base.Add(-time.Hour)
	again := tk.Touch(earlier)
	assert.True(t, again.After(got))

	later := base.Add(time.Hour)
	assert.Equal(t, later, tk.Touch(later))
}

func TestAppendCommentStampsUpdatedAt(t *testing.T) {
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tk := Ticket{CreatedAt: base, UpdatedAt: base}

	tk.AppendComment(Comment{Author: "bob", Role: RoleAgent, Message: "on it", Timestamp: base.Add(time.Minute)})
	require.Len(t, tk.Comments, 1)
	assert.Equal(t, base.Add(time.Minute), tk.UpdatedAt)
	assert.Equal(t, tk.UpdatedAt, tk.Comments[0].Timestamp)
}

func TestVoteLeavesUpdatedAtAlone(t *testing.T) {
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tk := Ticket{CreatedAt: base, UpdatedAt: base}

	tk.Vote(VoteUp)
	tk.Vote(VoteUp)
	tk.Vote(VoteDown)
	assert.Equal(t, 2, tk.Upvotes)
	assert.Equal(t, 1, tk.Downvotes)
	assert.Equal(t, 1, tk.Score())
	assert.Equal(t, base, tk.UpdatedAt)
}

func TestCloneIsDeep(t *testing.T) {
	assignee := "bob"
	tk := Ticket{AssignedTo: &assignee, Comments: []Comment{{Author: "alice", Message: "hi"}}}

	cp := tk.Clone()
	*cp.AssignedTo = "carol"
	cp.Comments[0].Message = "changed"
	cp.Comments = append(cp.Comments, Comment{Author: "x"})

	assert.Equal(t, "bob", *tk.AssignedTo)
	assert.Equal(t, "hi", tk.Comments[0].Message)
	assert.Len(t, tk.Comments, 1)
}

func TestParseVoteDirection(t *testing.T) {
	d, ok := ParseVoteDirection("UP")
	assert.True(t, ok)
	assert.Equal(t, VoteUp, d)
	_, ok = ParseVoteDirection("sideways")
	assert.False(t, ok)
}

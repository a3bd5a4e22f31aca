package domain

import (
	"strings"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// TicketStatuses lists every status in workflow order.
var TicketStatuses = []TicketStatus{
	TicketStatusOpen,
	TicketStatusInProgress,
	TicketStatusResolved,
	TicketStatusClosed,
}

var statusLabels = map[TicketStatus]string{
	TicketStatusOpen:       "Open",
	TicketStatusInProgress: "In Progress",
	TicketStatusResolved:   "Resolved",
	TicketStatusClosed:     "Closed",
}

// IsValid reports whether s is a known status.
func (s TicketStatus) IsValid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the human readable form, e.g. "In Progress".
func (s TicketStatus) Label() string {
	return statusLabels[s]
}

// ParseTicketStatus accepts wire values and labels, ignoring case, spaces and underscores.
func ParseTicketStatus(s string) (TicketStatus, bool) {
	key := statusKey(s)
	if key == "" {
		return "", false
	}
	for _, status := range TicketStatuses {
		if statusKey(string(status)) == key {
			return status, true
		}
	}
	return "", false
}

func statusKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}

// VoteDirection selects which counter a vote increments.
type VoteDirection string

const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)

// ParseVoteDirection validates a vote direction.
func ParseVoteDirection(s string) (VoteDirection, bool) {
	switch VoteDirection(strings.ToLower(strings.TrimSpace(s))) {
	case VoteUp:
		return VoteUp, true
	case VoteDown:
		return VoteDown, true
	}
	return "", false
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID          int64        `json:"id"`
	Subject     string       `json:"subject"`
	Description string       `json:"description"`
	Category    string       `json:"category"`
	Status      TicketStatus `json:"status"`
	Creator     string       `json:"creator"`
	AssignedTo  *string      `json:"assigned_to"`
	Comments    []Comment    `json:"comments"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Upvotes     int          `json:"upvotes"`
	Downvotes   int          `json:"downvotes"`
}

// Clone returns a deep copy safe to hand out as a snapshot.
func (t Ticket) Clone() Ticket {
	out := t
	if t.AssignedTo != nil {
		assignee := *t.AssignedTo
		out.AssignedTo = &assignee
	}
	out.Comments = make([]Comment, len(t.Comments))
	copy(out.Comments, t.Comments)
	return out
}

// IsClosed reports whether the ticket is locked against new comments.
func (t *Ticket) IsClosed() bool {
	return t.Status == TicketStatusClosed
}

// IsAssignedTo reports whether username currently owns the ticket.
func (t *Ticket) IsAssignedTo(username string) bool {
	return t.AssignedTo != nil && *t.AssignedTo == username
}

// Score is the net vote count shown next to a ticket.
func (t *Ticket) Score() int {
	return t.Upvotes - t.Downvotes
}

// Touch refreshes UpdatedAt, always moving it strictly forward.
func (t *Ticket) Touch(now time.Time) time.Time {
	if !now.After(t.UpdatedAt) {
		now = t.UpdatedAt.Add(time.Nanosecond)
	}
	t.UpdatedAt = now
	return now
}

// AppendComment adds a comment and refreshes UpdatedAt.
func (t *Ticket) AppendComment(comment Comment) {
	comment.Timestamp = t.Touch(comment.Timestamp)
	t.Comments = append(t.Comments, comment)
}

// Vote increments the counter for direction without touching UpdatedAt.
func (t *Ticket) Vote(direction VoteDirection) {
	switch direction {
	case VoteUp:
		t.Upvotes++
	case VoteDown:
		t.Downvotes++
	}
}

package events

import (
	"time"

	"github.com/deskflow/helpdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketCommentAdded  EventType = "ticket_comment_added"
	EventTicketVoted         EventType = "ticket_voted"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventTicketUnassigned    EventType = "ticket_unassigned"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventUserRegistered      EventType = "user_registered"
	EventUserDeleted         EventType = "user_deleted"
	EventCategoryAdded       EventType = "category_added"
	EventCategoryDeleted     EventType = "category_deleted"
)

// Actor identifies who triggered an event. System cascades leave Username empty.
type Actor struct {
	Username string      `json:"username,omitempty"`
	Role     domain.Role `json:"role,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  int64       `json:"ticket_id,omitempty"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Subject  string `json:"subject"`
	Category string `json:"category"`
}

// TicketCommentAddedPayload payload.
type TicketCommentAddedPayload struct {
	Author         string      `json:"author"`
	AuthorRole     domain.Role `json:"author_role"`
	MessagePreview string      `json:"message_preview"`
	CommentCount   int         `json:"comment_count"`
}

// TicketVotedPayload payload.
type TicketVotedPayload struct {
	Direction domain.VoteDirection `json:"direction"`
	Upvotes   int                  `json:"upvotes"`
	Downvotes int                  `json:"downvotes"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	PreviousAssignee *string `json:"previous_assignee,omitempty"`
	Assignee         string  `json:"assignee"`
}

// TicketUnassignedPayload payload.
type TicketUnassignedPayload struct {
	FormerAssignee string `json:"former_assignee"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// UserPayload payload for directory user events.
type UserPayload struct {
	Username        string      `json:"username"`
	Role            domain.Role `json:"role"`
	UnassignedCount int         `json:"unassigned_count,omitempty"`
}

// CategoryPayload payload for category events.
type CategoryPayload struct {
	Label string `json:"label"`
	Index int    `json:"index"`
}

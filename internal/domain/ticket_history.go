package domain

import "time"

// TicketChangeType captures what changed in a history entry.
type TicketChangeType string

const (
	ChangeTypeStatus   TicketChangeType = "STATUS_CHANGE"
	ChangeTypeAssignee TicketChangeType = "ASSIGNEE_CHANGE"
)

// TicketHistory is an immutable audit trail entry. ChangedBy is empty for system cascades.
type TicketHistory struct {
	ID         string           `json:"id"`
	TicketID   int64            `json:"ticket_id"`
	ChangedBy  string           `json:"changed_by,omitempty"`
	ChangeType TicketChangeType `json:"change_type"`
	OldValue   string           `json:"old_value"`
	NewValue   string           `json:"new_value"`
	CreatedAt  time.Time        `json:"created_at"`
}

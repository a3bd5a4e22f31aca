package dto

import (
	"time"

	"github.com/deskflow/helpdesk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Subject     string `json:"subject" validate:"required"`
	Description string `json:"description" validate:"required"`
	Category    string `json:"category" validate:"required"`
}

// CommentRequest payload. Emptiness is checked by the desk after the ticket lookup.
type CommentRequest struct {
	Message string `json:"message"`
}

// VoteRequest payload.
type VoteRequest struct {
	Direction string `json:"direction" validate:"required"`
}

// ChangeStatusRequest payload.
type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// TicketResponse is the full ticket including its thread.
type TicketResponse struct {
	ID          int64               `json:"id"`
	Subject     string              `json:"subject"`
	Description string              `json:"description"`
	Category    string              `json:"category"`
	Status      domain.TicketStatus `json:"status"`
	StatusLabel string              `json:"status_label"`
	Creator     string              `json:"creator"`
	AssignedTo  *string             `json:"assigned_to"`
	Comments    []CommentResponse   `json:"comments"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	Upvotes     int                 `json:"upvotes"`
	Downvotes   int                 `json:"downvotes"`
	Score       int                 `json:"score"`
}

// CommentResponse represents a thread entry.
type CommentResponse struct {
	Author    string      `json:"author"`
	Role      domain.Role `json:"role"`
	Message   string      `json:"message"`
	Timestamp time.Time   `json:"timestamp"`
}

// TicketViewResponse is the list shown for the caller's role.
type TicketViewResponse struct {
	Role     domain.Role        `json:"role"`
	Tickets  []TicketResponse   `json:"tickets"`
	Stats    *domain.AdminStats `json:"stats,omitempty"`
	Selected *int64             `json:"selected"`
}

// NewTicketResponse maps a ticket snapshot.
func NewTicketResponse(ticket domain.Ticket) TicketResponse {
	comments := make([]CommentResponse, 0, len(ticket.Comments))
	for _, c := range ticket.Comments {
		comments = append(comments, CommentResponse{
			Author:    c.Author,
			Role:      c.Role,
			Message:   c.Message,
			Timestamp: c.Timestamp,
		})
	}
	return TicketResponse{
		ID:          ticket.ID,
		Subject:     ticket.Subject,
		Description: ticket.Description,
		Category:    ticket.Category,
		Status:      ticket.Status,
		StatusLabel: ticket.Status.Label(),
		Creator:     ticket.Creator,
		AssignedTo:  ticket.AssignedTo,
		Comments:    comments,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
		Upvotes:     ticket.Upvotes,
		Downvotes:   ticket.Downvotes,
		Score:       ticket.Score(),
	}
}

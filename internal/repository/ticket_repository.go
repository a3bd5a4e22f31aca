package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/deskflow/helpdesk/internal/domain"
	apperrors "github.com/deskflow/helpdesk/pkg/util"
)

// TicketRepository encapsulates the ticket collection and its id sequence.
type TicketRepository interface {
	NextID(ctx context.Context) int64
	Create(ctx context.Context, ticket *domain.Ticket) error
	Seed(ctx context.Context, ticket domain.Ticket) error
	Update(ctx context.Context, id int64, mutate func(*domain.Ticket) error) (domain.Ticket, error)
	GetByID(ctx context.Context, id int64) (domain.Ticket, error)
	List(ctx context.Context) ([]domain.Ticket, error)
	UnassignAll(ctx context.Context, username string) ([]int64, error)
}

type ticketRepository struct {
	mu      sync.RWMutex
	lastID  int64
	tickets map[int64]*domain.Ticket
}

// NewTicketRepository instantiates an in-memory repository.
func NewTicketRepository() TicketRepository {
	return &ticketRepository{tickets: make(map[int64]*domain.Ticket)}
}

func (r *ticketRepository) NextID(_ context.Context) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.nextIDLocked()
}

func (r *ticketRepository) nextIDLocked() int64 {
	r.lastID++
	return r.lastID
}

// Create assigns the next id and stores a copy of ticket.
func (r *ticketRepository) Create(_ context.Context, ticket *domain.Ticket) error {
	if ticket.Subject == "" || ticket.Description == "" || ticket.Category == "" {
		return apperrors.NewInvalidInput("subject, description and category required", nil)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket.ID = r.nextIDLocked()
	stored := ticket.Clone()
	r.tickets[ticket.ID] = &stored
	return nil
}

// Seed stores a fully built ticket, advancing the sequence past its id.
func (r *ticketRepository) Seed(_ context.Context, ticket domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ticket.ID <= 0 {
		ticket.ID = r.nextIDLocked()
	}
	if _, exists := r.tickets[ticket.ID]; exists {
		return apperrors.NewConflict("ticket id already used", map[string]any{"ticket_id": ticket.ID})
	}
	if ticket.ID > r.lastID {
		r.lastID = ticket.ID
	}
	stored := ticket.Clone()
	r.tickets[ticket.ID] = &stored
	return nil
}

// Update runs mutate against a working copy and stores it only when mutate succeeds.
func (r *ticketRepository) Update(_ context.Context, id int64, mutate func(*domain.Ticket) error) (domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.tickets[id]
	if !ok {
		return domain.Ticket{}, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
	}
	working := current.Clone()
	if err := mutate(&working); err != nil {
		return domain.Ticket{}, err
	}
	r.tickets[id] = &working
	return working.Clone(), nil
}

func (r *ticketRepository) GetByID(_ context.Context, id int64) (domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return domain.Ticket{}, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
	}
	return ticket.Clone(), nil
}

// List returns a snapshot ordered by id.
func (r *ticketRepository) List(_ context.Context) ([]domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.Ticket, 0, len(r.tickets))
	for _, ticket := range r.tickets {
		result = append(result, ticket.Clone())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// UnassignAll clears the assignee on every ticket held by username. UpdatedAt is left as is.
func (r *ticketRepository) UnassignAll(_ context.Context, username string) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var affected []int64
	for id, ticket := range r.tickets {
		if ticket.IsAssignedTo(username) {
			ticket.AssignedTo = nil
			affected = append(affected, id)
		}
	}
	sort.Slice(affected, func(i, j int) bool { return affected[i] < affected[j] })
	return affected, nil
}

package repository

import (
	"context"
	"sync"

	"github.com/deskflow/helpdesk/internal/domain"
	apperrors "github.com/deskflow/helpdesk/pkg/util"
)

// TicketHistoryRepository stores audit entries.
type TicketHistoryRepository interface {
	Create(ctx context.Context, history *domain.TicketHistory) error
	ListByTicket(ctx context.Context, ticketID int64) ([]domain.TicketHistory, error)
}

type ticketHistoryRepository struct {
	mu      sync.RWMutex
	entries map[int64][]domain.TicketHistory
}

// NewTicketHistoryRepository builds repository.
func NewTicketHistoryRepository() TicketHistoryRepository {
	return &ticketHistoryRepository{entries: make(map[int64][]domain.TicketHistory)}
}

func (r *ticketHistoryRepository) Create(_ context.Context, history *domain.TicketHistory) error {
	if history.TicketID <= 0 || history.ChangeType == "" {
		return apperrors.NewInvalidInput("ticket id and change type required", nil)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[history.TicketID] = append(r.entries[history.TicketID], *history)
	return nil
}

// ListByTicket returns entries in the order they were recorded.
func (r *ticketHistoryRepository) ListByTicket(_ context.Context, ticketID int64) ([]domain.TicketHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := r.entries[ticketID]
	out := make([]domain.TicketHistory, len(entries))
	copy(out, entries)
	return out, nil
}

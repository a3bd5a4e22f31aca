package service

import (
	"context"
	"sort"
	"strings"

	"github.com/deskflow/helpdesk/internal/domain"
	"github.com/deskflow/helpdesk/internal/repository"
	apperrors "github.com/deskflow/helpdesk/pkg/util"
)

// FilterAll disables a status or category filter.
const FilterAll = "all"

// SortOrder selects the ordering of the end-user list.
type SortOrder string

const (
	SortRecentUpdate SortOrder = "recentUpdate"
	SortMostReplied  SortOrder = "mostReplied"
)

// ParseSortOrder accepts the canonical names case-insensitively. Empty means recentUpdate.
func ParseSortOrder(s string) (SortOrder, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "recentupdate", "recent":
		return SortRecentUpdate, true
	case "mostreplied", "replies":
		return SortMostReplied, true
	}
	return "", false
}

// Queue selects an agent-facing ticket list.
type Queue string

const (
	QueueMine Queue = "mine"
	QueueAll  Queue = "all"
)

// ParseQueue accepts mine or all. Empty means mine.
func ParseQueue(s string) (Queue, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "mine":
		return QueueMine, true
	case "all":
		return QueueAll, true
	}
	return "", false
}

// TicketFilter holds the view state a caller queries with. Status and Category use "" or
// FilterAll for no restriction. Selected is the ticket the caller had open before the query.
type TicketFilter struct {
	Status   domain.TicketStatus
	Category string
	Sort     SortOrder
	Queue    Queue
	Selected *int64
}

// TicketView is the result of a role-specific query. Admin views carry Stats and no tickets.
type TicketView struct {
	Role     domain.Role        `json:"role"`
	Tickets  []domain.Ticket    `json:"tickets"`
	Stats    *domain.AdminStats `json:"stats,omitempty"`
	Selected *int64             `json:"selected"`
}

// QueryService builds role views over snapshots of the ticket store.
type QueryService struct {
	tickets    repository.TicketRepository
	users      repository.UserRepository
	categories repository.CategoryRepository
}

// QueryDependencies bundles collaborators for queries.
type QueryDependencies struct {
	TicketRepo   repository.TicketRepository
	UserRepo     repository.UserRepository
	CategoryRepo repository.CategoryRepository
}

// NewQueryService constructs the service.
func NewQueryService(deps QueryDependencies) *QueryService {
	return &QueryService{
		tickets:    deps.TicketRepo,
		users:      deps.UserRepo,
		categories: deps.CategoryRepo,
	}
}

// QueryTickets produces the view for the session's role and resolves the selection against it.
func (s *QueryService) QueryTickets(ctx context.Context, sess domain.Session, filter TicketFilter) (TicketView, error) {
	if sess.IsZero() {
		return TicketView{}, apperrors.NewForbidden("login required")
	}
	switch sess.Role {
	case domain.RoleAdmin:
		stats, err := s.Stats(ctx)
		if err != nil {
			return TicketView{}, err
		}
		return TicketView{Role: sess.Role, Tickets: []domain.Ticket{}, Stats: &stats}, nil
	case domain.RoleAgent:
		all, err := s.tickets.List(ctx)
		if err != nil {
			return TicketView{}, err
		}
		tickets := AgentQueue(all, sess.Username, filter.Queue)
		return TicketView{Role: sess.Role, Tickets: tickets, Selected: ResolveSelection(filter.Selected, tickets)}, nil
	case domain.RoleEndUser:
		all, err := s.tickets.List(ctx)
		if err != nil {
			return TicketView{}, err
		}
		tickets := EndUserTickets(all, sess.Username, filter)
		return TicketView{Role: sess.Role, Tickets: tickets, Selected: ResolveSelection(filter.Selected, tickets)}, nil
	}
	return TicketView{}, apperrors.NewInvalidInput("invalid role", map[string]any{"role": sess.Role})
}

// TicketForSession returns a ticket the session may read. End users only see their own tickets.
func (s *QueryService) TicketForSession(ctx context.Context, sess domain.Session, id int64) (domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return domain.Ticket{}, err
	}
	if sess.Role == domain.RoleEndUser && ticket.Creator != sess.Username {
		return domain.Ticket{}, apperrors.NewForbidden("end users can only view their own tickets")
	}
	return ticket, nil
}

// Stats aggregates directory and ticket counts.
func (s *QueryService) Stats(ctx context.Context) (domain.AdminStats, error) {
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return domain.AdminStats{}, err
	}
	userCount, err := s.users.Count(ctx)
	if err != nil {
		return domain.AdminStats{}, err
	}
	labels, err := s.categories.List(ctx)
	if err != nil {
		return domain.AdminStats{}, err
	}
	stats := domain.AdminStats{
		TotalTickets:    len(tickets),
		TotalUsers:      userCount,
		TotalCategories: len(labels),
		ByStatus:        make(map[domain.TicketStatus]int, len(domain.TicketStatuses)),
	}
	for _, status := range domain.TicketStatuses {
		stats.ByStatus[status] = 0
	}
	for _, t := range tickets {
		stats.ByStatus[t.Status]++
	}
	stats.OpenTickets = stats.ByStatus[domain.TicketStatusOpen]
	return stats, nil
}

// EndUserTickets restricts tickets to those created by username, applies the status and
// category filters, and orders the result.
func EndUserTickets(tickets []domain.Ticket, username string, filter TicketFilter) []domain.Ticket {
	out := make([]domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if t.Creator != username {
			continue
		}
		if !matchesFilter(string(filter.Status), string(t.Status)) {
			continue
		}
		if !matchesFilter(filter.Category, t.Category) {
			continue
		}
		out = append(out, t)
	}
	if filter.Sort == SortMostReplied {
		sort.SliceStable(out, func(i, j int) bool {
			if len(out[i].Comments) != len(out[j].Comments) {
				return len(out[i].Comments) > len(out[j].Comments)
			}
			return recentFirst(out[i], out[j])
		})
	} else {
		sortRecent(out)
	}
	return out
}

// AgentQueue returns the agent's queue ordered by most recent update.
func AgentQueue(tickets []domain.Ticket, username string, queue Queue) []domain.Ticket {
	out := make([]domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if queue != QueueAll && !t.IsAssignedTo(username) {
			continue
		}
		out = append(out, t)
	}
	sortRecent(out)
	return out
}

// ResolveSelection keeps prev when it is still in tickets, otherwise falls back to the first
// ticket, or nil when tickets is empty.
func ResolveSelection(prev *int64, tickets []domain.Ticket) *int64 {
	if len(tickets) == 0 {
		return nil
	}
	if prev != nil {
		for _, t := range tickets {
			if t.ID == *prev {
				id := t.ID
				return &id
			}
		}
	}
	id := tickets[0].ID
	return &id
}

func matchesFilter(want, got string) bool {
	return want == "" || want == FilterAll || want == got
}

func sortRecent(tickets []domain.Ticket) {
	sort.SliceStable(tickets, func(i, j int) bool { return recentFirst(tickets[i], tickets[j]) })
}

func recentFirst(a, b domain.Ticket) bool {
	if !a.UpdatedAt.Equal(b.UpdatedAt) {
		return a.UpdatedAt.After(b.UpdatedAt)
	}
	return a.ID > b.ID
}

// Package session keeps the view state of a single interactive caller on top of the desk:
// who is logged in, which filters are active and which ticket is selected.
package session

import (
	"context"
	"sync"

	"github.com/deskflow/helpdesk/internal/domain"
	"github.com/deskflow/helpdesk/internal/service"
	apperrors "github.com/deskflow/helpdesk/pkg/util"
)

// Core is the subset of the desk the manager drives.
type Core interface {
	Login(ctx context.Context, username string, roleHint domain.Role) (domain.Session, error)
	QueryTickets(ctx context.Context, sess domain.Session, filter service.TicketFilter) (service.TicketView, error)
	TicketForSession(ctx context.Context, sess domain.Session, id int64) (domain.Ticket, error)
	CreateTicket(ctx context.Context, sess domain.Session, input service.TicketCreateInput) (domain.Ticket, error)
	AddComment(ctx context.Context, sess domain.Session, id int64, message string) (domain.Ticket, error)
	Vote(ctx context.Context, id int64, direction domain.VoteDirection) (domain.Ticket, error)
	AssignToSelf(ctx context.Context, sess domain.Session, id int64) (domain.Ticket, error)
	ChangeStatus(ctx context.Context, sess domain.Session, id int64, status domain.TicketStatus) (domain.Ticket, error)
}

// View is what a presentation layer renders after a refresh.
type View struct {
	Session  domain.Session
	Filter   service.TicketFilter
	Tickets  []domain.Ticket
	Stats    *domain.AdminStats
	Selected *domain.Ticket
}

// Manager holds at most one active session and its view state.
type Manager struct {
	mu       sync.Mutex
	core     Core
	roleHint domain.Role
	current  domain.Session
	filter   service.TicketFilter
}

// NewManager creates a manager with EndUser as the remembered role.
func NewManager(core Core) *Manager {
	return &Manager{core: core, roleHint: domain.RoleEndUser}
}

// SelectRole remembers the role used to register unseen usernames at the next login.
func (m *Manager) SelectRole(role domain.Role) error {
	if !role.IsValid() {
		return apperrors.NewInvalidInput("invalid role", map[string]any{"role": role})
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roleHint = role
	return nil
}

// RoleHint returns the remembered role.
func (m *Manager) RoleHint() domain.Role {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roleHint
}

// Login replaces the current session. View state from a previous session is discarded.
func (m *Manager) Login(ctx context.Context, username string) (domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, err := m.core.Login(ctx, username, m.roleHint)
	if err != nil {
		return domain.Session{}, err
	}
	m.current = sess
	m.filter = service.TicketFilter{}
	return sess, nil
}

// Logout clears the session and all view state.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = domain.Session{}
	m.filter = service.TicketFilter{}
}

// Current returns the active session and whether one exists.
func (m *Manager) Current() (domain.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current, !m.current.IsZero()
}

// SetStatusFilter restricts the end-user list to status. Empty or "all" clears the filter.
func (m *Manager) SetStatusFilter(status domain.TicketStatus) error {
	if status == service.FilterAll {
		status = ""
	}
	if status != "" && !status.IsValid() {
		return apperrors.NewInvalidInput("invalid status", map[string]any{"status": status})
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filter.Status = status
	return nil
}

// SetCategoryFilter restricts the end-user list to one category label. Empty or "all" clears it.
func (m *Manager) SetCategoryFilter(label string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filter.Category = label
}

func (m *Manager) SetSort(order service.SortOrder) error {
	if order != service.SortRecentUpdate && order != service.SortMostReplied {
		return apperrors.NewInvalidInput("invalid sort", map[string]any{"sort": order})
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filter.Sort = order
	return nil
}

func (m *Manager) SetQueue(queue service.Queue) error {
	if queue != service.QueueMine && queue != service.QueueAll {
		return apperrors.NewInvalidInput("invalid queue", map[string]any{"queue": queue})
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filter.Queue = queue
	return nil
}

// Select marks id as the ticket shown in detail. It is checked against the list on Refresh.
func (m *Manager) Select(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filter.Selected = &id
}

// Refresh re-runs the query for the current filters and applies the selection fallback.
func (m *Manager) Refresh(ctx context.Context) (View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, err := m.sessionLocked()
	if err != nil {
		return View{}, err
	}
	result, err := m.core.QueryTickets(ctx, sess, m.filter)
	if err != nil {
		return View{}, err
	}
	m.filter.Selected = result.Selected
	view := View{
		Session: sess,
		Filter:  m.filter,
		Tickets: result.Tickets,
		Stats:   result.Stats,
	}
	if result.Selected != nil {
		ticket, err := m.core.TicketForSession(ctx, sess, *result.Selected)
		if err != nil {
			return View{}, err
		}
		view.Selected = &ticket
	}
	return view, nil
}

// CreateTicket files a ticket and selects it.
func (m *Manager) CreateTicket(ctx context.Context, input service.TicketCreateInput) (domain.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, err := m.sessionLocked()
	if err != nil {
		return domain.Ticket{}, err
	}
	ticket, err := m.core.CreateTicket(ctx, sess, input)
	if err != nil {
		return domain.Ticket{}, err
	}
	id := ticket.ID
	m.filter.Selected = &id
	return ticket, nil
}

func (m *Manager) Comment(ctx context.Context, id int64, message string) (domain.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, err := m.sessionLocked()
	if err != nil {
		return domain.Ticket{}, err
	}
	return m.core.AddComment(ctx, sess, id, message)
}

func (m *Manager) Vote(ctx context.Context, id int64, direction domain.VoteDirection) (domain.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, err := m.sessionLocked()
	if err != nil {
		return domain.Ticket{}, err
	}
	if !sess.Role.CanVote() {
		return domain.Ticket{}, apperrors.NewForbidden("role cannot vote")
	}
	return m.core.Vote(ctx, id, direction)
}

func (m *Manager) AssignToSelf(ctx context.Context, id int64) (domain.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, err := m.sessionLocked()
	if err != nil {
		return domain.Ticket{}, err
	}
	return m.core.AssignToSelf(ctx, sess, id)
}

func (m *Manager) ChangeStatus(ctx context.Context, id int64, status domain.TicketStatus) (domain.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, err := m.sessionLocked()
	if err != nil {
		return domain.Ticket{}, err
	}
	return m.core.ChangeStatus(ctx, sess, id, status)
}

func (m *Manager) sessionLocked() (domain.Session, error) {
	if m.current.IsZero() {
		return domain.Session{}, apperrors.NewForbidden("login required")
	}
	return m.current, nil
}

package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/deskflow/helpdesk/internal/domain"
	"github.com/deskflow/helpdesk/internal/events"
	"github.com/deskflow/helpdesk/internal/repository"
)

// Desk is the entry point of the ticket core. Every call runs under one lock so that each
// read-modify sequence, including the user delete cascade, is atomic. Events raised by a call
// are delivered after the lock is released, one batch at a time in commit order.
type Desk struct {
	mu        sync.Mutex
	nextBatch uint64

	deliverMu sync.Mutex
	delivered uint64
	turn      *sync.Cond

	tickets     *TicketService
	assignments *AssignmentService
	directory   *DirectoryService
	queries     *QueryService

	ticketRepo repository.TicketRepository
	userRepo   repository.UserRepository

	outbox *events.Outbox
	logger *zap.Logger
	clock  Clock
}

// DeskDependencies wires the desk. Nil repositories are replaced with empty in-memory ones;
// a nil CategoryRepo starts with Categories, or domain.DefaultCategories when that is empty.
// A nil Dispatcher gets a private in-memory one so Subscribe still works.
type DeskDependencies struct {
	TicketRepo   repository.TicketRepository
	UserRepo     repository.UserRepository
	CategoryRepo repository.CategoryRepository
	Categories   []string
	DefaultRole  domain.Role
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
	Clock        Clock
}

// NewDesk builds the services behind the desk.
func NewDesk(deps DeskDependencies) *Desk {
	if deps.TicketRepo == nil {
		deps.TicketRepo = repository.NewTicketRepository()
	}
	if deps.UserRepo == nil {
		deps.UserRepo = repository.NewUserRepository()
	}
	if deps.CategoryRepo == nil {
		labels := deps.Categories
		if len(labels) == 0 {
			labels = domain.DefaultCategories
		}
		deps.CategoryRepo = repository.NewCategoryRepository(labels...)
	}
	if deps.Dispatcher == nil {
		deps.Dispatcher = events.NewInMemoryDispatcher()
	}
	pub := newPublisher(nil, deps.Logger, deps.Clock)
	outbox := events.NewOutbox(deps.Dispatcher)

	assignments := NewAssignmentService(AssignmentDependencies{
		TicketRepo: deps.TicketRepo,
		Dispatcher: outbox,
		Logger:     pub.logger,
		Clock:      pub.clock,
	})
	d := &Desk{
		tickets: NewTicketService(TicketDependencies{
			TicketRepo:   deps.TicketRepo,
			CategoryRepo: deps.CategoryRepo,
			Dispatcher:   outbox,
			Logger:       pub.logger,
			Clock:        pub.clock,
		}),
		assignments: assignments,
		directory: NewDirectoryService(DirectoryDependencies{
			UserRepo:     deps.UserRepo,
			CategoryRepo: deps.CategoryRepo,
			Unassigner:   assignments,
			DefaultRole:  deps.DefaultRole,
			Dispatcher:   outbox,
			Logger:       pub.logger,
			Clock:        pub.clock,
		}),
		queries: NewQueryService(QueryDependencies{
			TicketRepo:   deps.TicketRepo,
			UserRepo:     deps.UserRepo,
			CategoryRepo: deps.CategoryRepo,
		}),
		ticketRepo: deps.TicketRepo,
		userRepo:   deps.UserRepo,
		outbox:     outbox,
		logger:     pub.logger,
		clock:      pub.clock,
	}
	d.turn = sync.NewCond(&d.deliverMu)
	return d
}

// Subscribe registers an event handler. Handlers run outside the desk lock and may read from
// the desk, but must not issue commands from inside a handler.
func (d *Desk) Subscribe(eventType events.EventType, handler events.EventHandler) {
	d.outbox.Subscribe(eventType, handler)
}

func (d *Desk) run(ctx context.Context, fn func() error) error {
	d.mu.Lock()
	err := fn()
	pending := d.outbox.Drain()
	var batch uint64
	if len(pending) > 0 {
		d.nextBatch++
		batch = d.nextBatch
	}
	d.mu.Unlock()

	if batch > 0 {
		d.deliver(ctx, batch, pending)
	}
	return err
}

// deliver waits until every earlier batch has been delivered, so subscribers observe events
// in the order the commands committed.
func (d *Desk) deliver(ctx context.Context, batch uint64, pending []events.Event) {
	d.deliverMu.Lock()
	for d.delivered != batch-1 {
		d.turn.Wait()
	}
	d.deliverMu.Unlock()

	defer func() {
		d.deliverMu.Lock()
		d.delivered = batch
		d.turn.Broadcast()
		d.deliverMu.Unlock()
	}()

	if err := d.outbox.Deliver(ctx, pending); err != nil {
		d.logger.Warn("event delivery failed", zap.Int("events", len(pending)), zap.Error(err))
	}
}

// Login authenticates username, registering it with roleHint when unseen.
func (d *Desk) Login(ctx context.Context, username string, roleHint domain.Role) (domain.Session, error) {
	var user domain.User
	err := d.run(ctx, func() (err error) {
		user, err = d.directory.Login(ctx, username, roleHint)
		return err
	})
	if err != nil {
		return domain.Session{}, err
	}
	return domain.SessionFor(user), nil
}

func (d *Desk) CreateTicket(ctx context.Context, sess domain.Session, input TicketCreateInput) (domain.Ticket, error) {
	var ticket domain.Ticket
	err := d.run(ctx, func() (err error) {
		ticket, err = d.tickets.CreateTicket(ctx, sess, input)
		return err
	})
	return ticket, err
}

func (d *Desk) QueryTickets(ctx context.Context, sess domain.Session, filter TicketFilter) (TicketView, error) {
	var view TicketView
	err := d.run(ctx, func() (err error) {
		view, err = d.queries.QueryTickets(ctx, sess, filter)
		return err
	})
	return view, err
}

func (d *Desk) GetTicket(ctx context.Context, id int64) (domain.Ticket, error) {
	var ticket domain.Ticket
	err := d.run(ctx, func() (err error) {
		ticket, err = d.tickets.GetTicket(ctx, id)
		return err
	})
	return ticket, err
}

func (d *Desk) TicketForSession(ctx context.Context, sess domain.Session, id int64) (domain.Ticket, error) {
	var ticket domain.Ticket
	err := d.run(ctx, func() (err error) {
		ticket, err = d.queries.TicketForSession(ctx, sess, id)
		return err
	})
	return ticket, err
}

func (d *Desk) AddComment(ctx context.Context, sess domain.Session, id int64, message string) (domain.Ticket, error) {
	var ticket domain.Ticket
	err := d.run(ctx, func() (err error) {
		ticket, err = d.tickets.AddComment(ctx, sess, id, message)
		return err
	})
	return ticket, err
}

func (d *Desk) Vote(ctx context.Context, id int64, direction domain.VoteDirection) (domain.Ticket, error) {
	var ticket domain.Ticket
	err := d.run(ctx, func() (err error) {
		ticket, err = d.tickets.Vote(ctx, id, direction)
		return err
	})
	return ticket, err
}

func (d *Desk) AssignToSelf(ctx context.Context, sess domain.Session, id int64) (domain.Ticket, error) {
	var ticket domain.Ticket
	err := d.run(ctx, func() (err error) {
		ticket, err = d.assignments.SelfAssignTicket(ctx, sess, id)
		return err
	})
	return ticket, err
}

func (d *Desk) ChangeStatus(ctx context.Context, sess domain.Session, id int64, status domain.TicketStatus) (domain.Ticket, error) {
	var ticket domain.Ticket
	err := d.run(ctx, func() (err error) {
		ticket, err = d.tickets.ChangeStatus(ctx, sess, id, status)
		return err
	})
	return ticket, err
}

func (d *Desk) AddUser(ctx context.Context, username string, role domain.Role) (domain.User, error) {
	var user domain.User
	err := d.run(ctx, func() (err error) {
		user, err = d.directory.AddUser(ctx, username, role)
		return err
	})
	return user, err
}

// DeleteUser removes username and returns the ids of the tickets it was unassigned from.
func (d *Desk) DeleteUser(ctx context.Context, actor domain.Session, username string) ([]int64, error) {
	var unassigned []int64
	err := d.run(ctx, func() (err error) {
		unassigned, err = d.directory.DeleteUser(ctx, actor, username)
		return err
	})
	return unassigned, err
}

func (d *Desk) AddCategory(ctx context.Context, label string) ([]string, error) {
	var labels []string
	err := d.run(ctx, func() error {
		if err := d.directory.AddCategory(ctx, label); err != nil {
			return err
		}
		var err error
		labels, err = d.directory.ListCategories(ctx)
		return err
	})
	return labels, err
}

func (d *Desk) DeleteCategory(ctx context.Context, index int) ([]string, error) {
	var labels []string
	err := d.run(ctx, func() error {
		if _, err := d.directory.DeleteCategory(ctx, index); err != nil {
			return err
		}
		var err error
		labels, err = d.directory.ListCategories(ctx)
		return err
	})
	return labels, err
}

func (d *Desk) GetUser(ctx context.Context, username string) (domain.User, error) {
	var user domain.User
	err := d.run(ctx, func() (err error) {
		user, err = d.directory.GetUser(ctx, username)
		return err
	})
	return user, err
}

func (d *Desk) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := d.run(ctx, func() (err error) {
		users, err = d.directory.ListUsers(ctx)
		return err
	})
	return users, err
}

func (d *Desk) ListCategories(ctx context.Context) ([]string, error) {
	var labels []string
	err := d.run(ctx, func() (err error) {
		labels, err = d.directory.ListCategories(ctx)
		return err
	})
	return labels, err
}

func (d *Desk) Stats(ctx context.Context) (domain.AdminStats, error) {
	var stats domain.AdminStats
	err := d.run(ctx, func() (err error) {
		stats, err = d.queries.Stats(ctx)
		return err
	})
	return stats, err
}

package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/deskflow/helpdesk/internal/domain"
	"github.com/deskflow/helpdesk/internal/events"
	"github.com/deskflow/helpdesk/internal/repository"
	apperrors "github.com/deskflow/helpdesk/pkg/util"
)

// Unassigner releases every ticket held by a user.
type Unassigner interface {
	UnassignUser(ctx context.Context, username string) ([]int64, error)
}

// DirectoryService owns users and categories.
type DirectoryService struct {
	users       repository.UserRepository
	categories  repository.CategoryRepository
	unassigner  Unassigner
	defaultRole domain.Role
	publisher
}

// DirectoryDependencies bundles collaborators for the directory.
type DirectoryDependencies struct {
	UserRepo     repository.UserRepository
	CategoryRepo repository.CategoryRepository
	Unassigner   Unassigner
	DefaultRole  domain.Role
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
	Clock        Clock
}

// NewDirectoryService builds the service.
func NewDirectoryService(deps DirectoryDependencies) *DirectoryService {
	defaultRole := deps.DefaultRole
	if !defaultRole.IsValid() {
		defaultRole = domain.RoleEndUser
	}
	return &DirectoryService{
		users:       deps.UserRepo,
		categories:  deps.CategoryRepo,
		unassigner:  deps.Unassigner,
		defaultRole: defaultRole,
		publisher:   newPublisher(deps.Dispatcher, deps.Logger, deps.Clock),
	}
}

// Login returns the stored user, registering unseen usernames with roleHint. The stored role of a
// known user always wins over the hint.
func (s *DirectoryService) Login(ctx context.Context, username string, roleHint domain.Role) (domain.User, error) {
	username = domain.NormalizeUsername(username)
	if username == "" {
		return domain.User{}, apperrors.NewInvalidInput("username required", nil)
	}
	existing, err := s.users.GetByUsername(ctx, username)
	if err == nil {
		return existing, nil
	}
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		return domain.User{}, err
	}
	if roleHint == "" {
		roleHint = s.defaultRole
	}
	if !roleHint.IsValid() {
		return domain.User{}, apperrors.NewInvalidInput("invalid role", map[string]any{"role": roleHint, "allowed": domain.Roles})
	}
	user := domain.User{Username: username, Role: roleHint}
	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, err
	}
	s.logger.Info("user auto-registered", zap.String("username", username), zap.String("role", string(roleHint)))
	s.publishEvent(ctx, events.Event{
		Type:    events.EventUserRegistered,
		Actor:   events.Actor{Username: username, Role: roleHint},
		Payload: events.UserPayload{Username: username, Role: roleHint},
	})
	return user, nil
}

// AddUser registers a user explicitly.
func (s *DirectoryService) AddUser(ctx context.Context, username string, role domain.Role) (domain.User, error) {
	username = domain.NormalizeUsername(username)
	if username == "" {
		return domain.User{}, apperrors.NewInvalidInput("username required", nil)
	}
	if !role.IsValid() {
		return domain.User{}, apperrors.NewInvalidInput("invalid role", map[string]any{"role": role, "allowed": domain.Roles})
	}
	user := domain.User{Username: username, Role: role}
	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, err
	}
	s.publishEvent(ctx, events.Event{
		Type:    events.EventUserRegistered,
		Payload: events.UserPayload{Username: username, Role: role},
	})
	return user, nil
}

// DeleteUser removes a user and unassigns it from all tickets. Admins cannot delete themselves.
func (s *DirectoryService) DeleteUser(ctx context.Context, actor domain.Session, username string) ([]int64, error) {
	username = domain.NormalizeUsername(username)
	if username != "" && username == actor.Username {
		return nil, apperrors.NewForbidden("cannot delete the signed-in user")
	}
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	var unassigned []int64
	if s.unassigner != nil {
		unassigned, err = s.unassigner.UnassignUser(ctx, username)
		if err != nil {
			return nil, err
		}
	}
	if err := s.users.Delete(ctx, username); err != nil {
		return nil, err
	}
	s.logger.Info("user deleted", zap.String("username", username), zap.Int("unassigned", len(unassigned)))
	s.publishEvent(ctx, events.Event{
		Type:  events.EventUserDeleted,
		Actor: sessionActor(actor),
		Payload: events.UserPayload{
			Username:        username,
			Role:            user.Role,
			UnassignedCount: len(unassigned),
		},
	})
	return unassigned, nil
}

// GetUser looks up a single user.
func (s *DirectoryService) GetUser(ctx context.Context, username string) (domain.User, error) {
	return s.users.GetByUsername(ctx, domain.NormalizeUsername(username))
}

// ListUsers returns a snapshot ordered by username.
func (s *DirectoryService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// AddCategory appends a new label.
func (s *DirectoryService) AddCategory(ctx context.Context, label string) error {
	label = strings.TrimSpace(label)
	if label == "" {
		return apperrors.NewInvalidInput("category label required", nil)
	}
	if err := s.categories.Add(ctx, label); err != nil {
		return err
	}
	labels, err := s.categories.List(ctx)
	if err != nil {
		return err
	}
	s.publishEvent(ctx, events.Event{
		Type:    events.EventCategoryAdded,
		Payload: events.CategoryPayload{Label: label, Index: len(labels) - 1},
	})
	return nil
}

// DeleteCategory removes the label at index. Tickets keep whatever label they were filed under.
func (s *DirectoryService) DeleteCategory(ctx context.Context, index int) (string, error) {
	label, err := s.categories.DeleteAt(ctx, index)
	if err != nil {
		return "", err
	}
	s.publishEvent(ctx, events.Event{
		Type:    events.EventCategoryDeleted,
		Payload: events.CategoryPayload{Label: label, Index: index},
	})
	return label, nil
}

// ListCategories returns labels in insertion order.
func (s *DirectoryService) ListCategories(ctx context.Context) ([]string, error) {
	return s.categories.List(ctx)
}

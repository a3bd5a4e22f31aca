package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/deskflow/helpdesk/internal/domain"
	apperrors "github.com/deskflow/helpdesk/pkg/util"
)

// UserRepository defines directory access for users.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	Delete(ctx context.Context, username string) error
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Count(ctx context.Context) (int, error)
}

type userRepository struct {
	mu    sync.RWMutex
	users map[string]domain.Role
}

// NewUserRepository returns an in-memory implementation.
func NewUserRepository() UserRepository {
	return &userRepository{users: make(map[string]domain.Role)}
}

func (r *userRepository) Create(_ context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.Username]; exists {
		return apperrors.NewConflict("user already exists", map[string]any{"username": user.Username})
	}
	r.users[user.Username] = user.Role
	return nil
}

func (r *userRepository) Delete(_ context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[username]; !exists {
		return apperrors.NewNotFound("user", map[string]any{"username": username})
	}
	delete(r.users, username)
	return nil
}

func (r *userRepository) GetByUsername(_ context.Context, username string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	role, ok := r.users[username]
	if !ok {
		return domain.User{}, apperrors.NewNotFound("user", map[string]any{"username": username})
	}
	return domain.User{Username: username, Role: role}, nil
}

// List returns users ordered by username.
func (r *userRepository) List(_ context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.User, 0, len(r.users))
	for username, role := range r.users {
		result = append(result, domain.User{Username: username, Role: role})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Username < result[j].Username })
	return result, nil
}

func (r *userRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users), nil
}

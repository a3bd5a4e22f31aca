package repository

import (
	"context"
	"slices"
	"sync"

	apperrors "github.com/deskflow/helpdesk/pkg/util"
)

// CategoryRepository manages the ordered category list.
type CategoryRepository interface {
	Add(ctx context.Context, label string) error
	DeleteAt(ctx context.Context, index int) (string, error)
	Contains(ctx context.Context, label string) (bool, error)
	List(ctx context.Context) ([]string, error)
}

type categoryRepository struct {
	mu     sync.RWMutex
	labels []string
}

// NewCategoryRepository builds the repository seeded with initial labels, skipping duplicates.
func NewCategoryRepository(initial ...string) CategoryRepository {
	r := &categoryRepository{}
	for _, label := range initial {
		if label == "" || slices.Contains(r.labels, label) {
			continue
		}
		r.labels = append(r.labels, label)
	}
	return r
}

func (r *categoryRepository) Add(_ context.Context, label string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if slices.Contains(r.labels, label) {
		return apperrors.NewConflict("category already exists", map[string]any{"category": label})
	}
	r.labels = append(r.labels, label)
	return nil
}

// DeleteAt removes the label at index and returns it.
func (r *categoryRepository) DeleteAt(_ context.Context, index int) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if index < 0 || index >= len(r.labels) {
		return "", apperrors.NewOutOfRange("category index out of range", map[string]any{
			"index": index,
			"count": len(r.labels),
		})
	}
	label := r.labels[index]
	r.labels = slices.Delete(r.labels, index, index+1)
	return label, nil
}

func (r *categoryRepository) Contains(_ context.Context, label string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Contains(r.labels, label), nil
}

// List returns labels in insertion order.
func (r *categoryRepository) List(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.labels), nil
}

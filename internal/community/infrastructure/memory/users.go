package memory

import (
	"context"
	"sync"

	community "energy-community/internal/community/domain"
)

// UserRepository is an in-memory user directory.
type UserRepository struct {
	mu    sync.RWMutex
	users map[int64]community.User
}

// NewUserRepository constructs a repository.
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[int64]community.User)}
}

// Add inserts or replaces a user.
func (r *UserRepository) Add(user community.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
}

// Remove deletes a user, leaving any membership behind.
func (r *UserRepository) Remove(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
}

// GetByID returns the user or nil.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*community.User, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

// Package memory provides in-process implementations of the repository
// interfaces. They back the STORE_BACKEND=memory server mode and the service
// tests, and carry the same atomicity contracts as the Postgres
// implementations, enforced with locks instead of transactions.
package memory

import (
	"context"
	"sync"
	"time"

	"picklist/internal/common"
	"picklist/internal/domain/model"
	"picklist/internal/domain/repository"
)

type UserRepository struct {
	mu         sync.RWMutex
	byID       map[string]*model.User
	byUsername map[string]*model.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:       make(map[string]*model.User),
		byUsername: make(map[string]*model.User),
	}
}

var _ repository.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) GetOrCreate(_ context.Context, candidate *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byUsername[candidate.Username]; ok {
		copied := *existing
		return &copied, nil
	}

	now := time.Now()
	user := *candidate
	user.CreatedAt = now
	user.UpdatedAt = now
	r.byID[user.ID] = &user
	r.byUsername[user.Username] = &user

	copied := user
	return &copied, nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byUsername[username]
	if !ok {
		return nil, common.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *UserRepository) exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byID[id]
	return ok
}

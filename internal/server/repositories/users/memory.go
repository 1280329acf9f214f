package users

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/server/models"
)

// MemoryRepository is an in-memory Repository used in tests and for
// running the server without a database.
type MemoryRepository struct {
	mu    sync.RWMutex
	users []*models.User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, common.ErrorAlreadyExists
		}
	}

	stored := *user
	stored.ID = uuid.NewString()
	r.users = append(r.users, &stored)

	copied := stored
	return &copied, nil
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *MemoryRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.users)), nil
}

package files

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/server/models"
)

// MemoryRepository is an in-memory Repository preserving insertion order.
// Used in tests and for running the server without a database.
type MemoryRepository struct {
	mu    sync.RWMutex
	files []*models.File
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Insert(ctx context.Context, file *models.File) (*models.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *file
	stored.ID = uuid.NewString()
	r.files = append(r.files, &stored)

	copied := stored
	return &copied, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, f := range r.files {
		if f.ID == id {
			copied := *f
			return &copied, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *MemoryRepository) GetByIDAndOwner(ctx context.Context, id, ownerID string) (*models.File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, f := range r.files {
		if f.ID == id && f.UserID == ownerID {
			copied := *f
			return &copied, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *MemoryRepository) ListByParent(ctx context.Context, parentID string, page, pageSize int) ([]*models.File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*models.File
	for _, f := range r.files {
		if f.ParentID == parentID {
			matched = append(matched, f)
		}
	}

	start := page * pageSize
	if start >= len(matched) {
		return nil, nil
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}

	result := make([]*models.File, 0, end-start)
	for _, f := range matched[start:end] {
		copied := *f
		result = append(result, &copied)
	}
	return result, nil
}

func (r *MemoryRepository) SetPublic(ctx context.Context, id, ownerID string, public bool) (*models.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range r.files {
		if f.ID == id && f.UserID == ownerID {
			f.IsPublic = public
			copied := *f
			return &copied, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *MemoryRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.files)), nil
}

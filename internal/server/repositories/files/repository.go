package files

import (
	"context"

	"github.com/dmitrijs2005/filevault/internal/server/models"
)

// Repository gives typed, exact-match access to the files collection.
// Lookups that include the owner double as ownership checks: a non-owned
// existing record and a missing record are both common.ErrorNotFound.
type Repository interface {
	Insert(ctx context.Context, file *models.File) (*models.File, error)
	GetByID(ctx context.Context, id string) (*models.File, error)
	GetByIDAndOwner(ctx context.Context, id, ownerID string) (*models.File, error)
	ListByParent(ctx context.Context, parentID string, page, pageSize int) ([]*models.File, error)
	SetPublic(ctx context.Context, id, ownerID string, public bool) (*models.File, error)
	Count(ctx context.Context) (int64, error)
}

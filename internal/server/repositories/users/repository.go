package users

import (
	"context"

	"github.com/dmitrijs2005/filevault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Count(ctx context.Context) (int64, error)
}

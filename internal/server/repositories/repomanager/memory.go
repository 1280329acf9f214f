package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/filevault/internal/dbx"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/files"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/users"
)

// MemoryRepositoryManager vends shared in-memory repositories. The DBTX
// argument is ignored; there is no database behind it.
type MemoryRepositoryManager struct {
	users *users.MemoryRepository
	files *files.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users: users.NewMemoryRepository(),
		files: files.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) Users(dbx.DBTX) users.Repository {
	return m.users
}

func (m *MemoryRepositoryManager) Files(dbx.DBTX) files.Repository {
	return m.files
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

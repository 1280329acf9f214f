package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/filevault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filevault/internal/server/tokenstore"
)

// Stats reports the number of stored users and files.
type Stats struct {
	Users int64 `json:"users"`
	Files int64 `json:"files"`
}

// AppService answers liveness and statistics queries about the backing
// stores.
type AppService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	tokens tokenstore.Store
}

// NewAppService constructs an AppService.
func NewAppService(db *sql.DB, repos repomanager.RepositoryManager, tokens tokenstore.Store) *AppService {
	return &AppService{db: db, repos: repos, tokens: tokens}
}

// Status reports reachability of the token store and the database.
func (s *AppService) Status(ctx context.Context) (redisAlive, dbAlive bool) {
	redisAlive = s.tokens.Ping(ctx) == nil
	dbAlive = s.db != nil && s.db.PingContext(ctx) == nil
	return redisAlive, dbAlive
}

// CollectStats counts users and files.
func (s *AppService) CollectStats(ctx context.Context) (*Stats, error) {
	users, err := s.repos.Users(s.db).Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting users: %w", err)
	}
	files, err := s.repos.Files(s.db).Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting files: %w", err)
	}
	return &Stats{Users: users, Files: files}, nil
}

// Package services contains server-side business logic. This file implements
// SessionService: registration, credential checks, and the lifecycle of
// opaque bearer tokens held in the expiring token store.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/dbx"
	"github.com/dmitrijs2005/filevault/internal/logging"
	"github.com/dmitrijs2005/filevault/internal/server/models"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filevault/internal/server/tokenstore"
)

// SessionService issues, resolves and revokes session tokens, and creates
// user accounts.
type SessionService struct {
	db       *sql.DB
	repos    repomanager.RepositoryManager
	tokens   tokenstore.Store
	queue    Publisher
	logger   logging.Logger
	tokenTTL time.Duration
}

// Publisher is the slice of the job queue the services use.
type Publisher interface {
	EnqueueThumbnail(ctx context.Context, fileID, userID string) error
	EnqueueWelcome(ctx context.Context, userID string) error
}

// NewSessionService constructs a SessionService.
func NewSessionService(db *sql.DB, repos repomanager.RepositoryManager, tokens tokenstore.Store, q Publisher, logger logging.Logger, tokenTTL time.Duration) *SessionService {
	return &SessionService{
		db:       db,
		repos:    repos,
		tokens:   tokens,
		queue:    q,
		logger:   logger.With("module", "sessions"),
		tokenTTL: tokenTTL,
	}
}

// Register creates a new user. A duplicate email yields ErrorAlreadyExists
// and leaves the original record unchanged. The welcome job is enqueued
// best-effort after the insert.
func (s *SessionService) Register(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" {
		return nil, common.NewValidationError("Missing email")
	}
	if password == "" {
		return nil, common.NewValidationError("Missing password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	var user *models.User
	createUser := func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Users(tx)

		if _, err := repo.GetByEmail(ctx, email); err == nil {
			return common.ErrorAlreadyExists
		} else if !errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("error checking email: %w", err)
		}

		created, err := repo.Create(ctx, &models.User{Email: email, PasswordHash: string(hash)})
		if err != nil {
			return err
		}
		user = created
		return nil
	}

	// the duplicate check and the insert run in one transaction; the unique
	// index still backstops concurrent registrations
	if s.db != nil {
		err = dbx.WithTx(ctx, s.db, nil, createUser)
	} else {
		err = createUser(ctx, s.db)
	}
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	if err := s.queue.EnqueueWelcome(ctx, user.ID); err != nil {
		s.logger.Warn(ctx, "welcome job enqueue failed", "userId", user.ID, "err", err.Error())
	}

	return user, nil
}

// Login verifies the credentials and issues a fresh token with the
// configured TTL. Unknown email and wrong password both yield
// ErrorUnauthorized so callers cannot probe for registered addresses.
func (s *SessionService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", common.ErrorUnauthorized
	}

	user, err := s.repos.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", common.ErrorInternal
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", common.ErrorUnauthorized
	}

	token := uuid.NewString()
	if err := s.tokens.Set(ctx, token, user.ID, s.tokenTTL); err != nil {
		return "", common.ErrorInternal
	}

	return token, nil
}

// ResolveToken maps a token to its user id. An absent or expired token
// resolves to the empty string without error; the user record is not
// checked here.
func (s *SessionService) ResolveToken(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", nil
	}

	userID, err := s.tokens.Get(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("error resolving token: %w", err)
	}
	return userID, nil
}

// Logout deletes the token mapping. Revoking an unknown token is a no-op.
func (s *SessionService) Logout(ctx context.Context, token string) error {
	return s.tokens.Del(ctx, token)
}

// CurrentUser resolves the token to a live user record. A valid token
// pointing at a deleted user is ErrorUnauthorized.
func (s *SessionService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.ResolveToken(ctx, token)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if userID == "" {
		return nil, common.ErrorUnauthorized
	}

	user, err := s.repos.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

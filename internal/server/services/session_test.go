package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/logging"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filevault/internal/server/tokenstore"
)

// ---- test collaborators ----

type recordingQueue struct {
	thumbnails [][2]string // fileID, userID
	welcomes   []string
	fail       bool
}

func (q *recordingQueue) EnqueueThumbnail(ctx context.Context, fileID, userID string) error {
	if q.fail {
		return errors.New("queue unavailable")
	}
	q.thumbnails = append(q.thumbnails, [2]string{fileID, userID})
	return nil
}

func (q *recordingQueue) EnqueueWelcome(ctx context.Context, userID string) error {
	if q.fail {
		return errors.New("queue unavailable")
	}
	q.welcomes = append(q.welcomes, userID)
	return nil
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func newSessionService(t *testing.T) (*SessionService, *tokenstore.MemoryStore, *recordingQueue) {
	t.Helper()
	repos := repomanager.NewMemoryRepositoryManager()
	tokens := tokenstore.NewMemoryStore()
	q := &recordingQueue{}
	return NewSessionService(nil, repos, tokens, q, testLogger(), 24*time.Hour), tokens, q
}

// ---- tests ----

func TestRegister_CreatesUserAndEnqueuesWelcome(t *testing.T) {
	s, _, q := newSessionService(t)
	ctx := context.Background()

	user, err := s.Register(ctx, "user@test.com", "pass123")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.Equal(t, "user@test.com", user.Email)
	require.NotEqual(t, "pass123", user.PasswordHash, "password must never be stored in plaintext")
	require.Equal(t, []string{user.ID}, q.welcomes)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s, _, _ := newSessionService(t)
	ctx := context.Background()

	first, err := s.Register(ctx, "user@test.com", "pass123")
	require.NoError(t, err)

	_, err = s.Register(ctx, "user@test.com", "other")
	require.True(t, errors.Is(err, common.ErrorAlreadyExists))

	// original record unchanged: the first password still logs in
	token, err := s.Login(ctx, "user@test.com", "pass123")
	require.NoError(t, err)
	userID, err := s.ResolveToken(ctx, token)
	require.NoError(t, err)
	require.Equal(t, first.ID, userID)
}

func TestRegister_MissingFields(t *testing.T) {
	s, _, _ := newSessionService(t)
	ctx := context.Background()

	_, err := s.Register(ctx, "", "pass123")
	require.EqualError(t, err, "Missing email")
	require.True(t, errors.Is(err, common.ErrorValidation))

	_, err = s.Register(ctx, "user@test.com", "")
	require.EqualError(t, err, "Missing password")
}

func TestRegister_QueueFailureDoesNotFailRegistration(t *testing.T) {
	s, _, q := newSessionService(t)
	q.fail = true

	_, err := s.Register(context.Background(), "user@test.com", "pass123")
	require.NoError(t, err, "welcome enqueue is best-effort")
}

func TestLogin_IssueAndResolve(t *testing.T) {
	s, _, _ := newSessionService(t)
	ctx := context.Background()

	user, err := s.Register(ctx, "user@test.com", "pass123")
	require.NoError(t, err)

	token, err := s.Login(ctx, "user@test.com", "pass123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := s.ResolveToken(ctx, token)
	require.NoError(t, err)
	require.Equal(t, user.ID, userID)
}

func TestLogin_SameErrorForUnknownUserAndWrongPassword(t *testing.T) {
	s, _, _ := newSessionService(t)
	ctx := context.Background()

	_, err := s.Register(ctx, "user@test.com", "pass123")
	require.NoError(t, err)

	_, errUnknown := s.Login(ctx, "nobody@test.com", "pass123")
	_, errWrong := s.Login(ctx, "user@test.com", "wrong")

	require.True(t, errors.Is(errUnknown, common.ErrorUnauthorized))
	require.True(t, errors.Is(errWrong, common.ErrorUnauthorized))
	require.Equal(t, errUnknown, errWrong, "credential failures must be indistinguishable")
}

func TestLogin_MultipleConcurrentTokens(t *testing.T) {
	s, _, _ := newSessionService(t)
	ctx := context.Background()

	user, err := s.Register(ctx, "user@test.com", "pass123")
	require.NoError(t, err)

	t1, err := s.Login(ctx, "user@test.com", "pass123")
	require.NoError(t, err)
	t2, err := s.Login(ctx, "user@test.com", "pass123")
	require.NoError(t, err)
	require.NotEqual(t, t1, t2)

	for _, tok := range []string{t1, t2} {
		userID, err := s.ResolveToken(ctx, tok)
		require.NoError(t, err)
		require.Equal(t, user.ID, userID)
	}
}

func TestLogout_IsIdempotent(t *testing.T) {
	s, _, _ := newSessionService(t)
	ctx := context.Background()

	_, err := s.Register(ctx, "user@test.com", "pass123")
	require.NoError(t, err)
	token, err := s.Login(ctx, "user@test.com", "pass123")
	require.NoError(t, err)

	require.NoError(t, s.Logout(ctx, token))
	require.NoError(t, s.Logout(ctx, token))
	require.NoError(t, s.Logout(ctx, "unknown-token"))

	userID, err := s.ResolveToken(ctx, token)
	require.NoError(t, err)
	require.Empty(t, userID)
}

func TestCurrentUser_TokenToDeletedUser(t *testing.T) {
	s, tokens, _ := newSessionService(t)
	ctx := context.Background()

	// a live mapping pointing at a user that no longer exists
	require.NoError(t, tokens.Set(ctx, "stale", "gone-user-id", time.Hour))

	_, err := s.CurrentUser(ctx, "stale")
	require.True(t, errors.Is(err, common.ErrorUnauthorized))
}

func TestCurrentUser_EmptyToken(t *testing.T) {
	s, _, _ := newSessionService(t)

	_, err := s.CurrentUser(context.Background(), "")
	require.True(t, errors.Is(err, common.ErrorUnauthorized))
}

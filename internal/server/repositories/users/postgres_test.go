package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+users\b.*RETURNING\s+created_at\s*$`

	now := time.Now()
	mock.ExpectQuery(q).
		WithArgs(sqlmock.AnyArg(), "user@test.com", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	user, err := repo.Create(context.Background(), &models.User{
		Email:        "user@test.com",
		PasswordHash: "hash",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected generated id")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).
		WithArgs(sqlmock.AnyArg(), "user@test.com", "hash").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), &models.User{
		Email:        "user@test.com",
		PasswordHash: "hash",
	})
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want ErrorAlreadyExists, got %v", err)
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+id,\s+email,\s+password_hash,\s+created_at\s+FROM\s+users`).
		WithArgs("missing@test.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "missing@test.com")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestGetByID_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "created_at"}).
		AddRow("u1", "user@test.com", "hash", time.Now())

	mock.ExpectQuery(`SELECT\s+id,\s+email,\s+password_hash,\s+created_at\s+FROM\s+users`).
		WithArgs("u1").
		WillReturnRows(rows)

	user, err := repo.GetByID(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Email != "user@test.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestCount(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+COUNT\(\*\)\s+FROM\s+users`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	n, err := repo.Count(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 12 {
		t.Fatalf("want 12, got %d", n)
	}
}

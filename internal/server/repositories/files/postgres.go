package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/dbx"
	"github.com/dmitrijs2005/filevault/internal/server/models"
)

// PostgresRepository implements file storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const fileColumns = `id, user_id, name, type, is_public, parent_id, local_path, created_at`

func scanFile(row interface{ Scan(...any) error }) (*models.File, error) {
	f := &models.File{}
	err := row.Scan(&f.ID, &f.UserID, &f.Name, &f.Type, &f.IsPublic, &f.ParentID, &f.LocalPath, &f.CreatedAt)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Insert stores a new file record with a generated id.
func (r *PostgresRepository) Insert(ctx context.Context, file *models.File) (*models.File, error) {
	file.ID = uuid.NewString()

	query := `
		INSERT INTO files (id, user_id, name, type, is_public, parent_id, local_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		file.ID, file.UserID, file.Name, file.Type, file.IsPublic, file.ParentID, file.LocalPath).
		Scan(&file.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return file, nil
}

// GetByID returns the record with the given id regardless of owner.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = $1`

	f, err := scanFile(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return f, nil
}

// GetByIDAndOwner returns the record only when ownerID matches.
func (r *PostgresRepository) GetByIDAndOwner(ctx context.Context, id, ownerID string) (*models.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = $1 AND user_id = $2`

	f, err := scanFile(r.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return f, nil
}

// ListByParent returns the page of records under parentID in insertion order.
func (r *PostgresRepository) ListByParent(ctx context.Context, parentID string, page, pageSize int) ([]*models.File, error) {
	query := `
		SELECT ` + fileColumns + ` FROM files
		WHERE parent_id = $1
		ORDER BY seq
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, parentID, pageSize, page*pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer rows.Close()

	var result []*models.File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// SetPublic updates is_public on the record scoped to (id, ownerID) and
// returns the updated row. No matching row is common.ErrorNotFound, which
// also hides the existence of other users' files.
func (r *PostgresRepository) SetPublic(ctx context.Context, id, ownerID string, public bool) (*models.File, error) {
	query := `
		UPDATE files SET is_public = $1
		WHERE id = $2 AND user_id = $3
		RETURNING ` + fileColumns

	f, err := scanFile(r.db.QueryRowContext(ctx, query, public, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return f, nil
}

// Count returns the number of stored file records.
func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM files`).Scan(&n); err != nil {
		return 0, fmt.Errorf("error performing sql request: %w", err)
	}
	return n, nil
}

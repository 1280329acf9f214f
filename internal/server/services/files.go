package services

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/logging"
	"github.com/dmitrijs2005/filevault/internal/server/access"
	"github.com/dmitrijs2005/filevault/internal/server/blob"
	"github.com/dmitrijs2005/filevault/internal/server/models"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/repomanager"
)

// PageSize is the fixed number of records returned per listing page.
const PageSize = 20

// UploadParams are the client-supplied attributes of a new file record.
// Data carries the base64-encoded content for non-folder types.
type UploadParams struct {
	Name     string
	Type     string
	ParentID string
	IsPublic bool
	Data     string
}

// FileService materializes file and folder records, lists children, toggles
// visibility and serves blob content.
type FileService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	blobs  blob.Storage
	queue  Publisher
	logger logging.Logger
}

// NewFileService constructs a FileService.
func NewFileService(db *sql.DB, repos repomanager.RepositoryManager, blobs blob.Storage, q Publisher, logger logging.Logger) *FileService {
	return &FileService{
		db:     db,
		repos:  repos,
		blobs:  blobs,
		queue:  q,
		logger: logger.With("module", "files"),
	}
}

// validate checks upload parameters in a fixed order so clients always get
// the first failing message. It also normalizes an absent parent to the
// root sentinel.
func (s *FileService) validate(ctx context.Context, p *UploadParams) error {
	if p.ParentID == "" {
		p.ParentID = models.RootParentID
	}

	if p.Name == "" {
		return common.NewValidationError("Missing name")
	}

	switch p.Type {
	case models.TypeFile, models.TypeImage, models.TypeFolder:
	default:
		return common.NewValidationError("Missing type")
	}

	if p.Data == "" && p.Type != models.TypeFolder {
		return common.NewValidationError("Missing data")
	}

	if p.ParentID != models.RootParentID {
		parent, err := s.repos.Files(s.db).GetByID(ctx, p.ParentID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.NewValidationError("Parent not found")
			}
			return fmt.Errorf("error loading parent: %w", err)
		}
		if parent.Type != models.TypeFolder {
			return common.NewValidationError("Parent is not a folder")
		}
	}

	return nil
}

// Create validates the parameters and stores the record. Folders are
// inserted directly; file and image content is written to blob storage
// first, and the record keeps the resulting path. A thumbnail job is
// enqueued only after an image insert succeeded.
func (s *FileService) Create(ctx context.Context, userID string, p UploadParams) (*models.FileView, error) {
	if err := s.validate(ctx, &p); err != nil {
		return nil, err
	}

	file := &models.File{
		UserID:   userID,
		Name:     p.Name,
		Type:     p.Type,
		IsPublic: p.IsPublic,
		ParentID: p.ParentID,
	}

	if p.Type != models.TypeFolder {
		data, err := base64.StdEncoding.DecodeString(p.Data)
		if err != nil {
			return nil, common.NewIOError(fmt.Errorf("invalid base64 data: %w", err))
		}

		path, err := s.blobs.Save(ctx, data)
		if err != nil {
			return nil, err
		}
		file.LocalPath = path
	}

	file, err := s.repos.Files(s.db).Insert(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("error creating file: %w", err)
	}

	if file.Type == models.TypeImage {
		if err := s.queue.EnqueueThumbnail(ctx, file.ID, file.UserID); err != nil {
			s.logger.Warn(ctx, "thumbnail job enqueue failed", "fileId", file.ID, "err", err.Error())
		}
	}

	return file.View(), nil
}

// List returns one page of the records under parentID in insertion order.
// A parent that does not resolve to an existing folder yields an empty
// page, not an error.
func (s *FileService) List(ctx context.Context, parentID string, page int) ([]*models.FileView, error) {
	repo := s.repos.Files(s.db)

	if parentID == "" {
		parentID = models.RootParentID
	}
	if page < 0 {
		page = 0
	}

	if parentID != models.RootParentID {
		parent, err := repo.GetByID(ctx, parentID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return []*models.FileView{}, nil
			}
			return nil, fmt.Errorf("error loading parent: %w", err)
		}
		if parent.Type != models.TypeFolder {
			return []*models.FileView{}, nil
		}
	}

	records, err := repo.ListByParent(ctx, parentID, page, PageSize)
	if err != nil {
		return nil, fmt.Errorf("error listing files: %w", err)
	}

	views := make([]*models.FileView, 0, len(records))
	for _, f := range records {
		views = append(views, f.View())
	}
	return views, nil
}

// Get returns the metadata of the caller's own file. Files owned by others
// are reported as not found.
func (s *FileService) Get(ctx context.Context, userID, fileID string) (*models.FileView, error) {
	file, err := s.repos.Files(s.db).GetByIDAndOwner(ctx, fileID, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading file: %w", err)
	}
	return file.View(), nil
}

// SetVisibility toggles isPublic on the caller's own file and returns the
// updated projection. The owner-scoped update doubles as the ownership
// check: someone else's file is indistinguishable from a missing one.
func (s *FileService) SetVisibility(ctx context.Context, userID, fileID string, public bool) (*models.FileView, error) {
	file, err := s.repos.Files(s.db).SetPublic(ctx, fileID, userID, public)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error updating file: %w", err)
	}
	return file.View(), nil
}

// Content returns the blob bytes of a readable file, along with its name
// for content-type negotiation. userID may be empty for anonymous reads of
// public files. Denied reads and missing blobs are both reported as not
// found; folders have no content.
func (s *FileService) Content(ctx context.Context, userID, fileID, size string) ([]byte, string, error) {
	file, err := s.repos.Files(s.db).GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", common.ErrorNotFound
		}
		return nil, "", fmt.Errorf("error loading file: %w", err)
	}

	if !access.CanRead(file, userID) {
		return nil, "", common.ErrorNotFound
	}

	if file.Type == models.TypeFolder {
		return nil, "", common.ErrorFolderHasNoContent
	}

	data, err := s.blobs.Load(ctx, file.LocalPath, size)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", common.ErrorNotFound
		}
		return nil, "", err
	}

	return data, file.Name, nil
}

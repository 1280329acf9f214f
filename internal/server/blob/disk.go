package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/filevault/internal/common"
)

// DiskStorage stores blobs as flat files under a base directory. Filenames
// are freshly generated identifiers, independent of any database id.
type DiskStorage struct {
	baseDir string
}

func NewDiskStorage(baseDir string) *DiskStorage {
	return &DiskStorage{baseDir: baseDir}
}

// Save writes data under a generated name, creating the base directory if
// needed. Failures are wrapped as IO errors, which the caller surfaces as a
// client-correctable condition.
func (s *DiskStorage) Save(ctx context.Context, data []byte) (string, error) {
	if err := os.MkdirAll(s.baseDir, 0o770); err != nil {
		return "", common.NewIOError(fmt.Errorf("mkdir %s: %w", s.baseDir, err))
	}

	path := filepath.Join(s.baseDir, uuid.NewString())

	if err := os.WriteFile(path, data, 0o640); err != nil {
		return "", common.NewIOError(err)
	}

	return path, nil
}

// Load reads the blob at path, or its size variant when size is non-empty.
// A missing file is common.ErrorNotFound, indistinguishable from a variant
// that was never generated.
func (s *DiskStorage) Load(ctx context.Context, path, size string) ([]byte, error) {
	data, err := os.ReadFile(variantPath(path, size))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, common.ErrorNotFound
		}
		return nil, common.NewIOError(err)
	}
	return data, nil
}

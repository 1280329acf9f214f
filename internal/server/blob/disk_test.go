package blob

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/filevault/internal/common"
)

func TestDiskStorage_SaveLoadRoundTrip(t *testing.T) {
	s := NewDiskStorage(t.TempDir())
	ctx := context.Background()

	path, err := s.Save(ctx, []byte("hello"))
	require.NoError(t, err)

	got, err := s.Load(ctx, path, "")
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), got)
}

func TestDiskStorage_CreatesBaseDir(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "files_manager")
	s := NewDiskStorage(base)

	path, err := s.Save(context.Background(), []byte("x"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(path, base))

	// a second save reuses the directory
	_, err = s.Save(context.Background(), []byte("y"))
	require.NoError(t, err)
}

func TestDiskStorage_GeneratedNamesAreUnique(t *testing.T) {
	s := NewDiskStorage(t.TempDir())
	ctx := context.Background()

	p1, err := s.Save(ctx, []byte("a"))
	require.NoError(t, err)
	p2, err := s.Save(ctx, []byte("b"))
	require.NoError(t, err)
	require.NotEqual(t, p1, p2)
}

func TestDiskStorage_LoadSizeVariant(t *testing.T) {
	dir := t.TempDir()
	s := NewDiskStorage(dir)
	ctx := context.Background()

	path, err := s.Save(ctx, []byte("original"))
	require.NoError(t, err)

	// the thumbnail worker writes variants alongside the original
	require.NoError(t, os.WriteFile(path+"_250", []byte("thumb"), 0o640))

	got, err := s.Load(ctx, path, "250")
	require.NoError(t, err)
	require.Equal(t, []byte("thumb"), got)
}

func TestDiskStorage_MissingIsNotFound(t *testing.T) {
	s := NewDiskStorage(t.TempDir())
	ctx := context.Background()

	_, err := s.Load(ctx, filepath.Join(t.TempDir(), "nope"), "")
	require.True(t, errors.Is(err, common.ErrorNotFound))

	// missing size variant is the same NotFound, never a distinct error
	path, err := s.Save(ctx, []byte("data"))
	require.NoError(t, err)
	_, err = s.Load(ctx, path, "500")
	require.True(t, errors.Is(err, common.ErrorNotFound))
}

func TestDiskStorage_SaveFailureIsIOError(t *testing.T) {
	dir := t.TempDir()
	// a file standing where the base directory should be
	base := filepath.Join(dir, "occupied")
	require.NoError(t, os.WriteFile(base, []byte("x"), 0o640))

	s := NewDiskStorage(base)
	_, err := s.Save(context.Background(), []byte("data"))
	require.True(t, errors.Is(err, common.ErrorIO))
}

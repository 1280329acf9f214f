// Package blob persists binary payloads under opaque generated identifiers.
// The logical file record keeps only the returned path; user-supplied names
// never reach the filesystem or object store.
package blob

import "context"

// Storage writes and reads blob content. Save returns the location to
// persist in the file record; Load resolves it back, optionally with a
// size-variant suffix ("_<size>") written by the thumbnail pipeline.
type Storage interface {
	Save(ctx context.Context, data []byte) (string, error)
	Load(ctx context.Context, path, size string) ([]byte, error)
}

func variantPath(path, size string) string {
	if size == "" {
		return path
	}
	return path + "_" + size
}

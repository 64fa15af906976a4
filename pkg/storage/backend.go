package storage

import (
	"context"
	"io"
	"time"
)

// FileInfo represents metadata about a file
type FileInfo struct {
	Path         string
	Size         int64
	ModTime      time.Time
	IsDir        bool
	RelativePath string
}

// Backend defines the interface for storage operations
// Paths passed to Open, Stat and Remove are the Path values returned by List
type Backend interface {
	// Root returns the resolved scan root
	Root() string

	// List returns every regular file under the root, recursively
	// Directories, symlinks and other non-regular entries are excluded
	List(ctx context.Context) ([]FileInfo, error)

	// Open opens a file for reading
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Stat returns file metadata
	Stat(ctx context.Context, path string) (*FileInfo, error)

	// Remove deletes a single file, never a directory tree
	Remove(ctx context.Context, path string) error

	// Close releases any resources held by the backend
	Close() error
}

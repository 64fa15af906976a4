package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/sdejongh/ddupe/pkg/models"
)

// Local is a filesystem-based storage backend
type Local struct {
	fs       afero.Fs
	rootPath string
	exclude  []string
}

// NewLocal creates a backend over the operating system filesystem
func NewLocal(rootPath string, exclude ...string) (*Local, error) {
	absPath, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}
	return NewLocalFs(afero.NewOsFs(), absPath, exclude...)
}

// NewLocalFs creates a backend over an arbitrary afero filesystem
func NewLocalFs(fsys afero.Fs, rootPath string, exclude ...string) (*Local, error) {
	rootPath = filepath.Clean(rootPath)

	info, err := fsys.Stat(rootPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", models.ErrTargetNotFound, rootPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to access path: %w", err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", rootPath)
	}

	return &Local{fs: fsys, rootPath: rootPath, exclude: exclude}, nil
}

// Root returns the resolved scan root
func (l *Local) Root() string {
	return l.rootPath
}

// List returns all regular files under the root
// Unreadable entries are skipped, they cannot be proven identical to anything
func (l *Local) List(ctx context.Context) ([]FileInfo, error) {
	var files []FileInfo

	err := afero.Walk(l.fs, l.rootPath, func(p string, info fs.FileInfo, err error) error {
		if err != nil || info == nil {
			return nil
		}

		// Check context cancellation
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		relPath, err := filepath.Rel(l.rootPath, p)
		if err != nil {
			return nil
		}

		if info.IsDir() {
			if relPath != "." && shouldExclude(relPath+"/", l.exclude) {
				return filepath.SkipDir
			}
			return nil
		}

		if !info.Mode().IsRegular() || shouldExclude(relPath, l.exclude) {
			return nil
		}

		files = append(files, FileInfo{
			Path:         p,
			Size:         info.Size(),
			ModTime:      info.ModTime(),
			RelativePath: relPath,
		})

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	return files, nil
}

// Open opens a file for reading
func (l *Local) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	file, err := l.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

// Stat returns file metadata
func (l *Local) Stat(ctx context.Context, path string) (*FileInfo, error) {
	info, err := l.fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	relPath, err := filepath.Rel(l.rootPath, path)
	if err != nil {
		relPath = path
	}

	return &FileInfo{
		Path:         path,
		Size:         info.Size(),
		ModTime:      info.ModTime(),
		IsDir:        info.IsDir(),
		RelativePath: relPath,
	}, nil
}

// Remove deletes a single file
func (l *Local) Remove(ctx context.Context, path string) error {
	info, err := l.fs.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("failed to delete: %s is a directory", path)
	}

	if err := l.fs.Remove(path); err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}

	return nil
}

// Close releases resources (no-op for local filesystem)
func (l *Local) Close() error {
	return nil
}

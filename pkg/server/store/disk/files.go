// Package disk implements store.FilesStore on a local directory.
package disk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/doodlesbykumbi/blog-in-go/pkg/server/store"
)

// Ensure FilesStore implements store.FilesStore
var _ store.FilesStore = (*FilesStore)(nil)

// FilesStore keeps uploads as flat files under root
type FilesStore struct {
	root string
}

// NewFilesStore creates root if needed and returns a store over it
func NewFilesStore(root string) (*FilesStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", root, err)
	}
	return &FilesStore{root: root}, nil
}

// Root returns the upload directory
func (s *FilesStore) Root() string {
	return s.root
}

// Available reports whether the upload directory exists
func (s *FilesStore) Available() bool {
	info, err := os.Stat(s.root)
	return err == nil && info.IsDir()
}

// Save writes r to root/name, refusing to overwrite an existing file
func (s *FilesStore) Save(ctx context.Context, name string, r io.Reader, limit int64) (int64, error) {
	path, err := s.path(name)
	if err != nil {
		return 0, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", name, err)
	}

	// One extra byte tells an exact-limit body from an oversize one.
	n, copyErr := io.Copy(f, io.LimitReader(&ctxReader{ctx: ctx, r: r}, limit+1))
	closeErr := f.Close()

	switch {
	case copyErr != nil:
		_ = os.Remove(path)
		return 0, fmt.Errorf("failed to write %s: %w", name, copyErr)
	case n > limit:
		_ = os.Remove(path)
		return 0, store.ErrFileTooLarge
	case closeErr != nil:
		_ = os.Remove(path)
		return 0, fmt.Errorf("failed to close %s: %w", name, closeErr)
	}
	return n, nil
}

// Delete removes root/name
func (s *FilesStore) Delete(_ context.Context, name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}

	info, err := os.Lstat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return store.ErrFileNotFound
		}
		return err
	}
	if !info.Mode().IsRegular() {
		return store.ErrFileNotFound
	}
	return os.Remove(path)
}

// List returns every regular file in root sorted by name
func (s *FilesStore) List(_ context.Context) ([]store.FileInfo, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload directory: %w", err)
	}

	files := make([]store.FileInfo, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// removed between ReadDir and Info
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		files = append(files, store.FileInfo{
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

func (s *FilesStore) path(name string) (string, error) {
	if !store.ValidFileName(name) {
		return "", store.ErrInvalidFileName
	}
	return filepath.Join(s.root, name), nil
}

// ctxReader stops a copy once the request context is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

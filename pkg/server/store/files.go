package store

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"
)

// ErrFileNotFound is returned when no regular file has the given name
var ErrFileNotFound = errors.New("file not found")

// ErrFileTooLarge is returned when an upload exceeds the size limit
var ErrFileTooLarge = errors.New("file too large")

// ErrInvalidFileName is returned for names that would escape the upload root
var ErrInvalidFileName = errors.New("invalid file name")

// FileInfo describes a stored upload
type FileInfo struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// FilesStore abstracts the upload directory
type FilesStore interface {
	// Save streams r into a new file called name. At most limit bytes are
	// accepted; a larger body is removed and ErrFileTooLarge returned.
	Save(ctx context.Context, name string, r io.Reader, limit int64) (int64, error)

	// Delete removes the named regular file.
	Delete(ctx context.Context, name string) error

	// List returns the regular files of the root, sorted by name.
	List(ctx context.Context) ([]FileInfo, error)

	// Root returns the upload directory.
	Root() string

	// Available reports whether the upload directory exists.
	Available() bool
}

// ValidFileName reports whether name is a plain file name that stays inside
// the upload root.
func ValidFileName(name string) bool {
	if name == "" || name == "." || strings.Contains(name, "..") {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}

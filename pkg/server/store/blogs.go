package store

import (
	"context"
	"errors"

	"github.com/doodlesbykumbi/blog-in-go/pkg/model"
)

// ErrBlogNotFound is returned when a blog doesn't exist
var ErrBlogNotFound = errors.New("blog not found")

// BlogFilter narrows and pages a blog listing
type BlogFilter struct {
	// Keyword matches as a substring of the title when non-empty
	Keyword string
	// Status restricts the listing when non-nil
	Status *model.BlogStatus
	Offset int
	Limit  int
}

// BlogPatch carries the fields of a partial update. Nil fields are left
// untouched.
type BlogPatch struct {
	Title    *string
	Content  *string
	CoverURL *string
	Status   *model.BlogStatus
}

// Empty reports whether the patch changes nothing
func (p BlogPatch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.CoverURL == nil && p.Status == nil
}

// BlogsStore abstracts blog storage operations
type BlogsStore interface {
	// ListBlogs returns one page of blogs, newest first, and the total
	// number of blogs matching the filter.
	ListBlogs(ctx context.Context, filter BlogFilter) ([]model.Blog, int64, error)

	// FindBlog returns ErrBlogNotFound for unknown or malformed ids.
	FindBlog(ctx context.Context, id string) (*model.Blog, error)

	CreateBlog(ctx context.Context, b *model.Blog) error

	// UpdateBlog applies the patch and returns the stored row.
	UpdateBlog(ctx context.Context, id string, patch BlogPatch) (*model.Blog, error)

	DeleteBlog(ctx context.Context, id string) error
}

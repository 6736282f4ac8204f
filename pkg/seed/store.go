package seed

import (
	"context"

	"github.com/doodlesbykumbi/blog-in-go/pkg/model"
	"github.com/doodlesbykumbi/blog-in-go/pkg/role"
)

// Store abstracts the storage operations for seeding.
type Store interface {
	// Transaction runs fn in a transaction. If fn returns an error, the
	// transaction is rolled back.
	Transaction(ctx context.Context, fn func(Store) error) error

	// FindUser returns store.ErrUserNotFound when the username is unknown.
	FindUser(ctx context.Context, username string) (*model.User, error)

	CreateUser(ctx context.Context, u *model.User) error

	// UpdateUser writes the non-nil fields of the named user.
	UpdateUser(ctx context.Context, username string, level *role.Role, active *bool) error

	// BlogExists reports whether authorID already has a post titled title.
	BlogExists(ctx context.Context, authorID, title string) (bool, error)

	CreateBlog(ctx context.Context, b *model.Blog) error
}

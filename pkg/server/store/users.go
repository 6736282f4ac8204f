package store

import (
	"context"
	"errors"

	"github.com/doodlesbykumbi/blog-in-go/pkg/model"
	"github.com/doodlesbykumbi/blog-in-go/pkg/role"
)

// ErrUserNotFound is returned when no user matches the lookup
var ErrUserNotFound = errors.New("user not found")

// ErrUsernameTaken is returned when the unique username constraint fires
var ErrUsernameTaken = errors.New("username already exists")

// UsersStore abstracts account storage operations
type UsersStore interface {
	// CreateUser inserts u, assigning its ID.
	// Returns ErrUsernameTaken if the username is already in use.
	CreateUser(ctx context.Context, u *model.User) error

	// FindByUsername returns the user including its password hash.
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// FindByID returns the user including its password hash.
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindRole reads only the level column of a user.
	FindRole(ctx context.Context, id string) (role.Role, error)

	// FindAccess reads the level and is_active columns of a user in one
	// row lookup.
	FindAccess(ctx context.Context, id string) (role.Role, bool, error)

	// IsActive reads only the is_active column of a user.
	IsActive(ctx context.Context, id string) (bool, error)

	// UpdatePassword replaces the stored hash.
	UpdatePassword(ctx context.Context, id, hash string) error

	// SetRole changes the level of the named user.
	SetRole(ctx context.Context, username string, level role.Role) error

	// SetActive enables or disables the named user.
	SetActive(ctx context.Context, username string, active bool) error
}

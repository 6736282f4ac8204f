package seed

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/blog-in-go/pkg/model"
	"github.com/doodlesbykumbi/blog-in-go/pkg/role"
	gormstore "github.com/doodlesbykumbi/blog-in-go/pkg/server/store/gorm"
)

// Ensure GormStore implements Store
var _ Store = (*GormStore)(nil)

// GormStore implements Store on top of the server's gorm stores.
type GormStore struct {
	db    *gorm.DB
	users *gormstore.UsersStore
	blogs *gormstore.BlogsStore
}

// NewGormStore creates a new GormStore.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db:    db,
		users: gormstore.NewUsersStore(db),
		blogs: gormstore.NewBlogsStore(db),
	}
}

// Transaction wraps operations in a database transaction.
func (s *GormStore) Transaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormStore(tx))
	})
}

func (s *GormStore) FindUser(ctx context.Context, username string) (*model.User, error) {
	return s.users.FindByUsername(ctx, username)
}

func (s *GormStore) CreateUser(ctx context.Context, u *model.User) error {
	return s.users.CreateUser(ctx, u)
}

func (s *GormStore) UpdateUser(ctx context.Context, username string, level *role.Role, active *bool) error {
	if level != nil {
		if err := s.users.SetRole(ctx, username, *level); err != nil {
			return err
		}
	}
	if active != nil {
		if err := s.users.SetActive(ctx, username, *active); err != nil {
			return err
		}
	}
	return nil
}

func (s *GormStore) BlogExists(ctx context.Context, authorID, title string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.Blog{}).
		Where("author_id = ? AND title = ?", authorID, title).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to look up blog %q: %w", title, err)
	}
	return count > 0, nil
}

func (s *GormStore) CreateBlog(ctx context.Context, b *model.Blog) error {
	if err := s.blogs.CreateBlog(ctx, b); err != nil {
		return fmt.Errorf("failed to create blog %q: %w", b.Title, err)
	}
	return nil
}

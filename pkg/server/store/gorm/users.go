package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/blog-in-go/pkg/model"
	"github.com/doodlesbykumbi/blog-in-go/pkg/role"
	"github.com/doodlesbykumbi/blog-in-go/pkg/server/store"
)

// Ensure UsersStore implements store.UsersStore
var _ store.UsersStore = (*UsersStore)(nil)

// UsersStore implements store.UsersStore using GORM
type UsersStore struct {
	db *gorm.DB
}

// NewUsersStore creates a new UsersStore
func NewUsersStore(db *gorm.DB) *UsersStore {
	return &UsersStore{db: db}
}

// CreateUser inserts a user. The unique index on username is the final
// arbiter of uniqueness.
func (s *UsersStore) CreateUser(ctx context.Context, u *model.User) error {
	err := s.db.WithContext(ctx).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return store.ErrUsernameTaken
	}
	return err
}

// FindByUsername returns the user with the given username
func (s *UsersStore) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	err := s.db.WithContext(ctx).Where("username = ?", username).Take(&u).Error
	if err != nil {
		return nil, notFound(err, store.ErrUserNotFound)
	}
	return &u, nil
}

// FindByID returns the user with the given id
func (s *UsersStore) FindByID(ctx context.Context, id string) (*model.User, error) {
	if !validID(id) {
		return nil, store.ErrUserNotFound
	}
	var u model.User
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&u).Error
	if err != nil {
		return nil, notFound(err, store.ErrUserNotFound)
	}
	return &u, nil
}

// FindRole reads the level column only
func (s *UsersStore) FindRole(ctx context.Context, id string) (role.Role, error) {
	if !validID(id) {
		return role.Guest, store.ErrUserNotFound
	}
	var u model.User
	err := s.db.WithContext(ctx).Model(&model.User{}).Select("level").Where("id = ?", id).Take(&u).Error
	if err != nil {
		return role.Guest, notFound(err, store.ErrUserNotFound)
	}
	return u.Level, nil
}

// FindAccess reads the level and is_active columns
func (s *UsersStore) FindAccess(ctx context.Context, id string) (role.Role, bool, error) {
	if !validID(id) {
		return role.Guest, false, store.ErrUserNotFound
	}
	var u model.User
	err := s.db.WithContext(ctx).Model(&model.User{}).Select("level", "is_active").Where("id = ?", id).Take(&u).Error
	if err != nil {
		return role.Guest, false, notFound(err, store.ErrUserNotFound)
	}
	return u.Level, u.IsActive, nil
}

// IsActive reads the is_active column only
func (s *UsersStore) IsActive(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, store.ErrUserNotFound
	}
	var u model.User
	err := s.db.WithContext(ctx).Model(&model.User{}).Select("is_active").Where("id = ?", id).Take(&u).Error
	if err != nil {
		return false, notFound(err, store.ErrUserNotFound)
	}
	return u.IsActive, nil
}

// UpdatePassword stores a new password hash
func (s *UsersStore) UpdatePassword(ctx context.Context, id, hash string) error {
	if !validID(id) {
		return store.ErrUserNotFound
	}
	return s.updateOne(ctx, "id = ?", id, "password", hash)
}

// SetRole changes the level of a user
func (s *UsersStore) SetRole(ctx context.Context, username string, level role.Role) error {
	return s.updateOne(ctx, "username = ?", username, "level", level)
}

// SetActive enables or disables a user
func (s *UsersStore) SetActive(ctx context.Context, username string, active bool) error {
	return s.updateOne(ctx, "username = ?", username, "is_active", active)
}

func (s *UsersStore) updateOne(ctx context.Context, where string, key string, column string, value interface{}) error {
	tx := s.db.WithContext(ctx).Model(&model.User{}).Where(where, key).Update(column, value)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrUserNotFound
	}
	return nil
}

// validID filters out ids postgres would reject as uuid input
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func notFound(err error, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

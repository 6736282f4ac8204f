package endpoints

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/doodlesbykumbi/blog-in-go/pkg/model"
	"github.com/doodlesbykumbi/blog-in-go/pkg/role"
	"github.com/doodlesbykumbi/blog-in-go/pkg/server/store"
)

// MockUsersStore implements store.UsersStore for testing using testify/mock
type MockUsersStore struct {
	mock.Mock
}

func (m *MockUsersStore) CreateUser(ctx context.Context, u *model.User) error {
	args := m.Called(u)
	if args.Error(0) == nil && u.ID == "" {
		u.ID = "generated-id"
	}
	return args.Error(0)
}

func (m *MockUsersStore) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUsersStore) FindByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUsersStore) FindRole(ctx context.Context, id string) (role.Role, error) {
	args := m.Called(id)
	return args.Get(0).(role.Role), args.Error(1)
}

func (m *MockUsersStore) FindAccess(ctx context.Context, id string) (role.Role, bool, error) {
	args := m.Called(id)
	return args.Get(0).(role.Role), args.Bool(1), args.Error(2)
}

func (m *MockUsersStore) IsActive(ctx context.Context, id string) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *MockUsersStore) UpdatePassword(ctx context.Context, id, hash string) error {
	args := m.Called(id, hash)
	return args.Error(0)
}

func (m *MockUsersStore) SetRole(ctx context.Context, username string, level role.Role) error {
	args := m.Called(username, level)
	return args.Error(0)
}

func (m *MockUsersStore) SetActive(ctx context.Context, username string, active bool) error {
	args := m.Called(username, active)
	return args.Error(0)
}

// MockBlogsStore implements store.BlogsStore for testing using testify/mock
type MockBlogsStore struct {
	mock.Mock
}

func (m *MockBlogsStore) ListBlogs(ctx context.Context, filter store.BlogFilter) ([]model.Blog, int64, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Blog), args.Get(1).(int64), args.Error(2)
}

func (m *MockBlogsStore) FindBlog(ctx context.Context, id string) (*model.Blog, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Blog), args.Error(1)
}

func (m *MockBlogsStore) CreateBlog(ctx context.Context, b *model.Blog) error {
	args := m.Called(b)
	if args.Error(0) == nil && b.ID == "" {
		b.ID = "new-blog"
	}
	return args.Error(0)
}

func (m *MockBlogsStore) UpdateBlog(ctx context.Context, id string, patch store.BlogPatch) (*model.Blog, error) {
	args := m.Called(id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Blog), args.Error(1)
}

func (m *MockBlogsStore) DeleteBlog(ctx context.Context, id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockHealthStore implements store.HealthStore for testing using testify/mock
type MockHealthStore struct {
	mock.Mock
}

func (m *MockHealthStore) CheckConnectivity(ctx context.Context) error {
	args := m.Called()
	return args.Error(0)
}

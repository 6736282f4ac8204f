package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/doodlesbykumbi/blog-in-go/pkg/apperr"
	"github.com/doodlesbykumbi/blog-in-go/pkg/model"
	"github.com/doodlesbykumbi/blog-in-go/pkg/role"
	"github.com/doodlesbykumbi/blog-in-go/pkg/server/store"
)

func newUserService(users *MockUsersStore) *UserService {
	return NewUserService(users, fakeTokens{ttl: 24 * time.Hour}, bcrypt.MinCost, nil)
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(b)
}

func assertKind(t *testing.T, err error, kind apperr.Kind, message string) {
	t.Helper()
	appErr, ok := apperr.As(err)
	require.True(t, ok, "expected *apperr.Error, got %v", err)
	assert.Equal(t, kind, appErr.Kind)
	if message != "" {
		assert.Equal(t, message, appErr.Message)
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		users := &MockUsersStore{}
		users.On("FindByUsername", "alice_01").Return(nil, store.ErrUserNotFound)
		users.On("CreateUser", mock.MatchedBy(func(u *model.User) bool {
			return u.Username == "alice_01" && u.Level == role.Normal && u.IsActive &&
				bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("secret1")) == nil
		})).Return(nil)

		u, err := newUserService(users).Register(ctx, RegisterInput{
			Username: "alice_01", Password: "secret1", ConfirmPassword: "secret1",
		})
		require.NoError(t, err)
		assert.Equal(t, "generated-id", u.ID)
		users.AssertExpectations(t)
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name string
			in   RegisterInput
			msg  string
		}{
			{"short username", RegisterInput{"abc", "secret1", "secret1"}, "username must be 4-20 letters, digits or underscores"},
			{"bad characters", RegisterInput{"al ice", "secret1", "secret1"}, "username must be 4-20 letters, digits or underscores"},
			{"long username", RegisterInput{"abcdefghijklmnopqrstu", "secret1", "secret1"}, "username must be 4-20 letters, digits or underscores"},
			{"short password", RegisterInput{"alice", "12345", "12345"}, "password must be at least 6 characters"},
			{"missing confirm", RegisterInput{"alice", "secret1", ""}, "confirmPassword is required"},
			{"mismatch", RegisterInput{"alice", "secret1", "secret2"}, "password and confirm password do not match"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				users := &MockUsersStore{}
				_, err := newUserService(users).Register(ctx, tt.in)
				assertKind(t, err, apperr.KindValidation, tt.msg)
				users.AssertNotCalled(t, "CreateUser", mock.Anything)
			})
		}
	})

	t.Run("existing username", func(t *testing.T) {
		users := &MockUsersStore{}
		users.On("FindByUsername", "alice").Return(&model.User{ID: "u1", Username: "alice"}, nil)

		_, err := newUserService(users).Register(ctx, RegisterInput{"alice", "secret1", "secret1"})
		assertKind(t, err, apperr.KindConflict, "username already exists")
	})

	t.Run("lost race on unique index", func(t *testing.T) {
		users := &MockUsersStore{}
		users.On("FindByUsername", "alice").Return(nil, store.ErrUserNotFound)
		users.On("CreateUser", mock.Anything).Return(store.ErrUsernameTaken)

		_, err := newUserService(users).Register(ctx, RegisterInput{"alice", "secret1", "secret1"})
		assertKind(t, err, apperr.KindConflict, "username already exists")
	})

	t.Run("store failure", func(t *testing.T) {
		users := &MockUsersStore{}
		users.On("FindByUsername", "alice").Return(nil, errors.New("db down"))

		_, err := newUserService(users).Register(ctx, RegisterInput{"alice", "secret1", "secret1"})
		assertKind(t, err, apperr.KindInternal, "")
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	alice := &model.User{ID: "u1", Username: "alice", Password: hashed(t, "secret1"), Level: role.VIP, IsActive: true}

	t.Run("success", func(t *testing.T) {
		users := &MockUsersStore{}
		users.On("FindByUsername", "alice").Return(alice, nil)

		res, err := newUserService(users).Login(ctx, LoginInput{"alice", "secret1"})
		require.NoError(t, err)
		assert.Equal(t, "token-for-u1", res.Token)
		assert.Equal(t, "24h", res.ExpiresIn)
		assert.Equal(t, "alice", res.UserInfo.Username)
	})

	t.Run("unknown user", func(t *testing.T) {
		users := &MockUsersStore{}
		users.On("FindByUsername", "bob").Return(nil, store.ErrUserNotFound)

		_, err := newUserService(users).Login(ctx, LoginInput{"bob", "secret1"})
		assertKind(t, err, apperr.KindNotFound, "username or password error")
	})

	t.Run("wrong password", func(t *testing.T) {
		users := &MockUsersStore{}
		users.On("FindByUsername", "alice").Return(alice, nil)

		_, err := newUserService(users).Login(ctx, LoginInput{"alice", "wrong-password"})
		assertKind(t, err, apperr.KindNotFound, "username or password error")
	})

	t.Run("disabled account is checked before the password", func(t *testing.T) {
		disabled := *alice
		disabled.IsActive = false
		users := &MockUsersStore{}
		users.On("FindByUsername", "alice").Return(&disabled, nil)

		_, err := newUserService(users).Login(ctx, LoginInput{"alice", "wrong-password"})
		assertKind(t, err, apperr.KindForbidden, "account disabled")
	})

	t.Run("token failure", func(t *testing.T) {
		users := &MockUsersStore{}
		users.On("FindByUsername", "alice").Return(alice, nil)
		svc := NewUserService(users, fakeTokens{err: errors.New("boom")}, bcrypt.MinCost, nil)

		_, err := svc.Login(ctx, LoginInput{"alice", "secret1"})
		assertKind(t, err, apperr.KindInternal, "")
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := newUserService(&MockUsersStore{}).Login(ctx, LoginInput{Username: "alice"})
		assertKind(t, err, apperr.KindValidation, "password is required")
	})
}

func TestResetPassword(t *testing.T) {
	ctx := context.Background()
	alice := &model.User{ID: "u1", Username: "alice", Password: hashed(t, "secret1"), IsActive: true}

	t.Run("success", func(t *testing.T) {
		users := &MockUsersStore{}
		users.On("FindByID", "u1").Return(alice, nil)
		users.On("UpdatePassword", "u1", mock.MatchedBy(func(hash string) bool {
			return bcrypt.CompareHashAndPassword([]byte(hash), []byte("secret2")) == nil
		})).Return(nil)

		err := newUserService(users).ResetPassword(ctx, "u1", ResetPasswordInput{"secret1", "secret2", "secret2"})
		require.NoError(t, err)
		users.AssertExpectations(t)
	})

	tests := []struct {
		name string
		in   ResetPasswordInput
		kind apperr.Kind
		msg  string
	}{
		{"mismatched confirm", ResetPasswordInput{"secret1", "secret2", "secret3"}, apperr.KindValidation, "new password and confirm new password do not match"},
		{"same as old", ResetPasswordInput{"secret1", "secret1", "secret1"}, apperr.KindValidation, "new password must differ from old password"},
		{"short new password", ResetPasswordInput{"secret1", "12345", "12345"}, apperr.KindValidation, "newPassword must be at least 6 characters"},
		{"wrong old password", ResetPasswordInput{"nope123", "secret2", "secret2"}, apperr.KindValidation, "old password is incorrect"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &MockUsersStore{}
			users.On("FindByID", "u1").Return(alice, nil)

			err := newUserService(users).ResetPassword(ctx, "u1", tt.in)
			assertKind(t, err, tt.kind, tt.msg)
			users.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything)
		})
	}

	t.Run("user missing", func(t *testing.T) {
		users := &MockUsersStore{}
		users.On("FindByID", "gone").Return(nil, store.ErrUserNotFound)

		err := newUserService(users).ResetPassword(ctx, "gone", ResetPasswordInput{"secret1", "secret2", "secret2"})
		assertKind(t, err, apperr.KindNotFound, "user not found")
	})
}

func TestInfo(t *testing.T) {
	ctx := context.Background()

	users := &MockUsersStore{}
	users.On("FindByID", "u1").Return(&model.User{ID: "u1", Username: "alice", Level: role.Admin, IsActive: true}, nil)
	users.On("FindByID", "gone").Return(nil, store.ErrUserNotFound)
	svc := newUserService(users)

	p, err := svc.Info(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Administrator", p.LevelName)
	assert.Equal(t, "alice", p.Username)

	_, err = svc.Info(ctx, "gone")
	assertKind(t, err, apperr.KindNotFound, "user not found")
}

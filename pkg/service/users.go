package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/doodlesbykumbi/blog-in-go/pkg/apperr"
	"github.com/doodlesbykumbi/blog-in-go/pkg/metrics"
	"github.com/doodlesbykumbi/blog-in-go/pkg/model"
	"github.com/doodlesbykumbi/blog-in-go/pkg/role"
	"github.com/doodlesbykumbi/blog-in-go/pkg/server/store"
	"github.com/doodlesbykumbi/blog-in-go/pkg/token"
)

const msgBadCredentials = "username or password error"

// TokenIssuer mints session tokens for a user id
type TokenIssuer interface {
	Issue(subject string) (string, error)
	TTL() time.Duration
}

// RegisterInput is the body of POST /user/register
type RegisterInput struct {
	Username        string `json:"username" validate:"required,username"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// LoginInput is the body of POST /user/login
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ResetPasswordInput is the body of PUT /user/reset-pwd
type ResetPasswordInput struct {
	OldPassword        string `json:"oldPassword" validate:"required"`
	NewPassword        string `json:"newPassword" validate:"required,min=6"`
	ConfirmNewPassword string `json:"confirmNewPassword" validate:"required"`
}

// LoginResult is returned by a successful login
type LoginResult struct {
	UserInfo  *model.User `json:"userInfo"`
	Token     string      `json:"token"`
	ExpiresIn string      `json:"expiresIn"`
}

// Profile is a user as shown by GET /user/info
type Profile struct {
	*model.User
	LevelName string `json:"levelName"`
}

// UserService handles accounts and sessions
type UserService struct {
	users      store.UsersStore
	tokens     TokenIssuer
	bcryptCost int
	logger     *zap.Logger
}

// NewUserService creates a UserService. A zero bcryptCost means
// bcrypt.DefaultCost.
func NewUserService(users store.UsersStore, tokens TokenIssuer, bcryptCost int, logger *zap.Logger) *UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     logger.Named("UserService"),
	}
}

// Register creates a Normal, active account
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	log := s.logger.With(zap.String("username", in.Username))

	if err := validateStruct(in); err != nil {
		metrics.AuthEvent(metrics.EventRegister, "invalid")
		return nil, err
	}
	if in.Password != in.ConfirmPassword {
		metrics.AuthEvent(metrics.EventRegister, "invalid")
		return nil, apperr.Validation("password and confirm password do not match")
	}

	_, err := s.users.FindByUsername(ctx, in.Username)
	switch {
	case err == nil:
		log.Warn("Registration attempt for existing username")
		metrics.AuthEvent(metrics.EventRegister, "conflict")
		return nil, apperr.Conflict("username already exists")
	case !errors.Is(err, store.ErrUserNotFound):
		log.Error("Error checking existing username", zap.Error(err))
		return nil, apperr.Internal("failed to register user", err)
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return nil, apperr.Internal("failed to register user", err)
	}

	user := &model.User{
		Username: in.Username,
		Password: hash,
		Level:    role.Normal,
		IsActive: true,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrUsernameTaken) {
			metrics.AuthEvent(metrics.EventRegister, "conflict")
			return nil, apperr.Conflict("username already exists")
		}
		log.Error("Failed to create user", zap.Error(err))
		return nil, apperr.Internal("failed to register user", err)
	}

	metrics.AuthEvent(metrics.EventRegister, "success")
	log.Info("User registered", zap.String("user_id", user.ID))
	return user, nil
}

// Login checks credentials and issues a session token
func (s *UserService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	log := s.logger.With(zap.String("username", in.Username))

	if err := validateStruct(in); err != nil {
		return nil, err
	}

	user, err := s.users.FindByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Warn("Login failed: user not found")
			metrics.AuthEvent(metrics.EventLogin, "bad_credentials")
			return nil, apperr.NotFound(msgBadCredentials)
		}
		log.Error("Login failed: error getting user", zap.Error(err))
		return nil, apperr.Internal("failed to log in", err)
	}

	if !user.IsActive {
		log.Warn("Login failed: account disabled", zap.String("user_id", user.ID))
		metrics.AuthEvent(metrics.EventLogin, "disabled")
		return nil, apperr.Forbidden("account disabled")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)) != nil {
		log.Warn("Login failed: invalid password", zap.String("user_id", user.ID))
		metrics.AuthEvent(metrics.EventLogin, "bad_credentials")
		return nil, apperr.NotFound(msgBadCredentials)
	}

	raw, err := s.tokens.Issue(user.ID)
	if err != nil {
		log.Error("Failed to issue token", zap.Error(err))
		return nil, apperr.Internal("failed to log in", err)
	}

	metrics.AuthEvent(metrics.EventLogin, "success")
	log.Info("User logged in", zap.String("user_id", user.ID))
	return &LoginResult{
		UserInfo:  user,
		Token:     raw,
		ExpiresIn: token.FormatTTL(s.tokens.TTL()),
	}, nil
}

// ResetPassword replaces the caller's password after checking the old one
func (s *UserService) ResetPassword(ctx context.Context, userID string, in ResetPasswordInput) error {
	log := s.logger.With(zap.String("user_id", userID))

	if err := validateStruct(in); err != nil {
		return err
	}
	if in.NewPassword != in.ConfirmNewPassword {
		return apperr.Validation("new password and confirm new password do not match")
	}
	if in.NewPassword == in.OldPassword {
		return apperr.Validation("new password must differ from old password")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return apperr.NotFound("user not found")
		}
		return apperr.Internal("failed to reset password", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.OldPassword)) != nil {
		log.Warn("Password reset with wrong old password")
		metrics.AuthEvent(metrics.EventResetPassword, "bad_credentials")
		return apperr.Validation("old password is incorrect")
	}

	hash, err := s.hash(in.NewPassword)
	if err != nil {
		return apperr.Internal("failed to reset password", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return apperr.NotFound("user not found")
		}
		log.Error("Failed to store password", zap.Error(err))
		return apperr.Internal("failed to reset password", err)
	}

	metrics.AuthEvent(metrics.EventResetPassword, "success")
	log.Info("Password reset")
	return nil
}

// Info returns the caller's profile
func (s *UserService) Info(ctx context.Context, userID string) (*Profile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal("failed to load user", err)
	}
	return &Profile{User: user, LevelName: user.Level.DisplayName()}, nil
}

func (s *UserService) hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

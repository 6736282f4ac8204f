package seed

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/doodlesbykumbi/blog-in-go/pkg/model"
	"github.com/doodlesbykumbi/blog-in-go/pkg/role"
	"github.com/doodlesbykumbi/blog-in-go/pkg/server/store"
	"github.com/doodlesbykumbi/blog-in-go/pkg/service"
)

const minPasswordLength = 6

var errDryRun = errors.New("dry run")

// Result describes what a load did, or would do for a dry run.
type Result struct {
	Created []CreatedUser `json:"created"`
	Updated []string      `json:"updated"`
	Blogs   []string      `json:"blogs"`
	Skipped []string      `json:"skipped"`
	DryRun  bool          `json:"dryRun"`
}

// CreatedUser is a new account. Password is set only when it was generated.
type CreatedUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
}

// Loader applies seed statements to a Store.
type Loader struct {
	seed       Store
	bcryptCost int
	dryRun     bool
	lookupEnv  func(string) (string, bool)
	logger     *zap.Logger
}

// NewLoader creates a new seed loader.
func NewLoader(s Store) *Loader {
	return &Loader{
		seed:       s,
		bcryptCost: bcrypt.DefaultCost,
		lookupEnv:  os.LookupEnv,
		logger:     zap.NewNop(),
	}
}

// WithDryRun sets whether to validate only without applying changes.
func (l *Loader) WithDryRun(dryRun bool) *Loader {
	l.dryRun = dryRun
	return l
}

// WithBcryptCost sets the cost used to hash seeded passwords.
func (l *Loader) WithBcryptCost(cost int) *Loader {
	if cost != 0 {
		l.bcryptCost = cost
	}
	return l
}

// WithLookupEnv replaces the function used to resolve password_env.
func (l *Loader) WithLookupEnv(fn func(string) (string, bool)) *Loader {
	l.lookupEnv = fn
	return l
}

func (l *Loader) WithLogger(logger *zap.Logger) *Loader {
	if logger != nil {
		l.logger = logger.Named("seed")
	}
	return l
}

// LoadFromReader parses and loads a seed document.
func (l *Loader) LoadFromReader(ctx context.Context, r io.Reader) (*Result, error) {
	statements, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}
	return l.Load(ctx, statements)
}

// LoadFromString parses and loads a seed document held in a string.
func (l *Loader) LoadFromString(ctx context.Context, text string) (*Result, error) {
	return l.LoadFromReader(ctx, strings.NewReader(text))
}

// Load validates every statement, then applies users, grants and blogs in
// that order inside one transaction. A dry run rolls the transaction back.
func (l *Loader) Load(ctx context.Context, statements Statements) (*Result, error) {
	p, err := l.plan(statements)
	if err != nil {
		return nil, err
	}

	result := &Result{DryRun: l.dryRun}
	err = l.seed.Transaction(ctx, func(tx Store) error {
		for _, u := range p.users {
			if err := l.loadUser(ctx, tx, u, result); err != nil {
				return err
			}
		}
		for _, g := range p.grants {
			level := g.level
			if err := tx.UpdateUser(ctx, g.username, &level, nil); err != nil {
				if errors.Is(err, store.ErrUserNotFound) {
					return fmt.Errorf("grant: user %q does not exist", g.username)
				}
				return fmt.Errorf("grant to %q failed: %w", g.username, err)
			}
			l.logger.Info("Seed role granted", zap.String("username", g.username), zap.Stringer("role", g.level))
		}
		for _, b := range p.blogs {
			if err := l.loadBlog(ctx, tx, b, result); err != nil {
				return err
			}
		}

		if l.dryRun {
			return errDryRun
		}
		return nil
	})
	if err != nil && !(l.dryRun && errors.Is(err, errDryRun)) {
		return nil, err
	}
	return result, nil
}

func (l *Loader) loadUser(ctx context.Context, tx Store, u plannedUser, result *Result) error {
	existing, err := tx.FindUser(ctx, u.username)
	switch {
	case err == nil:
		if err := tx.UpdateUser(ctx, u.username, u.level, u.active); err != nil {
			return fmt.Errorf("failed to update user %q: %w", u.username, err)
		}
		result.Updated = append(result.Updated, existing.Username)
		l.logger.Info("Seed user updated", zap.String("username", u.username))
		return nil
	case !errors.Is(err, store.ErrUserNotFound):
		return fmt.Errorf("failed to look up user %q: %w", u.username, err)
	}

	password, generated := u.password, false
	if password == "" {
		password, err = generatePassword()
		if err != nil {
			return err
		}
		generated = true
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), l.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password for %q: %w", u.username, err)
	}

	user := &model.User{
		Username: u.username,
		Password: string(hash),
		Level:    role.Normal,
		IsActive: true,
	}
	if u.level != nil {
		user.Level = *u.level
	}
	if u.active != nil {
		user.IsActive = *u.active
	}
	if err := tx.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to create user %q: %w", u.username, err)
	}

	created := CreatedUser{ID: user.ID, Username: user.Username}
	if generated {
		created.Password = password
	}
	result.Created = append(result.Created, created)
	l.logger.Info("Seed user created", zap.String("username", u.username), zap.String("user_id", user.ID))
	return nil
}

func (l *Loader) loadBlog(ctx context.Context, tx Store, b plannedBlog, result *Result) error {
	author, err := tx.FindUser(ctx, b.author)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return fmt.Errorf("blog %q: author %q does not exist", b.blog.Title, b.author)
		}
		return fmt.Errorf("failed to look up author %q: %w", b.author, err)
	}

	exists, err := tx.BlogExists(ctx, author.ID, b.blog.Title)
	if err != nil {
		return err
	}
	if exists {
		result.Skipped = append(result.Skipped, b.blog.Title)
		return nil
	}

	blog := b.blog
	blog.AuthorID = author.ID
	if err := tx.CreateBlog(ctx, &blog); err != nil {
		return err
	}
	result.Blogs = append(result.Blogs, blog.ID)
	l.logger.Info("Seed blog created", zap.String("blog_id", blog.ID), zap.String("author", b.author))
	return nil
}

type plannedUser struct {
	username string
	password string
	level    *role.Role
	active   *bool
}

type plannedGrant struct {
	username string
	level    role.Role
}

type plannedBlog struct {
	author string
	blog   model.Blog
}

type seedPlan struct {
	users  []plannedUser
	grants []plannedGrant
	blogs  []plannedBlog
}

// plan checks every statement before anything is written.
func (l *Loader) plan(statements Statements) (*seedPlan, error) {
	p := &seedPlan{}
	seen := map[string]bool{}

	for i, stmt := range statements {
		errorf := func(format string, args ...interface{}) error {
			return fmt.Errorf("statement %d (%s): %s", i+1, stmt.Kind().Tag(), fmt.Sprintf(format, args...))
		}

		switch s := stmt.(type) {
		case User:
			if !service.ValidUsername(s.Username) {
				return nil, errorf("username %q must be 4-20 letters, digits or underscores", s.Username)
			}
			if seen[s.Username] {
				return nil, errorf("user %q is defined twice", s.Username)
			}
			seen[s.Username] = true

			u := plannedUser{username: s.Username, password: s.Password, active: s.Active}
			if u.password == "" && s.PasswordEnv != "" {
				value, ok := l.lookupEnv(s.PasswordEnv)
				if !ok || value == "" {
					return nil, errorf("environment variable %s is not set", s.PasswordEnv)
				}
				u.password = value
			}
			if u.password != "" && len(u.password) < minPasswordLength {
				return nil, errorf("password for %q must be at least %d characters", s.Username, minPasswordLength)
			}
			if s.Role != "" {
				level, err := role.Parse(s.Role)
				if err != nil {
					return nil, errorf("%v", err)
				}
				u.level = &level
			}
			p.users = append(p.users, u)

		case Grant:
			if s.User == "" {
				return nil, errorf("user is required")
			}
			level, err := role.Parse(s.Role)
			if err != nil {
				return nil, errorf("%v", err)
			}
			p.grants = append(p.grants, plannedGrant{username: s.User, level: level})

		case Blog:
			if strings.TrimSpace(s.Title) == "" {
				return nil, errorf("title is required")
			}
			if len(s.Title) > 255 {
				return nil, errorf("title must be at most 255 characters")
			}
			if strings.TrimSpace(s.Content) == "" {
				return nil, errorf("content is required")
			}
			if s.Author == "" {
				return nil, errorf("author is required")
			}
			status, err := parseStatus(s.Status)
			if err != nil {
				return nil, errorf("%v", err)
			}

			blog := model.Blog{Title: s.Title, Content: s.Content, Status: status}
			if s.CoverURL != "" {
				cover := s.CoverURL
				blog.CoverURL = &cover
			}
			p.blogs = append(p.blogs, plannedBlog{author: s.Author, blog: blog})

		default:
			return nil, errorf("unsupported statement %T", stmt)
		}
	}
	return p, nil
}

// parseStatus accepts a status label or number. Empty means draft.
func parseStatus(raw string) (model.BlogStatus, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return model.StatusDraft, nil
	}
	for _, s := range []model.BlogStatus{model.StatusDraft, model.StatusPublished, model.StatusUnpublished} {
		if raw == s.Label() {
			return s, nil
		}
	}
	if n, err := strconv.Atoi(raw); err == nil && model.BlogStatus(n).Valid() {
		return model.BlogStatus(n), nil
	}
	return 0, fmt.Errorf("unknown status %q, expected draft, published or unpublished", raw)
}

// generatePassword returns a random URL-safe password.
func generatePassword() (string, error) {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate password: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

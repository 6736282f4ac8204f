package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/doodlesbykumbi/blog-in-go/pkg/apperr"
	"github.com/doodlesbykumbi/blog-in-go/pkg/metrics"
	"github.com/doodlesbykumbi/blog-in-go/pkg/model"
	"github.com/doodlesbykumbi/blog-in-go/pkg/render"
	"github.com/doodlesbykumbi/blog-in-go/pkg/role"
	"github.com/doodlesbykumbi/blog-in-go/pkg/server/store"
)

const msgBadStatus = "invalid status, supported values: 0-draft 1-published 2-unpublished"

// ListBlogsQuery holds the raw query values of GET /blog
type ListBlogsQuery struct {
	Page    string
	Size    string
	Keyword string
	Status  string
}

// BlogPage is one page of the blog listing
type BlogPage struct {
	Page[model.Blog]
	TotalPages int `json:"totalPages"`
}

// BlogView is a blog with its optional rendered content
type BlogView struct {
	*model.Blog
	ContentHTML string `json:"contentHtml,omitempty"`
}

// CreateBlogInput is the body of POST /blog
type CreateBlogInput struct {
	Title    string            `json:"title" validate:"required,max=255"`
	Content  string            `json:"content" validate:"required"`
	CoverURL *string           `json:"coverUrl"`
	Status   *model.BlogStatus `json:"status"`
}

// UpdateBlogInput is the body of PUT /blog/{id}. Omitted fields are kept.
type UpdateBlogInput struct {
	Title    *string           `json:"title" validate:"omitnil,max=255"`
	Content  *string           `json:"content"`
	CoverURL *string           `json:"coverUrl"`
	Status   *model.BlogStatus `json:"status"`
}

// DeletedBlog is returned by a successful delete
type DeletedBlog struct {
	ID string `json:"id"`
}

// StatusChange is returned by a status change
type StatusChange struct {
	ID     string           `json:"id"`
	Status model.BlogStatus `json:"status"`
	// Message is the human readable outcome
	Message string `json:"-"`
}

// BlogService handles blog posts
type BlogService struct {
	blogs  store.BlogsStore
	users  store.UsersStore
	logger *zap.Logger
}

// NewBlogService creates a BlogService
func NewBlogService(blogs store.BlogsStore, users store.UsersStore, logger *zap.Logger) *BlogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BlogService{blogs: blogs, users: users, logger: logger.Named("BlogService")}
}

// List returns one page of blogs, newest first
func (s *BlogService) List(ctx context.Context, q ListBlogsQuery) (*BlogPage, error) {
	p, err := ParsePagination(q.Page, q.Size)
	if err != nil {
		return nil, err
	}

	filter := store.BlogFilter{
		Keyword: strings.TrimSpace(q.Keyword),
		Offset:  p.Offset(),
		Limit:   p.Size,
	}
	if strings.TrimSpace(q.Status) != "" {
		status, err := ParseStatus(q.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = &status
	}

	blogs, total, err := s.blogs.ListBlogs(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list blogs", zap.Error(err))
		return nil, apperr.Internal("failed to list blogs", err)
	}

	return &BlogPage{
		Page: Page[model.Blog]{
			List:  blogs,
			Total: total,
			Page:  p.Page,
			Size:  p.Size,
		},
		TotalPages: p.TotalPages(total),
	}, nil
}

// Get returns one blog. When renderHTML is set the markdown content is
// rendered into ContentHTML.
func (s *BlogService) Get(ctx context.Context, id string, renderHTML bool) (*BlogView, error) {
	blog, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	view := &BlogView{Blog: blog}
	if renderHTML {
		html, err := render.Markdown(blog.Content)
		if err != nil {
			return nil, apperr.Internal("failed to render blog", err)
		}
		view.ContentHTML = html
	}
	return view, nil
}

// Create stores a new blog written by authorID
func (s *BlogService) Create(ctx context.Context, authorID string, in CreateBlogInput) (*model.Blog, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperr.Validation("title is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, apperr.Validation("content is required")
	}

	status := model.StatusDraft
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, apperr.Validation(msgBadStatus)
		}
		status = *in.Status
	}

	blog := &model.Blog{
		Title:    in.Title,
		Content:  in.Content,
		AuthorID: authorID,
		CoverURL: in.CoverURL,
		Status:   status,
	}
	if err := s.blogs.CreateBlog(ctx, blog); err != nil {
		s.logger.Error("Failed to create blog", zap.String("author_id", authorID), zap.Error(err))
		return nil, apperr.Internal("failed to create blog", err)
	}

	metrics.Post(metrics.PostCreated)
	s.logger.Info("Blog created", zap.String("blog_id", blog.ID), zap.String("author_id", authorID))
	return blog, nil
}

// Update applies a partial update. Only the author or a caller whose stored
// role is Admin or above may update.
func (s *BlogService) Update(ctx context.Context, callerID, id string, in UpdateBlogInput) (*model.Blog, error) {
	blog, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if blog.AuthorID != callerID {
		level, err := s.users.FindRole(ctx, callerID)
		if err != nil && !errors.Is(err, store.ErrUserNotFound) {
			return nil, apperr.Internal("failed to update blog", err)
		}
		if err != nil || !level.AtLeast(role.Admin) {
			return nil, apperr.Forbidden("no permission to update (author or administrator only)")
		}
	}

	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return nil, apperr.Validation("title must not be empty")
	}
	if in.Content != nil && strings.TrimSpace(*in.Content) == "" {
		return nil, apperr.Validation("content must not be empty")
	}
	if in.Status != nil && !in.Status.Valid() {
		return nil, apperr.Validation(msgBadStatus)
	}

	updated, err := s.blogs.UpdateBlog(ctx, id, store.BlogPatch{
		Title:    in.Title,
		Content:  in.Content,
		CoverURL: in.CoverURL,
		Status:   in.Status,
	})
	if err != nil {
		if errors.Is(err, store.ErrBlogNotFound) {
			return nil, apperr.NotFound("blog not found")
		}
		s.logger.Error("Failed to update blog", zap.String("blog_id", id), zap.Error(err))
		return nil, apperr.Internal("failed to update blog", err)
	}

	metrics.Post(metrics.PostUpdated)
	s.logger.Info("Blog updated", zap.String("blog_id", id), zap.String("caller_id", callerID))
	return updated, nil
}

// Delete removes a blog
func (s *BlogService) Delete(ctx context.Context, id string) (*DeletedBlog, error) {
	if _, err := s.find(ctx, id); err != nil {
		return nil, err
	}

	if err := s.blogs.DeleteBlog(ctx, id); err != nil {
		if errors.Is(err, store.ErrBlogNotFound) {
			return nil, apperr.NotFound("blog not found")
		}
		s.logger.Error("Failed to delete blog", zap.String("blog_id", id), zap.Error(err))
		return nil, apperr.Internal("failed to delete blog", err)
	}

	metrics.Post(metrics.PostDeleted)
	s.logger.Info("Blog deleted", zap.String("blog_id", id))
	return &DeletedBlog{ID: id}, nil
}

// SetStatus moves a blog to the given status. rawStatus is the query value.
func (s *BlogService) SetStatus(ctx context.Context, id, rawStatus string) (*StatusChange, error) {
	blog, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	status, err := ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	if blog.Status == status {
		return &StatusChange{
			ID:      id,
			Status:  status,
			Message: fmt.Sprintf("blog is already %s", status.Label()),
		}, nil
	}

	if _, err := s.blogs.UpdateBlog(ctx, id, store.BlogPatch{Status: &status}); err != nil {
		if errors.Is(err, store.ErrBlogNotFound) {
			return nil, apperr.NotFound("blog not found")
		}
		s.logger.Error("Failed to change blog status", zap.String("blog_id", id), zap.Error(err))
		return nil, apperr.Internal("failed to change blog status", err)
	}

	metrics.Post(metrics.PostStatusChanged)
	s.logger.Info("Blog status changed",
		zap.String("blog_id", id),
		zap.String("from", blog.Status.Label()),
		zap.String("to", status.Label()),
	)
	return &StatusChange{
		ID:      id,
		Status:  status,
		Message: fmt.Sprintf("blog status updated to %s", status.Label()),
	}, nil
}

func (s *BlogService) find(ctx context.Context, id string) (*model.Blog, error) {
	blog, err := s.blogs.FindBlog(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrBlogNotFound) {
			return nil, apperr.NotFound("blog not found")
		}
		s.logger.Error("Failed to load blog", zap.String("blog_id", id), zap.Error(err))
		return nil, apperr.Internal("failed to load blog", err)
	}
	return blog, nil
}

// ParseStatus converts a status query value
func ParseStatus(raw string) (model.BlogStatus, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, apperr.Validation(msgBadStatus)
	}
	status := model.BlogStatus(n)
	if !status.Valid() {
		return 0, apperr.Validation(msgBadStatus)
	}
	return status, nil
}

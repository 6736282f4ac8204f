package gorm

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/blog-in-go/pkg/model"
	"github.com/doodlesbykumbi/blog-in-go/pkg/server/store"
)

// Ensure BlogsStore implements store.BlogsStore
var _ store.BlogsStore = (*BlogsStore)(nil)

// BlogsStore implements store.BlogsStore using GORM
type BlogsStore struct {
	db *gorm.DB
}

// NewBlogsStore creates a new BlogsStore
func NewBlogsStore(db *gorm.DB) *BlogsStore {
	return &BlogsStore{db: db}
}

// ListBlogs returns a page of blogs ordered by creation time, newest first
func (s *BlogsStore) ListBlogs(ctx context.Context, filter store.BlogFilter) ([]model.Blog, int64, error) {
	var total int64
	if err := s.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	blogs := []model.Blog{}
	err := s.filtered(ctx, filter).
		Order("create_time DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&blogs).Error
	if err != nil {
		return nil, 0, err
	}
	return blogs, total, nil
}

// likeEscaper makes LIKE wildcards in a keyword match literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (s *BlogsStore) filtered(ctx context.Context, filter store.BlogFilter) *gorm.DB {
	db := s.db.WithContext(ctx).Model(&model.Blog{})
	if filter.Keyword != "" {
		db = db.Where(`title LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(filter.Keyword)+"%")
	}
	if filter.Status != nil {
		db = db.Where("status = ?", *filter.Status)
	}
	return db
}

// FindBlog returns the blog with the given id
func (s *BlogsStore) FindBlog(ctx context.Context, id string) (*model.Blog, error) {
	if !validID(id) {
		return nil, store.ErrBlogNotFound
	}
	var b model.Blog
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&b).Error; err != nil {
		return nil, notFound(err, store.ErrBlogNotFound)
	}
	return &b, nil
}

// CreateBlog inserts a blog, assigning its ID
func (s *BlogsStore) CreateBlog(ctx context.Context, b *model.Blog) error {
	return s.db.WithContext(ctx).Create(b).Error
}

// UpdateBlog writes the non-nil patch fields and re-reads the row
func (s *BlogsStore) UpdateBlog(ctx context.Context, id string, patch store.BlogPatch) (*model.Blog, error) {
	if !validID(id) {
		return nil, store.ErrBlogNotFound
	}

	updates := map[string]interface{}{}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Content != nil {
		updates["content"] = *patch.Content
	}
	if patch.CoverURL != nil {
		updates["cover_url"] = *patch.CoverURL
	}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}

	if len(updates) > 0 {
		tx := s.db.WithContext(ctx).Model(&model.Blog{}).Where("id = ?", id).Updates(updates)
		if tx.Error != nil {
			return nil, tx.Error
		}
		if tx.RowsAffected == 0 {
			return nil, store.ErrBlogNotFound
		}
	}

	return s.FindBlog(ctx, id)
}

// DeleteBlog removes the blog with the given id
func (s *BlogsStore) DeleteBlog(ctx context.Context, id string) error {
	if !validID(id) {
		return store.ErrBlogNotFound
	}
	tx := s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Blog{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrBlogNotFound
	}
	return nil
}

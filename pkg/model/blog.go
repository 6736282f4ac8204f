package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BlogStatus is the publication state of a post.
type BlogStatus int

const (
	StatusDraft       BlogStatus = 0
	StatusPublished   BlogStatus = 1
	StatusUnpublished BlogStatus = 2
)

// Valid reports whether s is one of the known statuses.
func (s BlogStatus) Valid() bool {
	return s >= StatusDraft && s <= StatusUnpublished
}

// Label returns the status name used in API messages.
func (s BlogStatus) Label() string {
	switch s {
	case StatusDraft:
		return "draft"
	case StatusPublished:
		return "published"
	case StatusUnpublished:
		return "unpublished"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Blog is a post. AuthorID always comes from the authenticated caller.
type Blog struct {
	ID         string     `gorm:"type:uuid;primaryKey" json:"id"`
	Title      string     `gorm:"size:255;not null" json:"title"`
	Content    string     `gorm:"type:text;not null" json:"content"`
	AuthorID   string     `gorm:"type:uuid;not null;index" json:"authorId"`
	CoverURL   *string    `gorm:"size:1024" json:"coverUrl"`
	Status     BlogStatus `gorm:"not null" json:"status"`
	CreateTime time.Time  `gorm:"autoCreateTime;index" json:"createTime"`
	UpdateTime time.Time  `gorm:"autoUpdateTime" json:"updateTime"`
}

func (Blog) TableName() string {
	return "blogs"
}

func (b *Blog) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/blog-in-go/pkg/role"
)

// User is an account. Password holds the bcrypt hash and is never serialised.
type User struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	Username   string    `gorm:"size:20;uniqueIndex;not null" json:"username"`
	Password   string    `gorm:"not null" json:"-"`
	Level      role.Role `gorm:"not null" json:"level"`
	IsActive   bool      `gorm:"not null" json:"isActive"`
	CreateTime time.Time `gorm:"autoCreateTime" json:"createTime"`
	UpdateTime time.Time `gorm:"autoUpdateTime" json:"updateTime"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

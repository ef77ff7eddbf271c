package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tag 定义了标签模型，与文章通过 post_tags 多对多关联。
type Tag struct {
	ID        string `gorm:"type:varchar(36);primaryKey"`
	Name      string `gorm:"size:100;uniqueIndex;not null"`
	Slug      string `gorm:"size:120;uniqueIndex;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BeforeCreate 在插入前分配 UUID。
func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// Category 定义了分类模型，与文章通过 post_categories 多对多关联。
type Category struct {
	ID          string `gorm:"type:varchar(36);primaryKey"`
	Name        string `gorm:"size:100;uniqueIndex;not null"`
	Slug        string `gorm:"size:120;uniqueIndex;not null"`
	Description string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BeforeCreate 在插入前分配 UUID。
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

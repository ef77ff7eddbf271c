package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
)

// BlogPost 定义了自托管博客的文章模型。
// 作者信息直接冗余在文章行上，不关联独立的作者表。
type BlogPost struct {
	ID             string     `gorm:"type:varchar(36);primaryKey"`
	Title          string     `gorm:"not null"`
	Slug           string     `gorm:"size:255;uniqueIndex;not null"`
	Content        string     `gorm:"type:text"`
	Excerpt        string     `gorm:"type:text"`
	FeaturedImage  string     `gorm:"size:512"`
	AuthorName     string     `gorm:"size:120"`
	AuthorAvatar   string     `gorm:"size:512"`
	Status         string     `gorm:"size:20;index;not null;default:draft"`
	PublishedAt    *time.Time `gorm:"index"`
	SEOTitle       string     `gorm:"size:255"`
	SEODescription string     `gorm:"type:text"`
	SEOKeywords    datatypes.JSONSlice[string]
	ViewCount      int64      `gorm:"not null;default:0"`
	Categories     []Category `gorm:"many2many:post_categories;joinForeignKey:PostID;joinReferences:CategoryID;constraint:OnDelete:CASCADE"`
	Tags           []Tag      `gorm:"many2many:post_tags;joinForeignKey:PostID;joinReferences:TagID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName 指定自定义表名。
func (BlogPost) TableName() string {
	return "blog_posts"
}

// BeforeCreate 在插入前分配 UUID。
func (p *BlogPost) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// IsPublished reports whether the post is publicly visible.
func (p *BlogPost) IsPublished() bool {
	return p.Status == PostStatusPublished
}

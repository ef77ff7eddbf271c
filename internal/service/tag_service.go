package service

import (
	"context"
	"errors"
	"strings"

	"github.com/serpstrategist/site/internal/db"
	"gorm.io/gorm"
)

var (
	ErrTagExists       = errors.New("tag already exists")
	ErrTagNotFound     = errors.New("tag not found")
	ErrTagNameRequired = errors.New("tag name is required")
)

// TagService wraps tag related operations.
type TagService struct {
	db *gorm.DB
}

// TagUsage 描述标签被已发布文章引用的次数
type TagUsage struct {
	ID    string
	Name  string
	Slug  string
	Count int64
}

// NewTagService creates a TagService instance.
func NewTagService(gdb *gorm.DB) *TagService {
	return &TagService{db: gdb}
}

// List returns tags ordered by name.
func (s *TagService) List(ctx context.Context) ([]db.Tag, error) {
	var tags []db.Tag
	if err := s.db.WithContext(ctx).Order("name asc").Order("id asc").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// PublishedUsage 返回已发布文章中标签的使用统计
func (s *TagService) PublishedUsage(ctx context.Context) ([]TagUsage, error) {
	var usages []TagUsage
	if err := s.db.WithContext(ctx).Table("tags").
		Select("tags.id, tags.name, tags.slug, COUNT(DISTINCT blog_posts.id) AS count").
		Joins("JOIN post_tags ON post_tags.tag_id = tags.id").
		Joins("JOIN blog_posts ON blog_posts.id = post_tags.post_id").
		Where("blog_posts.status = ?", db.PostStatusPublished).
		Group("tags.id, tags.name, tags.slug").
		Order("count desc").
		Order("tags.name asc").
		Scan(&usages).Error; err != nil {
		return nil, err
	}
	return usages, nil
}

// Create inserts a new tag with unique name.
func (s *TagService) Create(ctx context.Context, name string) (*db.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrTagNameRequired
	}

	slug := db.Slugify(name)
	var existing db.Tag
	if err := s.db.WithContext(ctx).Where("name = ? OR slug = ?", name, slug).First(&existing).Error; err == nil {
		return nil, ErrTagExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tag := db.Tag{Name: name, Slug: slug}
	if err := s.db.WithContext(ctx).Create(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

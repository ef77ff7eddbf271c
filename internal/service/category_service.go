package service

import (
	"context"
	"errors"
	"strings"

	"github.com/serpstrategist/site/internal/db"
	"gorm.io/gorm"
)

var (
	ErrCategoryExists       = errors.New("category already exists")
	ErrCategoryNameRequired = errors.New("category name is required")
)

// CategoryService wraps category related operations.
type CategoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a CategoryService instance.
func NewCategoryService(gdb *gorm.DB) *CategoryService {
	return &CategoryService{db: gdb}
}

// List returns categories ordered by name.
func (s *CategoryService) List(ctx context.Context) ([]db.Category, error) {
	var categories []db.Category
	if err := s.db.WithContext(ctx).Order("name asc").Order("id asc").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Create inserts a category; name and derived slug must both be unused.
func (s *CategoryService) Create(ctx context.Context, name, description string) (*db.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrCategoryNameRequired
	}

	slug := db.Slugify(name)
	var existing db.Category
	if err := s.db.WithContext(ctx).Where("name = ? OR slug = ?", name, slug).First(&existing).Error; err == nil {
		return nil, ErrCategoryExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	category := db.Category{Name: name, Slug: slug, Description: strings.TrimSpace(description)}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

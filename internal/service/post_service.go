package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/serpstrategist/site/internal/db"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrPostNotFound     = errors.New("post not found")
	ErrTitleRequired    = errors.New("title is required")
	ErrInvalidStatus    = errors.New("status must be draft or published")
	ErrCategoryNotFound = errors.New("category not found")
	ErrLimitTooLarge    = fmt.Errorf("limit must not exceed %d", MaxPageLimit)
)

// StatusAll disables the status filter when listing posts.
const StatusAll = "all"

const defaultPageLimit = 10

// MaxPageLimit is the largest page size List accepts. Larger requests are
// rejected rather than shortened so pages always equals ceil(total/limit).
const MaxPageLimit = 100

// PostService wraps blog post persistence and the draft/published state machine.
type PostService struct {
	db  *gorm.DB
	now func() time.Time
}

// AuthorInput carries the denormalised author fields stored on the post row.
type AuthorInput struct {
	Name   string
	Avatar string
}

// SEOInput carries the flat SEO columns.
type SEOInput struct {
	Title       string
	Description string
	Keywords    []string
}

// PostInput represents fields accepted when creating or updating a post.
// Status is honoured by Create only. Nil CategoryIDs/TagIDs leave links untouched.
type PostInput struct {
	Title         string
	Content       string
	Excerpt       string
	FeaturedImage string
	Status        string
	Author        AuthorInput
	SEO           SEOInput
	CategoryIDs   []string
	TagIDs        []string
}

// PostFilter describes filters for listing posts.
type PostFilter struct {
	Status string
	Page   int
	Limit  int
}

// Pagination describes an offset page of results.
type Pagination struct {
	Page  int
	Limit int
	Total int64
	Pages int
}

// PostListResult aggregates one page of posts.
type PostListResult struct {
	Posts      []db.BlogPost
	Pagination Pagination
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB) *PostService {
	return &PostService{db: gdb, now: time.Now}
}

// WithClock 允许在测试中固定当前时间。
func (s *PostService) WithClock(now func() time.Time) *PostService {
	if now != nil {
		s.now = now
	}
	return s
}

// Create persists a new post. Slug and id are always generated here.
func (s *PostService) Create(ctx context.Context, input PostInput) (*db.BlogPost, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = db.PostStatusDraft
	}
	if !validStatus(status) {
		return nil, ErrInvalidStatus
	}

	categories, tags, err := s.resolveTaxonomy(ctx, input.CategoryIDs, input.TagIDs)
	if err != nil {
		return nil, err
	}

	now := s.now()
	post := db.BlogPost{
		Title:          title,
		Slug:           db.Slugify(title),
		Content:        input.Content,
		Excerpt:        input.Excerpt,
		FeaturedImage:  strings.TrimSpace(input.FeaturedImage),
		AuthorName:     strings.TrimSpace(input.Author.Name),
		AuthorAvatar:   strings.TrimSpace(input.Author.Avatar),
		Status:         status,
		SEOTitle:       input.SEO.Title,
		SEODescription: input.SEO.Description,
		SEOKeywords:    datatypes.JSONSlice[string](cleanKeywords(input.SEO.Keywords)),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if status == db.PostStatusPublished {
		post.PublishedAt = &now
	}

	if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	// 关联写入与文章写入相互独立，失败时文章行保留。
	if err := s.linkTaxonomy(ctx, &post, input.CategoryIDs != nil, categories, input.TagIDs != nil, tags); err != nil {
		return nil, err
	}

	return s.Load(ctx, post.ID)
}

// Load fetches a post with its categories and tags, without side effects.
func (s *PostService) Load(ctx context.Context, id string) (*db.BlogPost, error) {
	var post db.BlogPost
	if err := s.db.WithContext(ctx).
		Preload("Categories").
		Preload("Tags").
		First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// Get fetches a post by id. Every fetch of a published post counts as one view.
func (s *PostService) Get(ctx context.Context, id string) (*db.BlogPost, error) {
	post, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.recordView(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// GetBySlug fetches a published post by slug and counts the view.
func (s *PostService) GetBySlug(ctx context.Context, slug string) (*db.BlogPost, error) {
	var post db.BlogPost
	if err := s.db.WithContext(ctx).
		Preload("Categories").
		Preload("Tags").
		Where("slug = ? AND status = ?", slug, db.PostStatusPublished).
		First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	if err := s.recordView(ctx, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// List provides one page of posts filtered by exact status.
func (s *PostService) List(ctx context.Context, filter PostFilter) (*PostListResult, error) {
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > MaxPageLimit {
		return nil, ErrLimitTooLarge
	}

	status := strings.TrimSpace(filter.Status)
	if status == "" {
		status = db.PostStatusPublished
	}

	scoped := func() *gorm.DB {
		query := s.db.WithContext(ctx).Model(&db.BlogPost{})
		if status != StatusAll {
			query = query.Where("status = ?", status)
		}
		return query
	}

	result := &PostListResult{Pagination: Pagination{Page: page, Limit: limit}}
	if err := scoped().Count(&result.Pagination.Total).Error; err != nil {
		return nil, err
	}

	var posts []db.BlogPost
	if err := scoped().
		Preload("Categories").
		Preload("Tags").
		Order("published_at IS NULL").
		Order("published_at desc").
		Order("created_at desc").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&posts).Error; err != nil {
		return nil, err
	}

	result.Posts = posts
	result.Pagination.Pages = int((result.Pagination.Total + int64(limit) - 1) / int64(limit))
	return result, nil
}

// ListPublished returns every published post, newest first. Used by the sitemap.
func (s *PostService) ListPublished(ctx context.Context) ([]db.BlogPost, error) {
	var posts []db.BlogPost
	if err := s.db.WithContext(ctx).
		Where("status = ?", db.PostStatusPublished).
		Order("published_at desc").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Update overwrites the content fields of a post. Status is never changed here.
func (s *PostService) Update(ctx context.Context, id string, input PostInput) (*db.BlogPost, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	existing, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	categories, tags, err := s.resolveTaxonomy(ctx, input.CategoryIDs, input.TagIDs)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"title":           title,
		"slug":            db.Slugify(title),
		"content":         input.Content,
		"excerpt":         input.Excerpt,
		"featured_image":  strings.TrimSpace(input.FeaturedImage),
		"seo_title":       input.SEO.Title,
		"seo_description": input.SEO.Description,
		"seo_keywords":    datatypes.JSONSlice[string](cleanKeywords(input.SEO.Keywords)),
		"updated_at":      s.now(),
	}
	if err := s.db.WithContext(ctx).
		Model(&db.BlogPost{}).
		Where("id = ?", existing.ID).
		Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}

	if err := s.linkTaxonomy(ctx, existing, input.CategoryIDs != nil, categories, input.TagIDs != nil, tags); err != nil {
		return nil, err
	}

	return s.Load(ctx, existing.ID)
}

// UpdateStatus moves a post between draft and published. Publishing stamps
// published_at with the current time; reverting to draft keeps the old stamp.
func (s *PostService) UpdateStatus(ctx context.Context, id, status string) (*db.BlogPost, error) {
	status = strings.TrimSpace(status)
	if !validStatus(status) {
		return nil, ErrInvalidStatus
	}

	existing, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": now,
	}
	if status == db.PostStatusPublished {
		updates["published_at"] = now
	}

	if err := s.db.WithContext(ctx).
		Model(&db.BlogPost{}).
		Where("id = ?", existing.ID).
		Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update post status: %w", err)
	}

	return s.Load(ctx, existing.ID)
}

// Delete hard-deletes a post together with its category and tag links.
func (s *PostService) Delete(ctx context.Context, id string) error {
	existing, err := s.Load(ctx, id)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).
		Select("Categories", "Tags").
		Delete(existing).Error; err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// AssignTaxonomy replaces the category and tag links of a post. A nil slice
// leaves that relation untouched; an empty slice clears it.
func (s *PostService) AssignTaxonomy(ctx context.Context, id string, categoryIDs, tagIDs []string) (*db.BlogPost, error) {
	existing, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	categories, tags, err := s.resolveTaxonomy(ctx, categoryIDs, tagIDs)
	if err != nil {
		return nil, err
	}

	if err := s.linkTaxonomy(ctx, existing, categoryIDs != nil, categories, tagIDs != nil, tags); err != nil {
		return nil, err
	}

	return s.Load(ctx, existing.ID)
}

func (s *PostService) recordView(ctx context.Context, post *db.BlogPost) error {
	if !post.IsPublished() {
		return nil
	}
	// UpdateColumn 不刷新 updated_at，浏览不算内容修改。
	if err := s.db.WithContext(ctx).
		Model(&db.BlogPost{}).
		Where("id = ?", post.ID).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error; err != nil {
		return fmt.Errorf("increment view count: %w", err)
	}
	post.ViewCount++
	return nil
}

func (s *PostService) resolveTaxonomy(ctx context.Context, categoryIDs, tagIDs []string) ([]db.Category, []db.Tag, error) {
	categories := []db.Category{}
	if ids := uniqueIDs(categoryIDs); len(ids) > 0 {
		if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&categories).Error; err != nil {
			return nil, nil, err
		}
		if len(categories) != len(ids) {
			return nil, nil, ErrCategoryNotFound
		}
	}

	tags := []db.Tag{}
	if ids := uniqueIDs(tagIDs); len(ids) > 0 {
		if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error; err != nil {
			return nil, nil, err
		}
		if len(tags) != len(ids) {
			return nil, nil, ErrTagNotFound
		}
	}

	return categories, tags, nil
}

func (s *PostService) linkTaxonomy(ctx context.Context, post *db.BlogPost, setCategories bool, categories []db.Category, setTags bool, tags []db.Tag) error {
	if setCategories {
		if err := s.db.WithContext(ctx).Model(post).Association("Categories").Replace(categories); err != nil {
			return fmt.Errorf("link categories: %w", err)
		}
	}
	if setTags {
		if err := s.db.WithContext(ctx).Model(post).Association("Tags").Replace(tags); err != nil {
			return fmt.Errorf("link tags: %w", err)
		}
	}
	return nil
}

func validStatus(status string) bool {
	return status == db.PostStatusDraft || status == db.PostStatusPublished
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, raw := range ids {
		id := strings.TrimSpace(raw)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func cleanKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if trimmed := strings.TrimSpace(k); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/serpstrategist/site/internal/service"
)

type tagRequest struct {
	Name string `json:"name" binding:"required"`
}

type categoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// ListTags 获取标签列表，附带已发布文章的引用次数。
func (a *API) ListTags(c *gin.Context) {
	ctx := c.Request.Context()
	tags, err := a.tags.List(ctx)
	if err != nil {
		a.logger.Error().Err(err).Msg("list tags failed")
		respondError(c, http.StatusInternalServerError, "Failed to fetch tags")
		return
	}

	usage, err := a.tags.PublishedUsage(ctx)
	if err != nil {
		a.logger.Error().Err(err).Msg("tag usage failed")
		respondError(c, http.StatusInternalServerError, "Failed to fetch tags")
		return
	}
	counts := make(map[string]int64, len(usage))
	for _, u := range usage {
		counts[u.ID] = u.Count
	}

	response := make([]gin.H, 0, len(tags))
	for _, tag := range tags {
		response = append(response, gin.H{
			"id":        tag.ID,
			"name":      tag.Name,
			"slug":      tag.Slug,
			"postCount": counts[tag.ID],
		})
	}

	c.JSON(http.StatusOK, gin.H{"tags": response})
}

// CreateTag 创建新标签
func (a *API) CreateTag(c *gin.Context) {
	var req tagRequest
	if !bindJSON(c, &req, "Tag name is required") {
		return
	}

	tag, err := a.tags.Create(c.Request.Context(), req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTagNameRequired):
			respondError(c, http.StatusBadRequest, "Tag name is required")
		case errors.Is(err, service.ErrTagExists):
			respondError(c, http.StatusConflict, "Tag already exists")
		default:
			a.logger.Error().Err(err).Msg("create tag failed")
			respondError(c, http.StatusInternalServerError, "Failed to create tag")
		}
		return
	}

	c.JSON(http.StatusCreated, taxonomyRef{ID: tag.ID, Name: tag.Name, Slug: tag.Slug})
}

// ListCategories 获取分类列表
func (a *API) ListCategories(c *gin.Context) {
	categories, err := a.categories.List(c.Request.Context())
	if err != nil {
		a.logger.Error().Err(err).Msg("list categories failed")
		respondError(c, http.StatusInternalServerError, "Failed to fetch categories")
		return
	}

	response := make([]gin.H, 0, len(categories))
	for _, category := range categories {
		response = append(response, gin.H{
			"id":          category.ID,
			"name":        category.Name,
			"slug":        category.Slug,
			"description": category.Description,
		})
	}

	c.JSON(http.StatusOK, gin.H{"categories": response})
}

// CreateCategory 创建新分类
func (a *API) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if !bindJSON(c, &req, "Category name is required") {
		return
	}

	category, err := a.categories.Create(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNameRequired):
			respondError(c, http.StatusBadRequest, "Category name is required")
		case errors.Is(err, service.ErrCategoryExists):
			respondError(c, http.StatusConflict, "Category already exists")
		default:
			a.logger.Error().Err(err).Msg("create category failed")
			respondError(c, http.StatusInternalServerError, "Failed to create category")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":          category.ID,
		"name":        category.Name,
		"slug":        category.Slug,
		"description": category.Description,
	})
}

package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/serpstrategist/site/internal/db"
	"github.com/serpstrategist/site/internal/service"
)

const (
	msgPostNotFound   = "Post not found"
	msgTitleRequired  = "Title is required"
	msgInvalidStatus  = `Invalid status. Must be "draft" or "published"`
	msgInvalidPayload = "Invalid request body"
)

// ListPosts 分页获取文章列表，默认只返回已发布文章。
func (a *API) ListPosts(c *gin.Context) {
	filter := service.PostFilter{
		Status: strings.TrimSpace(c.DefaultQuery("status", db.PostStatusPublished)),
		Page:   parsePositiveInt(c.Query("page"), 1),
		Limit:  parsePositiveInt(c.Query("limit"), 10),
	}

	result, err := a.posts.List(c.Request.Context(), filter)
	if err != nil {
		a.respondPostError(c, err, "Failed to fetch posts")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts": formatPosts(result.Posts),
		"pagination": paginationResponse{
			Page:  result.Pagination.Page,
			Limit: result.Pagination.Limit,
			Total: result.Pagination.Total,
			Pages: result.Pagination.Pages,
		},
	})
}

// CreatePost 创建文章，返回 201。
func (a *API) CreatePost(c *gin.Context) {
	var req postRequest
	if !bindJSON(c, &req, msgInvalidPayload) {
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		respondError(c, http.StatusBadRequest, msgTitleRequired)
		return
	}

	post, err := a.posts.Create(c.Request.Context(), req.toInput())
	if err != nil {
		a.respondPostError(c, err, "Failed to create post")
		return
	}

	c.JSON(http.StatusCreated, formatPost(post))
}

// GetPost 获取单篇文章；已发布文章每次读取都会计一次浏览。
func (a *API) GetPost(c *gin.Context) {
	post, err := a.posts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.respondPostError(c, err, "Failed to fetch post")
		return
	}

	c.JSON(http.StatusOK, formatPost(post))
}

// UpdatePost 覆盖内容字段，状态只能通过 PATCH 修改。
func (a *API) UpdatePost(c *gin.Context) {
	var req postRequest
	if !bindJSON(c, &req, msgInvalidPayload) {
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		respondError(c, http.StatusBadRequest, msgTitleRequired)
		return
	}

	post, err := a.posts.Update(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		a.respondPostError(c, err, "Failed to update post")
		return
	}

	c.JSON(http.StatusOK, formatPost(post))
}

// UpdatePostStatus 切换草稿/发布状态。
func (a *API) UpdatePostStatus(c *gin.Context) {
	var req statusRequest
	if !bindJSON(c, &req, msgInvalidStatus) {
		return
	}
	if req.Status != db.PostStatusDraft && req.Status != db.PostStatusPublished {
		respondError(c, http.StatusBadRequest, msgInvalidStatus)
		return
	}

	post, err := a.posts.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		a.respondPostError(c, err, "Failed to update post status")
		return
	}

	c.JSON(http.StatusOK, formatPost(post))
}

// DeletePost 硬删除文章及其分类、标签关联。
func (a *API) DeletePost(c *gin.Context) {
	if err := a.posts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		a.respondPostError(c, err, "Failed to delete post")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (a *API) respondPostError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		respondError(c, http.StatusNotFound, msgPostNotFound)
	case errors.Is(err, service.ErrTitleRequired):
		respondError(c, http.StatusBadRequest, msgTitleRequired)
	case errors.Is(err, service.ErrInvalidStatus):
		respondError(c, http.StatusBadRequest, msgInvalidStatus)
	case errors.Is(err, service.ErrCategoryNotFound):
		respondError(c, http.StatusBadRequest, "Category not found")
	case errors.Is(err, service.ErrLimitTooLarge):
		respondError(c, http.StatusBadRequest, fmt.Sprintf("Limit must not exceed %d", service.MaxPageLimit))
	case errors.Is(err, service.ErrTagNotFound):
		respondError(c, http.StatusBadRequest, "Tag not found")
	default:
		a.logger.Error().Err(err).Str("path", c.FullPath()).Msg(fallback)
		respondError(c, http.StatusInternalServerError, fallback)
	}
}

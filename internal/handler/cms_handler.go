package handler

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/serpstrategist/site/internal/cms"
	"github.com/serpstrategist/site/internal/seo"
)

// ListCMSPosts proxies the newest posts from the headless CMS.
func (a *API) ListCMSPosts(c *gin.Context) {
	if !a.cmsEnabled() {
		respondError(c, http.StatusServiceUnavailable, "CMS is not configured")
		return
	}

	posts, err := a.cms.ListPosts(c.Request.Context(), parsePositiveInt(c.Query("limit"), 20))
	if err != nil {
		a.respondCMSError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// GetCMSPost returns one CMS post by slug.
func (a *API) GetCMSPost(c *gin.Context) {
	if !a.cmsEnabled() {
		respondError(c, http.StatusServiceUnavailable, "CMS is not configured")
		return
	}

	post, err := a.cms.PostBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		a.respondCMSError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (a *API) respondCMSError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, cms.ErrNotConfigured):
		respondError(c, http.StatusServiceUnavailable, "CMS is not configured")
	case errors.Is(err, cms.ErrNotFound):
		respondError(c, http.StatusNotFound, msgPostNotFound)
	default:
		a.logger.Error().Err(err).Str("path", c.FullPath()).Msg("cms request failed")
		respondError(c, http.StatusBadGateway, "Failed to fetch content")
	}
}

// ShowCMSPost renders a CMS post page.
func (a *API) ShowCMSPost(c *gin.Context) {
	if !a.cmsEnabled() {
		a.NotFound(c)
		return
	}

	post, err := a.cms.PostBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		status := http.StatusBadGateway
		message := "Failed to load post."
		if errors.Is(err, cms.ErrNotFound) {
			status = http.StatusNotFound
			message = "This post does not exist."
		} else {
			a.logger.Error().Err(err).Msg("cms post page failed")
		}
		a.renderHTML(c, status, "not_found.html", gin.H{"title": "Not found", "error": message})
		return
	}

	path := "/blog/" + post.Slug
	article := seo.Article{
		Title:       post.Title,
		Description: post.Excerpt,
		Path:        path,
		Image:       post.MainImage,
		AuthorName:  post.AuthorName,
		PublishedAt: post.PublishedAt,
	}
	if post.UpdatedAt != nil {
		article.ModifiedAt = *post.UpdatedAt
	}

	a.renderHTML(c, http.StatusOK, "cms_post.html", gin.H{
		"title":       post.Title,
		"description": post.Excerpt,
		"canonical":   seo.Absolute(a.site.BaseURL, path),
		"post":        post,
		"blocks":      post.Blocks(),
		"postingLD":   template.JS(seo.BlogPosting(a.seoSite(), article)),
	})
}

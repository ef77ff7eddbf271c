package handler

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/serpstrategist/site/internal/cms"
	"github.com/serpstrategist/site/internal/db"
	"github.com/serpstrategist/site/internal/seo"
	"github.com/serpstrategist/site/internal/service"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML(), html.WithUnsafe()),
	)
	sanitizer = buildContentSanitizer()
)

const (
	landingPostLimit = 5
	cmsFetchTimeout  = 3 * time.Second
)

// ShowLanding renders the home page with the waitlist form and recent posts.
// CMS failures only hide the CMS section.
func (a *API) ShowLanding(c *gin.Context) {
	ctx := c.Request.Context()

	result, err := a.posts.List(ctx, service.PostFilter{Status: db.PostStatusPublished, Page: 1, Limit: landingPostLimit})
	var posts []db.BlogPost
	if err != nil {
		a.logger.Error().Err(err).Msg("landing posts failed")
	} else {
		posts = result.Posts
	}

	var cmsPosts []cms.Post
	if a.cmsEnabled() {
		cmsCtx, cancel := context.WithTimeout(ctx, cmsFetchTimeout)
		cmsPosts, err = a.cms.ListPosts(cmsCtx, landingPostLimit)
		cancel()
		if err != nil {
			a.logger.Warn().Err(err).Msg("landing cms posts failed")
		}
	}

	site := a.seoSite()
	a.renderHTML(c, http.StatusOK, "landing.html", gin.H{
		"title":          "Join the waitlist",
		"description":    a.site.Description,
		"canonical":      seo.Absolute(a.site.BaseURL, "/"),
		"posts":          posts,
		"cmsPosts":       cmsPosts,
		"organizationLD": template.JS(seo.Organization(site)),
		"websiteLD":      template.JS(seo.WebSite(site)),
	})
}

// ShowPost renders a published post by slug. Each render counts as a view.
func (a *API) ShowPost(c *gin.Context) {
	post, err := a.posts.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			a.renderHTML(c, http.StatusNotFound, "not_found.html", gin.H{
				"title": "Not found",
				"error": "This post does not exist or is not published yet.",
			})
			return
		}
		a.logger.Error().Err(err).Msg("load post page failed")
		a.renderHTML(c, http.StatusInternalServerError, "not_found.html", gin.H{
			"title": "Error",
			"error": "Failed to load post.",
		})
		return
	}

	content, err := renderMarkdown(post.Content)
	if err != nil {
		a.logger.Error().Err(err).Str("post_id", post.ID).Msg("render markdown failed")
		content = template.HTML("<p>Content is temporarily unavailable.</p>")
	}

	path := "/posts/" + post.Slug
	title := firstNonEmpty(post.SEOTitle, post.Title)
	description := firstNonEmpty(post.SEODescription, post.Excerpt)
	site := a.seoSite()

	a.renderHTML(c, http.StatusOK, "post.html", gin.H{
		"title":       title,
		"description": description,
		"canonical":   seo.Absolute(a.site.BaseURL, path),
		"post":        post,
		"content":     content,
		"postingLD": template.JS(seo.BlogPosting(site, seo.Article{
			Title:       post.Title,
			Description: description,
			Path:        path,
			Image:       service.CoverImage(post.FeaturedImage, post.Content),
			AuthorName:  post.AuthorName,
			Keywords:    post.SEOKeywords,
			PublishedAt: post.PublishedAt,
			ModifiedAt:  post.UpdatedAt,
		})),
		"breadcrumbLD": template.JS(seo.Breadcrumbs(site, []seo.Crumb{
			{Name: "Home", Path: "/"},
			{Name: "Blog", Path: "/#blog"},
			{Name: post.Title, Path: path},
		})),
	})
}

// Sitemap lists the home page, every published post and, when configured,
// the CMS posts.
func (a *API) Sitemap(c *gin.Context) {
	ctx := c.Request.Context()

	posts, err := a.posts.ListPublished(ctx)
	if err != nil {
		a.logger.Error().Err(err).Msg("sitemap posts failed")
		c.String(http.StatusInternalServerError, "failed to build sitemap")
		return
	}

	entries := []seo.SitemapEntry{{Path: "/", ChangeFreq: "weekly", Priority: 1.0}}
	for _, post := range posts {
		entries = append(entries, seo.SitemapEntry{
			Path:       "/posts/" + post.Slug,
			LastMod:    post.UpdatedAt,
			ChangeFreq: "monthly",
			Priority:   0.7,
		})
	}

	if a.cmsEnabled() {
		cmsCtx, cancel := context.WithTimeout(ctx, cmsFetchTimeout)
		cmsPosts, err := a.cms.ListPosts(cmsCtx, 100)
		cancel()
		if err != nil {
			a.logger.Warn().Err(err).Msg("sitemap cms posts failed")
		}
		for _, post := range cmsPosts {
			entry := seo.SitemapEntry{Path: "/blog/" + post.Slug, ChangeFreq: "monthly", Priority: 0.8}
			if post.UpdatedAt != nil {
				entry.LastMod = *post.UpdatedAt
			}
			entries = append(entries, entry)
		}
	}

	body, err := seo.Sitemap(a.site.BaseURL, entries)
	if err != nil {
		a.logger.Error().Err(err).Msg("encode sitemap failed")
		c.String(http.StatusInternalServerError, "failed to build sitemap")
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", body)
}

// Robots serves robots.txt.
func (a *API) Robots(c *gin.Context) {
	c.String(http.StatusOK, seo.Robots(a.site.BaseURL))
}

// Healthz is the liveness probe.
func (a *API) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readyz reports ready once the relational pool answers a ping.
func (a *API) Readyz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := db.Ping(ctx, a.db); err != nil {
		a.logger.Warn().Err(err).Msg("readiness check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "waitlistBackend": a.waitlist.Backend()})
}

// NotFound answers unknown routes with JSON for API paths and a page otherwise.
func (a *API) NotFound(c *gin.Context) {
	if isAPIRequest(c) {
		respondError(c, http.StatusNotFound, "Not found")
		return
	}
	a.renderHTML(c, http.StatusNotFound, "not_found.html", gin.H{"title": "Not found"})
}

func renderMarkdown(content string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(applyVideoEmbeds(content)), &buf); err != nil {
		return "", err
	}
	safe := sanitizer.SanitizeBytes(buf.Bytes())
	return template.HTML(safe), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

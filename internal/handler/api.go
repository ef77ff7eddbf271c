package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/serpstrategist/site/internal/cms"
	"github.com/serpstrategist/site/internal/logging"
	"github.com/serpstrategist/site/internal/seo"
	"github.com/serpstrategist/site/internal/service"
	"github.com/serpstrategist/site/internal/view"
	"github.com/serpstrategist/site/internal/waitlist"
	"gorm.io/gorm"
)

// SiteInfo is the public identity of the site used in pages and JSON-LD.
type SiteInfo struct {
	Name        string
	BaseURL     string
	Description string
	LogoURL     string
	SocialLinks []view.SocialLink
}

// Options wires the handler set. CMS may be nil when no project is configured.
type Options struct {
	DB        *gorm.DB
	Waitlist  *waitlist.Service
	CMS       *cms.Client
	Site      SiteInfo
	UploadDir string
	UploadURL string
}

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db         *gorm.DB
	posts      *service.PostService
	categories *service.CategoryService
	tags       *service.TagService
	waitlist   *waitlist.Service
	cms        *cms.Client
	site       SiteInfo
	uploadDir  string
	uploadURL  string
	logger     zerolog.Logger
	now        func() time.Time
}

// siteView is exposed to templates as .site.
type siteView struct {
	Name        string
	BaseURL     string
	Year        int
	SocialLinks []view.SocialLink
}

// NewAPI constructs a handler set with shared services.
func NewAPI(opts Options) *API {
	uploadURL := opts.UploadURL
	if uploadURL == "" {
		uploadURL = "/uploads"
	}
	return &API{
		db:         opts.DB,
		posts:      service.NewPostService(opts.DB),
		categories: service.NewCategoryService(opts.DB),
		tags:       service.NewTagService(opts.DB),
		waitlist:   opts.Waitlist,
		cms:        opts.CMS,
		site:       opts.Site,
		uploadDir:  opts.UploadDir,
		uploadURL:  uploadURL,
		logger:     logging.Component("handler"),
		now:        time.Now,
	}
}

// Posts exposes the post service, e.g. for the operator CLI.
func (a *API) Posts() *service.PostService {
	return a.posts
}

func (a *API) seoSite() seo.Site {
	sameAs := make([]string, 0, len(a.site.SocialLinks))
	for _, link := range a.site.SocialLinks {
		if link.Key != "email" {
			sameAs = append(sameAs, link.URL)
		}
	}
	return seo.Site{
		Name:        a.site.Name,
		BaseURL:     a.site.BaseURL,
		Description: a.site.Description,
		LogoURL:     a.site.LogoURL,
		SameAs:      sameAs,
	}
}

func (a *API) cmsEnabled() bool {
	return a.cms != nil && a.cms.Enabled()
}

// renderHTML 在渲染模板时附加站点信息。
func (a *API) renderHTML(c *gin.Context, status int, template string, data gin.H) {
	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}
	if _, exists := payload["site"]; !exists {
		payload["site"] = siteView{
			Name:        a.site.Name,
			BaseURL:     a.site.BaseURL,
			Year:        a.now().Year(),
			SocialLinks: a.site.SocialLinks,
		}
	}
	c.HTML(status, template, payload)
}

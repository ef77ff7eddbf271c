package router

import (
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/serpstrategist/site/internal/handler"
	"github.com/serpstrategist/site/internal/logging"
	"github.com/serpstrategist/site/internal/view"
)

const sessionName = "serpstrategist_session"

// Options 描述路由需要的外部参数。
type Options struct {
	SessionSecret  string
	BlogAPIToken   string
	SubscribeLimit int
	UploadDir      string
	UploadURL      string
	SecureCookies  bool
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, opts Options) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery(), logging.GinMiddleware())

	// 配置会话中间件
	store := cookie.NewStore([]byte(opts.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   opts.SecureCookies,
	})
	r.Use(sessions.Sessions(sessionName, store))

	tmpl, err := view.Templates()
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)

	uploadURL := opts.UploadURL
	if uploadURL == "" {
		uploadURL = "/uploads"
	}
	if opts.UploadDir != "" {
		r.Static(uploadURL, opts.UploadDir)
	}

	limit := opts.SubscribeLimit
	if limit <= 0 {
		limit = 10
	}

	// 公开页面
	r.GET("/", api.ShowLanding)
	r.GET("/posts/:slug", api.ShowPost)
	r.GET("/blog/:slug", api.ShowCMSPost)
	r.GET("/sitemap.xml", api.Sitemap)
	r.GET("/robots.txt", api.Robots)
	r.GET("/healthz", api.Healthz)
	r.GET("/readyz", api.Readyz)

	public := r.Group("/api")
	{
		public.POST("/subscribe", handler.RateLimitByIP(limit, time.Minute), api.Subscribe)

		blog := public.Group("/blog")
		blog.GET("/posts", api.ListPosts)
		blog.GET("/posts/:id", api.GetPost)
		blog.GET("/categories", api.ListCategories)
		blog.GET("/tags", api.ListTags)

		// 写接口需要后台会话或 API token
		writes := blog.Group("", handler.WriteAuthRequired(opts.BlogAPIToken))
		{
			writes.POST("/posts", api.CreatePost)
			writes.PUT("/posts/:id", api.UpdatePost)
			writes.PATCH("/posts/:id", api.UpdatePostStatus)
			writes.DELETE("/posts/:id", api.DeletePost)
			writes.POST("/categories", api.CreateCategory)
			writes.POST("/tags", api.CreateTag)
		}

		public.GET("/cms/posts", api.ListCMSPosts)
		public.GET("/cms/posts/:slug", api.GetCMSPost)
	}

	// 后台管理路由
	admin := r.Group("/admin")
	{
		admin.GET("/login", api.ShowLoginPage)
		admin.POST("/login", api.Login)
		admin.GET("/logout", api.Logout)

		// 需要认证的后台路由
		auth := admin.Group("")
		auth.Use(handler.AuthRequired())
		{
			auth.GET("/posts", api.ShowPostList)
			auth.GET("/posts/new", api.ShowPostEdit)
			auth.GET("/posts/:id/edit", api.ShowPostEdit)

			auth.GET("/api/subscribers", api.ListSubscribers)
			auth.POST("/api/uploads", api.UploadImage)
		}
	}

	r.NoRoute(api.NotFound)

	return r, nil
}

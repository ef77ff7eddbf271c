package handler

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/serpstrategist/site/internal/db"
	"github.com/serpstrategist/site/internal/service"
)

const (
	sessionUserIDKey   = "admin_id"
	sessionUsernameKey = "username"
	adminPostsPerPage  = 20
)

// ShowLoginPage 渲染登录页面
func (a *API) ShowLoginPage(c *gin.Context) {
	if sessions.Default(c).Get(sessionUserIDKey) != nil {
		c.Redirect(http.StatusFound, "/admin/posts")
		return
	}
	a.renderHTML(c, http.StatusOK, "admin_login.html", gin.H{"title": "Admin login"})
}

// Login 校验管理员账号并写入会话
func (a *API) Login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	user, err := db.VerifyAdmin(a.db, username, password)
	if err != nil {
		if !errors.Is(err, db.ErrInvalidCredentials) {
			a.logger.Error().Err(err).Str("username", username).Msg("verify admin failed")
		}
		a.logger.Warn().Str("username", username).Str("client_ip", c.ClientIP()).Msg("admin login rejected")
		a.renderHTML(c, http.StatusUnauthorized, "admin_login.html", gin.H{
			"title":    "Admin login",
			"error":    "Invalid username or password",
			"username": username,
		})
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUserIDKey, user.ID)
	session.Set(sessionUsernameKey, user.Username)
	if err := session.Save(); err != nil {
		a.logger.Error().Err(err).Msg("save session failed")
		a.renderHTML(c, http.StatusInternalServerError, "admin_login.html", gin.H{
			"title": "Admin login",
			"error": "Failed to save session",
		})
		return
	}

	c.Redirect(http.StatusFound, "/admin/posts")
}

// Logout 清除会话
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	_ = session.Save()
	c.Redirect(http.StatusFound, "/admin/login")
}

// AuthRequired 是一个简单的认证中间件；API 请求返回 401，页面请求跳转登录页。
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if sessions.Default(c).Get(sessionUserIDKey) == nil {
			if isAPIRequest(c) {
				respondError(c, http.StatusUnauthorized, "Unauthorized")
			} else {
				c.Redirect(http.StatusFound, "/admin/login")
			}
			c.Abort()
			return
		}
		c.Next()
	}
}

// WriteAuthRequired 保护博客写接口：已登录的后台会话，或携带 Bearer token 的请求。
// token 为空时只接受会话。
func WriteAuthRequired(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sessions.Default(c).Get(sessionUserIDKey) != nil || bearerMatches(c.GetHeader("Authorization"), token) {
			c.Next()
			return
		}
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		c.Abort()
	}
}

func bearerMatches(header, token string) bool {
	if token == "" {
		return false
	}
	provided, ok := strings.CutPrefix(strings.TrimSpace(header), "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(strings.TrimSpace(provided)), []byte(token)) == 1
}

// ShowPostList 渲染后台文章列表，包含全部状态。
func (a *API) ShowPostList(c *gin.Context) {
	result, err := a.posts.List(c.Request.Context(), service.PostFilter{
		Status: service.StatusAll,
		Page:   parsePositiveInt(c.Query("page"), 1),
		Limit:  adminPostsPerPage,
	})
	if err != nil {
		a.logger.Error().Err(err).Msg("admin post list failed")
		a.renderHTML(c, http.StatusInternalServerError, "admin_posts.html", gin.H{
			"title":    "Posts",
			"username": sessions.Default(c).Get(sessionUsernameKey),
			"error":    "Failed to fetch posts",
		})
		return
	}

	a.renderHTML(c, http.StatusOK, "admin_posts.html", gin.H{
		"title":      "Posts",
		"username":   sessions.Default(c).Get(sessionUsernameKey),
		"posts":      result.Posts,
		"pagination": result.Pagination,
	})
}

// ShowPostEdit 渲染新建或编辑页面；没有 id 参数时为新建。
func (a *API) ShowPostEdit(c *gin.Context) {
	ctx := c.Request.Context()

	var post *db.BlogPost
	selectedCategories := map[string]bool{}
	selectedTags := map[string]bool{}

	if id := c.Param("id"); id != "" {
		loaded, err := a.posts.Load(ctx, id)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, service.ErrPostNotFound) {
				status = http.StatusNotFound
			}
			a.renderHTML(c, status, "not_found.html", gin.H{"title": "Not found", "error": msgPostNotFound})
			return
		}
		post = loaded
		for _, category := range post.Categories {
			selectedCategories[category.ID] = true
		}
		for _, tag := range post.Tags {
			selectedTags[tag.ID] = true
		}
	}

	categories, err := a.categories.List(ctx)
	if err != nil {
		a.logger.Error().Err(err).Msg("list categories failed")
	}
	tags, err := a.tags.List(ctx)
	if err != nil {
		a.logger.Error().Err(err).Msg("list tags failed")
	}

	title := "New post"
	if post != nil {
		title = "Edit " + post.Title
	}

	a.renderHTML(c, http.StatusOK, "admin_post_edit.html", gin.H{
		"title":              title,
		"post":               post,
		"categories":         categories,
		"tags":               tags,
		"selectedCategories": selectedCategories,
		"selectedTags":       selectedTags,
	})
}

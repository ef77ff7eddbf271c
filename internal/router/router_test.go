package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/serpstrategist/site/internal/db"
	"github.com/serpstrategist/site/internal/handler"
	"github.com/serpstrategist/site/internal/waitlist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testAPIToken = "test-api-token"

type testServer struct {
	engine    *gin.Engine
	uploadDir string
	db        *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:router-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() { _ = db.Close(gdb) })

	repo := waitlist.NewFileRepository(filepath.Join(t.TempDir(), "subscribers.json"))
	uploadDir := t.TempDir()
	api := handler.NewAPI(handler.Options{
		DB:        gdb,
		Waitlist:  waitlist.NewService(repo),
		Site:      handler.SiteInfo{Name: "SERP Strategist", BaseURL: "https://example.com"},
		UploadDir: uploadDir,
	})

	engine, err := SetupRouter(api, Options{
		SessionSecret:  "test-secret",
		BlogAPIToken:   testAPIToken,
		SubscribeLimit: 100,
		UploadDir:      uploadDir,
	})
	require.NoError(t, err)
	return &testServer{engine: engine, uploadDir: uploadDir, db: gdb}
}

// do 以 API token 身份发送请求。
func (s *testServer) do(t *testing.T, method, target string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	return s.doWith(t, method, target, body, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+testAPIToken)
	})
}

func (s *testServer) doWith(t *testing.T, method, target string, body interface{}, prepare func(*http.Request)) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if prepare != nil {
		prepare(req)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var out map[string]interface{}
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func TestWaitlistDuplicateFlow(t *testing.T) {
	s := newTestServer(t)

	w, body := s.do(t, http.MethodPost, "/api/subscribe", map[string]string{"email": "a@b.com"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])

	w, body = s.do(t, http.MethodPost, "/api/subscribe", map[string]string{"email": "a@b.com"})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, true, body["alreadySubscribed"])
}

func TestBlogPostLifecycle(t *testing.T) {
	s := newTestServer(t)

	w, created := s.do(t, http.MethodPost, "/api/blog/posts", map[string]string{"title": "Hello World"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "hello-world", created["slug"])
	assert.Equal(t, "draft", created["status"])
	assert.Nil(t, created["publishedAt"])
	id := created["id"].(string)

	w, published := s.do(t, http.MethodPatch, "/api/blog/posts/"+id, map[string]string{"status": "published"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, published["publishedAt"])

	w, fetched := s.do(t, http.MethodGet, "/api/blog/posts/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, fetched["viewCount"])

	page, _ := s.do(t, http.MethodGet, "/posts/hello-world", nil)
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "Hello World")
	assert.Contains(t, page.Body.String(), `"BlogPosting"`)

	landing, _ := s.do(t, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, landing.Code)
	assert.Contains(t, landing.Body.String(), `href="/posts/hello-world"`)

	w, deleted := s.do(t, http.MethodDelete, "/api/blog/posts/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, deleted["success"])
}

func TestListPostsFiltersByStatus(t *testing.T) {
	s := newTestServer(t)

	for i := 0; i < 3; i++ {
		w, _ := s.do(t, http.MethodPost, "/api/blog/posts", map[string]string{"title": fmt.Sprintf("Draft %d", i)})
		require.Equal(t, http.StatusCreated, w.Code)
	}
	for i := 0; i < 2; i++ {
		w, _ := s.do(t, http.MethodPost, "/api/blog/posts", map[string]string{"title": fmt.Sprintf("Live %d", i), "status": "published"})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w, body := s.do(t, http.MethodGet, "/api/blog/posts?status=draft&page=1&limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["posts"], 3)
	pagination := body["pagination"].(map[string]interface{})
	assert.EqualValues(t, 3, pagination["total"])
	assert.EqualValues(t, 1, pagination["pages"])
}

func TestPostErrors(t *testing.T) {
	s := newTestServer(t)

	w, body := s.do(t, http.MethodDelete, "/api/blog/posts/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Post not found", body["error"])

	w, body = s.do(t, http.MethodPost, "/api/blog/posts", map[string]string{"title": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Title is required", body["error"])
}

func TestAdminRoutesRequireLogin(t *testing.T) {
	s := newTestServer(t)

	page, _ := s.do(t, http.MethodGet, "/admin/posts", nil)
	assert.Equal(t, http.StatusFound, page.Code)
	assert.Equal(t, "/admin/login", page.Header().Get("Location"))

	apiReq, body := s.do(t, http.MethodGet, "/admin/api/subscribers", nil)
	assert.Equal(t, http.StatusUnauthorized, apiReq.Code)
	assert.Equal(t, "Unauthorized", body["error"])

	login, _ := s.do(t, http.MethodGet, "/admin/login", nil)
	assert.Equal(t, http.StatusOK, login.Code)
	assert.Contains(t, login.Body.String(), `name="password"`)
}

func TestBlogWritesRequireCredentials(t *testing.T) {
	s := newTestServer(t)
	anonymous := func(req *http.Request) {}

	w, created := s.do(t, http.MethodPost, "/api/blog/posts", map[string]string{"title": "Guarded"})
	require.Equal(t, http.StatusCreated, w.Code)
	id := created["id"].(string)

	writes := []struct {
		method, target string
		body           interface{}
	}{
		{http.MethodPost, "/api/blog/posts", map[string]string{"title": "Anonymous"}},
		{http.MethodPut, "/api/blog/posts/" + id, map[string]string{"title": "Changed"}},
		{http.MethodPatch, "/api/blog/posts/" + id, map[string]string{"status": "published"}},
		{http.MethodDelete, "/api/blog/posts/" + id, nil},
		{http.MethodPost, "/api/blog/tags", map[string]string{"name": "Anon"}},
		{http.MethodPost, "/api/blog/categories", map[string]string{"name": "Anon"}},
	}
	for _, tc := range writes {
		w, body := s.doWith(t, tc.method, tc.target, tc.body, anonymous)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.target)
		assert.Equal(t, "Unauthorized", body["error"])
	}

	wrongToken, _ := s.doWith(t, http.MethodDelete, "/api/blog/posts/"+id, nil, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer nope")
	})
	assert.Equal(t, http.StatusUnauthorized, wrongToken.Code)

	read, _ := s.doWith(t, http.MethodGet, "/api/blog/posts?status=all", nil, anonymous)
	assert.Equal(t, http.StatusOK, read.Code)

	var stored db.BlogPost
	require.NoError(t, s.db.First(&stored, "id = ?", id).Error)
	assert.Equal(t, "Guarded", stored.Title)
}

func TestBlogWritesAcceptAdminSession(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, db.EnsureAdmin(s.db, "admin", "s3cret"))

	form := url.Values{"username": {"admin"}, "password": {"s3cret"}}
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	login := httptest.NewRecorder()
	s.engine.ServeHTTP(login, req)
	require.Equal(t, http.StatusFound, login.Code)
	cookies := login.Result().Cookies()
	require.NotEmpty(t, cookies)

	w, created := s.doWith(t, http.MethodPost, "/api/blog/posts", map[string]string{"title": "From the editor"}, func(req *http.Request) {
		for _, c := range cookies {
			req.AddCookie(c)
		}
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "from-the-editor", created["slug"])
}

func TestUnknownRoutes(t *testing.T) {
	s := newTestServer(t)

	w, body := s.do(t, http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Not found", body["error"])

	page, _ := s.do(t, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, page.Code)
	assert.Contains(t, page.Header().Get("Content-Type"), "text/html")
}

func TestSetupRouterServesUploads(t *testing.T) {
	s := newTestServer(t)

	fileContent := []byte("hello uploads")
	require.NoError(t, os.WriteFile(filepath.Join(s.uploadDir, "example.txt"), fileContent, 0o644))

	w, _ := s.do(t, http.MethodGet, "/uploads/example.txt", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(fileContent), w.Body.String())
}

func TestSEOEndpoints(t *testing.T) {
	s := newTestServer(t)

	sitemap, _ := s.do(t, http.MethodGet, "/sitemap.xml", nil)
	require.Equal(t, http.StatusOK, sitemap.Code)
	assert.Contains(t, sitemap.Body.String(), "<urlset")

	robots, _ := s.do(t, http.MethodGet, "/robots.txt", nil)
	require.Equal(t, http.StatusOK, robots.Code)
	assert.Contains(t, robots.Body.String(), "Disallow: /admin/")
}

package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/serpstrategist/site/internal/db"
	"github.com/serpstrategist/site/internal/waitlist"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubHTMLRender struct {
	name string
	data interface{}
}

type stubHTMLInstance struct{}

func (r *stubHTMLRender) Instance(name string, data interface{}) render.Render {
	r.name = name
	r.data = data
	return &stubHTMLInstance{}
}

func (r *stubHTMLInstance) Render(http.ResponseWriter) error {
	return nil
}

func (r *stubHTMLInstance) WriteContentType(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
}

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(gdb) })
	return gdb
}

func setupTestAPI(t *testing.T) (*API, *gorm.DB) {
	t.Helper()

	gdb := setupTestDB(t)
	repo := waitlist.NewFileRepository(filepath.Join(t.TempDir(), "subscribers.json"))
	api := NewAPI(Options{
		DB:       gdb,
		Waitlist: waitlist.NewService(repo),
		Site: SiteInfo{
			Name:        "SERP Strategist",
			BaseURL:     "https://example.com",
			Description: "Track every ranking",
		},
		UploadDir: t.TempDir(),
		UploadURL: "/uploads",
	})
	return api, gdb
}

// performRequest 直接调用 handler，不经过路由。
func performRequest(handler gin.HandlerFunc, method, target string, body interface{}, params ...gin.Param) (*httptest.ResponseRecorder, *stubHTMLRender) {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		payload, _ := json.Marshal(b)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	c, engine := gin.CreateTestContext(w)
	stub := &stubHTMLRender{}
	engine.HTMLRender = stub
	c.Request = req
	c.Params = params

	handler(c)
	c.Writer.WriteHeaderNow()
	return w, stub
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func idParam(id string) gin.Param {
	return gin.Param{Key: "id", Value: id}
}

package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/serpstrategist/site/internal/waitlist"
)

type brokenRepository struct{}

func (brokenRepository) Name() string { return "broken" }
func (brokenRepository) Add(context.Context, waitlist.Subscriber) error {
	return errors.New("disk full")
}
func (brokenRepository) List(context.Context) ([]waitlist.Subscriber, error) {
	return nil, errors.New("disk full")
}
func (brokenRepository) Close() error { return nil }

func TestSubscribeDuplicate(t *testing.T) {
	api, _ := setupTestAPI(t)

	first, _ := performRequest(api.Subscribe, http.MethodPost, "/api/subscribe", map[string]any{"email": "a@b.com"})
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", first.Code, first.Body.String())
	}
	body := decodeJSON(t, first)
	if body["success"] != true || body["message"] == "" {
		t.Fatalf("unexpected body %v", body)
	}

	second, _ := performRequest(api.Subscribe, http.MethodPost, "/api/subscribe", map[string]any{"email": " a@b.com "})
	if second.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", second.Code)
	}
	if decodeJSON(t, second)["alreadySubscribed"] != true {
		t.Fatalf("expected alreadySubscribed flag")
	}

	subscribers, err := api.waitlist.Subscribers(context.Background())
	if err != nil {
		t.Fatalf("list subscribers: %v", err)
	}
	if len(subscribers) != 1 {
		t.Fatalf("expected exactly one stored subscriber, got %d", len(subscribers))
	}
	if subscribers[0].Source != "website" {
		t.Fatalf("expected default source, got %q", subscribers[0].Source)
	}
}

func TestSubscribeValidation(t *testing.T) {
	api, _ := setupTestAPI(t)

	for _, payload := range []any{map[string]any{"email": ""}, map[string]any{"email": "not-an-email"}, map[string]any{}, "nope"} {
		w, _ := performRequest(api.Subscribe, http.MethodPost, "/api/subscribe", payload)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %v, got %d", payload, w.Code)
		}
	}
}

func TestSubscribeStorageFailure(t *testing.T) {
	api, _ := setupTestAPI(t)
	api.waitlist = waitlist.NewService(brokenRepository{})

	w, _ := performRequest(api.Subscribe, http.MethodPost, "/api/subscribe", map[string]any{"email": "a@b.com"})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestListSubscribers(t *testing.T) {
	api, _ := setupTestAPI(t)
	api.waitlist.AddSubscriber(context.Background(), "x@y.com", waitlist.Metadata{Source: "hero"})

	w, _ := performRequest(api.ListSubscribers, http.MethodGet, "/admin/api/subscribers", nil)
	body := decodeJSON(t, w)
	if body["total"].(float64) != 1 || body["backend"] != "file" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestListSubscribersCorruptStore(t *testing.T) {
	api, _ := setupTestAPI(t)
	path := filepath.Join(t.TempDir(), "subscribers.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}
	api.waitlist = waitlist.NewService(waitlist.NewFileRepository(path))

	w, _ := performRequest(api.ListSubscribers, http.MethodGet, "/admin/api/subscribers", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", w.Code, w.Body.String())
	}
	if decodeJSON(t, w)["error"] != "Failed to fetch subscribers" {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestRateLimitByIP(t *testing.T) {
	r := gin.New()
	r.POST("/limited", RateLimitByIP(2, time.Minute), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/limited", nil)
		req.RemoteAddr = "203.0.113.7:5555"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
		if w.Code == http.StatusTooManyRequests && decodeJSON(t, w)["error"] != "Too many requests" {
			t.Fatalf("unexpected 429 body %s", w.Body.String())
		}
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status sequence %v", codes)
	}

	other := httptest.NewRequest(http.MethodPost, "/limited", nil)
	other.RemoteAddr = "198.51.100.1:5555"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, other)
	if w.Code != http.StatusOK {
		t.Fatalf("other clients must not be limited, got %d", w.Code)
	}
}

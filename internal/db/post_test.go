package db

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:db-models-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() { _ = Close(gdb) })
	return gdb
}

func TestBlogPostBeforeCreateAssignsUUID(t *testing.T) {
	gdb := openTestDB(t)

	post := BlogPost{Title: "Hello", Slug: "hello", Status: PostStatusDraft}
	if err := gdb.Create(&post).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	if len(post.ID) != 36 {
		t.Fatalf("expected uuid id, got %q", post.ID)
	}

	var loaded BlogPost
	if err := gdb.First(&loaded, "id = ?", post.ID).Error; err != nil {
		t.Fatalf("reload post: %v", err)
	}
	if loaded.PublishedAt != nil {
		t.Fatalf("draft should not have published_at")
	}
	if loaded.ViewCount != 0 {
		t.Fatalf("expected zero views, got %d", loaded.ViewCount)
	}
}

func TestBlogPostSlugIsUnique(t *testing.T) {
	gdb := openTestDB(t)

	if err := gdb.Create(&BlogPost{Title: "A", Slug: "same", Status: PostStatusDraft}).Error; err != nil {
		t.Fatalf("create first post: %v", err)
	}
	if err := gdb.Create(&BlogPost{Title: "A", Slug: "same", Status: PostStatusDraft}).Error; err == nil {
		t.Fatalf("expected unique constraint violation on duplicate slug")
	}
}

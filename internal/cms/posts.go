package cms

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Post is the projection of a CMS post document used by the site.
type Post struct {
	ID          string          `json:"_id"`
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Excerpt     string          `json:"excerpt,omitempty"`
	MainImage   string          `json:"mainImage,omitempty"`
	AuthorName  string          `json:"authorName,omitempty"`
	Categories  []string        `json:"categories,omitempty"`
	PublishedAt *time.Time      `json:"publishedAt"`
	UpdatedAt   *time.Time      `json:"_updatedAt,omitempty"`
	Body        json.RawMessage `json:"body,omitempty"`
}

const postProjection = `{
  _id,
  title,
  "slug": slug.current,
  excerpt,
  "mainImage": mainImage.asset->url,
  "authorName": author->name,
  "categories": categories[]->title,
  publishedAt,
  _updatedAt`

const listPostsQuery = `*[_type == "post" && defined(slug.current)] | order(publishedAt desc) [0...$limit] ` +
	postProjection + `
}`

const postBySlugQuery = `*[_type == "post" && slug.current == $slug][0] ` +
	postProjection + `,
  body
}`

// ListPosts returns the newest posts, newest first. limit falls back to 20
// and is capped at 100.
func (c *Client) ListPosts(ctx context.Context, limit int) ([]Post, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	var posts []Post
	err := c.Query(ctx, listPostsQuery, map[string]any{"limit": limit}, &posts)
	if errors.Is(err, ErrNotFound) {
		return []Post{}, nil
	}
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// PostBySlug returns one post or ErrNotFound.
func (c *Client) PostBySlug(ctx context.Context, slug string) (*Post, error) {
	var post Post
	if err := c.Query(ctx, postBySlugQuery, map[string]any{"slug": slug}, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

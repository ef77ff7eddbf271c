package handler

import (
	"time"

	"github.com/serpstrategist/site/internal/db"
	"github.com/serpstrategist/site/internal/service"
)

type authorRequest struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type seoRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
}

// postRequest is the body of POST and PUT. Status is ignored by PUT.
type postRequest struct {
	Title         string        `json:"title"`
	Content       string        `json:"content"`
	Excerpt       string        `json:"excerpt"`
	FeaturedImage string        `json:"featuredImage"`
	Status        string        `json:"status"`
	Author        authorRequest `json:"author"`
	SEO           seoRequest    `json:"seo"`
	CategoryIDs   []string      `json:"categoryIds"`
	TagIDs        []string      `json:"tagIds"`
}

type statusRequest struct {
	Status string `json:"status"`
}

func (r postRequest) toInput() service.PostInput {
	return service.PostInput{
		Title:         r.Title,
		Content:       r.Content,
		Excerpt:       r.Excerpt,
		FeaturedImage: r.FeaturedImage,
		Status:        r.Status,
		Author:        service.AuthorInput{Name: r.Author.Name, Avatar: r.Author.Avatar},
		SEO: service.SEOInput{
			Title:       r.SEO.Title,
			Description: r.SEO.Description,
			Keywords:    r.SEO.Keywords,
		},
		CategoryIDs: r.CategoryIDs,
		TagIDs:      r.TagIDs,
	}
}

type postAuthor struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type taxonomyRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type postSEO struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
}

type postResponse struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Slug          string        `json:"slug"`
	Content       string        `json:"content"`
	Excerpt       string        `json:"excerpt"`
	FeaturedImage string        `json:"featuredImage"`
	Author        postAuthor    `json:"author"`
	Status        string        `json:"status"`
	PublishedAt   *time.Time    `json:"publishedAt"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
	ViewCount     int64         `json:"viewCount"`
	Categories    []taxonomyRef `json:"categories"`
	Tags          []taxonomyRef `json:"tags"`
	SEO           postSEO       `json:"seo"`
}

type paginationResponse struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

func formatPost(post *db.BlogPost) postResponse {
	categories := make([]taxonomyRef, 0, len(post.Categories))
	for _, category := range post.Categories {
		categories = append(categories, taxonomyRef{ID: category.ID, Name: category.Name, Slug: category.Slug})
	}
	tags := make([]taxonomyRef, 0, len(post.Tags))
	for _, tag := range post.Tags {
		tags = append(tags, taxonomyRef{ID: tag.ID, Name: tag.Name, Slug: tag.Slug})
	}
	keywords := []string(post.SEOKeywords)
	if keywords == nil {
		keywords = []string{}
	}

	return postResponse{
		ID:            post.ID,
		Title:         post.Title,
		Slug:          post.Slug,
		Content:       post.Content,
		Excerpt:       post.Excerpt,
		FeaturedImage: post.FeaturedImage,
		Author:        postAuthor{Name: post.AuthorName, Avatar: post.AuthorAvatar},
		Status:        post.Status,
		PublishedAt:   post.PublishedAt,
		CreatedAt:     post.CreatedAt,
		UpdatedAt:     post.UpdatedAt,
		ViewCount:     post.ViewCount,
		Categories:    categories,
		Tags:          tags,
		SEO: postSEO{
			Title:       post.SEOTitle,
			Description: post.SEODescription,
			Keywords:    keywords,
		},
	}
}

func formatPosts(posts []db.BlogPost) []postResponse {
	out := make([]postResponse, 0, len(posts))
	for i := range posts {
		out = append(out, formatPost(&posts[i]))
	}
	return out
}

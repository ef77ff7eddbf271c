// Package seo builds schema.org JSON-LD snippets and the XML sitemap.
// Everything here is a pure function of its inputs.
package seo

import (
	"encoding/json"
	"strings"
	"time"
)

const schemaContext = "https://schema.org"

// Site describes the publisher.
type Site struct {
	Name        string
	BaseURL     string
	Description string
	LogoURL     string
	SameAs      []string
}

// Article is the input for BlogPosting.
type Article struct {
	Title       string
	Description string
	Path        string
	Image       string
	AuthorName  string
	Keywords    []string
	PublishedAt *time.Time
	ModifiedAt  time.Time
}

// Crumb is one breadcrumb entry. Path is relative to the site base URL.
type Crumb struct {
	Name string
	Path string
}

type imageObject struct {
	Type string `json:"@type"`
	URL  string `json:"url"`
}

type organization struct {
	Context     string       `json:"@context,omitempty"`
	Type        string       `json:"@type"`
	Name        string       `json:"name"`
	URL         string       `json:"url"`
	Description string       `json:"description,omitempty"`
	Logo        *imageObject `json:"logo,omitempty"`
	SameAs      []string     `json:"sameAs,omitempty"`
}

type searchAction struct {
	Type       string `json:"@type"`
	Target     string `json:"target"`
	QueryInput string `json:"query-input"`
}

type webSite struct {
	Context         string        `json:"@context"`
	Type            string        `json:"@type"`
	Name            string        `json:"name"`
	URL             string        `json:"url"`
	Description     string        `json:"description,omitempty"`
	Publisher       organization  `json:"publisher"`
	PotentialAction *searchAction `json:"potentialAction,omitempty"`
}

type person struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

type blogPosting struct {
	Context          string       `json:"@context"`
	Type             string       `json:"@type"`
	Headline         string       `json:"headline"`
	Description      string       `json:"description,omitempty"`
	URL              string       `json:"url"`
	MainEntityOfPage string       `json:"mainEntityOfPage"`
	Image            string       `json:"image,omitempty"`
	Author           person       `json:"author"`
	Publisher        organization `json:"publisher"`
	Keywords         string       `json:"keywords,omitempty"`
	DatePublished    string       `json:"datePublished,omitempty"`
	DateModified     string       `json:"dateModified,omitempty"`
}

type listItem struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Item     string `json:"item"`
}

type breadcrumbList struct {
	Context         string     `json:"@context"`
	Type            string     `json:"@type"`
	ItemListElement []listItem `json:"itemListElement"`
}

// Organization returns the publisher's Organization JSON-LD.
func Organization(site Site) string {
	org := publisher(site)
	org.Context = schemaContext
	return encode(org)
}

// WebSite returns the WebSite JSON-LD for the home page.
func WebSite(site Site) string {
	return encode(webSite{
		Context:     schemaContext,
		Type:        "WebSite",
		Name:        site.Name,
		URL:         Absolute(site.BaseURL, "/"),
		Description: site.Description,
		Publisher:   publisher(site),
	})
}

// BlogPosting returns the BlogPosting JSON-LD for one article. The author
// falls back to the site name.
func BlogPosting(site Site, article Article) string {
	link := Absolute(site.BaseURL, article.Path)
	author := strings.TrimSpace(article.AuthorName)
	if author == "" {
		author = site.Name
	}

	posting := blogPosting{
		Context:          schemaContext,
		Type:             "BlogPosting",
		Headline:         article.Title,
		Description:      article.Description,
		URL:              link,
		MainEntityOfPage: link,
		Author:           person{Type: "Person", Name: author},
		Publisher:        publisher(site),
		Keywords:         strings.Join(article.Keywords, ", "),
	}
	if image := strings.TrimSpace(article.Image); image != "" {
		posting.Image = Absolute(site.BaseURL, image)
	}
	if article.PublishedAt != nil {
		posting.DatePublished = article.PublishedAt.UTC().Format(time.RFC3339)
	}
	if !article.ModifiedAt.IsZero() {
		posting.DateModified = article.ModifiedAt.UTC().Format(time.RFC3339)
	}
	return encode(posting)
}

// Breadcrumbs returns a BreadcrumbList with 1-based positions.
func Breadcrumbs(site Site, crumbs []Crumb) string {
	items := make([]listItem, 0, len(crumbs))
	for i, crumb := range crumbs {
		items = append(items, listItem{
			Type:     "ListItem",
			Position: i + 1,
			Name:     crumb.Name,
			Item:     Absolute(site.BaseURL, crumb.Path),
		})
	}
	return encode(breadcrumbList{
		Context:         schemaContext,
		Type:            "BreadcrumbList",
		ItemListElement: items,
	})
}

// Absolute joins base and path with exactly one slash. Absolute URLs in path
// are returned unchanged.
func Absolute(base, path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	base = strings.TrimRight(base, "/")
	if path == "" || path == "/" {
		return base + "/"
	}
	return base + "/" + strings.TrimLeft(path, "/")
}

func publisher(site Site) organization {
	org := organization{
		Type:        "Organization",
		Name:        site.Name,
		URL:         Absolute(site.BaseURL, "/"),
		Description: site.Description,
		SameAs:      site.SameAs,
	}
	if site.LogoURL != "" {
		org.Logo = &imageObject{Type: "ImageObject", URL: Absolute(site.BaseURL, site.LogoURL)}
	}
	return org
}

// encode 的结构体均可序列化，错误不会发生。
func encode(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}

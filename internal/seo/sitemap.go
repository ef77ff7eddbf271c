package seo

import (
	"encoding/xml"
	"fmt"
	"time"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// SitemapEntry is one <url> element. Path may be relative to the base URL.
type SitemapEntry struct {
	Path       string
	LastMod    time.Time
	ChangeFreq string
	Priority   float64
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// Sitemap renders entries as a sitemap.xml document.
func Sitemap(baseURL string, entries []SitemapEntry) ([]byte, error) {
	set := urlSet{XMLNS: sitemapNamespace, URLs: make([]sitemapURL, 0, len(entries))}
	for _, entry := range entries {
		u := sitemapURL{
			Loc:        Absolute(baseURL, entry.Path),
			ChangeFreq: entry.ChangeFreq,
		}
		if !entry.LastMod.IsZero() {
			u.LastMod = entry.LastMod.UTC().Format("2006-01-02")
		}
		if entry.Priority > 0 {
			u.Priority = fmt.Sprintf("%.1f", entry.Priority)
		}
		set.URLs = append(set.URLs, u)
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode sitemap: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}

// Robots returns a robots.txt that allows everything except the admin area.
func Robots(baseURL string) string {
	return "User-agent: *\nAllow: /\nDisallow: /admin/\n\nSitemap: " + Absolute(baseURL, "/sitemap.xml") + "\n"
}

// Package view holds the embedded HTML templates for the public site and the
// admin pages.
package view

import (
	"embed"
	"html/template"
	"strings"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

// FuncMap returns the helpers available to every template.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"gt": func(a, b int) bool {
			return a > b
		},
		"lt": func(a, b int) bool {
			return a < b
		},
		"formatDate": formatDate,
		"socialIcon": SocialIconSVG,
		"join":       strings.Join,
	}
}

// Templates parses every embedded template. Templates are addressed by file
// name, e.g. "landing.html".
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html")
}

// formatDate accepts time.Time or *time.Time; nil and zero render empty.
func formatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format("Jan 2, 2006")
	case *time.Time:
		if t == nil || t.IsZero() {
			return ""
		}
		return t.Format("Jan 2, 2006")
	default:
		return ""
	}
}

package db

import (
	"regexp"
	"strings"
)

var (
	slugNonWord    = regexp.MustCompile(`[^\w\s-]`)
	slugWhitespace = regexp.MustCompile(`\s+`)
	slugHyphenRun  = regexp.MustCompile(`-+`)
)

// Slugify derives the URL slug for a title: lowercase, non-word characters
// removed, whitespace runs turned into hyphens, hyphen runs collapsed.
// A title with no word characters at all maps to "post".
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugNonWord.ReplaceAllString(s, "")
	s = slugWhitespace.ReplaceAllString(s, "-")
	s = slugHyphenRun.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "post"
	}
	return s
}

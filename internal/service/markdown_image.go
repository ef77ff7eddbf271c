package service

import (
	"regexp"
	"strings"
)

var markdownImagePattern = regexp.MustCompile(`!\[[^\]]*]\((<[^>]+>|[^)\s]+)([^)]*)\)`)

// FirstMarkdownImage 返回正文中第一张 Markdown 图片的地址，没有图片时返回空字符串。
// 文章未设置封面时，用它作为结构化数据里的 image。
func FirstMarkdownImage(content string) string {
	groups := markdownImagePattern.FindStringSubmatch(content)
	if len(groups) < 2 {
		return ""
	}
	return strings.TrimSuffix(strings.TrimPrefix(groups[1], "<"), ">")
}

// CoverImage 优先使用封面图，否则回退到正文第一张图片。
func CoverImage(featured, content string) string {
	if strings.TrimSpace(featured) != "" {
		return featured
	}
	return FirstMarkdownImage(content)
}
